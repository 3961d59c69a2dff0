package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/benjamin-asdf/prefab-checker/internal/audit"
	"github.com/benjamin-asdf/prefab-checker/internal/doctor"
	"github.com/benjamin-asdf/prefab-checker/internal/ui"
	"github.com/benjamin-asdf/prefab-checker/internal/watcher"
)

var watchFix bool

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-check documents whenever they are saved",
	Long: `Watch checks every document under dir (default: the current directory)
each time it is written, and prints the result. With --fix, repairs are
written as in 'fix'.

In JSON mode each result is printed as one line. Stop with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	c := getConfig()
	log := getLogger()

	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	opts := doctor.RepairOptions{
		MaxPasses: c.MaxPasses,
		Audit:     audit.New(auditPath(c), c.Audit.Enabled),
		Logger:    log,
	}

	var mu sync.Mutex
	out := cmd.OutOrStdout()
	report := func(r fileResult) {
		mu.Lock()
		defer mu.Unlock()
		if isJSONOutput() {
			line, _ := json.Marshal(r)
			fmt.Fprintln(out, string(line))
			return
		}
		fmt.Fprint(out, renderResults([]fileResult{r}, true))
	}

	var w *watcher.Watcher
	w, err := watcher.New(watcher.Config{
		Root:    root,
		Exclude: c.Exclude,
		Accept:  c.HasExtension,
		Logger:  log,
		OnChange: func(path string) {
			if watchFix {
				r := fixFile(cmd.Context(), path, opts)
				if r.Written {
					// One run of fix per save, bounded by max_passes.
					w.Suppress(path)
				}
				report(r)
				return
			}
			report(checkFile(path))
		},
	})
	if err != nil {
		return handleError(cmd, ErrFileNotFound, err, "")
	}

	if !isJSONOutput() {
		fmt.Fprintln(out, ui.Info("Watching "+ui.FilePath(root)+" "+ui.Hint("(Ctrl-C to stop)")))
	}
	if err := w.Start(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return handleError(cmd, ErrInternal, err, "")
	}
	return nil
}

func init() {
	watchCmd.Flags().BoolVar(&watchFix, "fix", false, "Write repairs as documents change")
	rootCmd.AddCommand(watchCmd)
}
