// Package cli implements the command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benjamin-asdf/prefab-checker/internal/config"
	"github.com/benjamin-asdf/prefab-checker/internal/logging"
	"github.com/benjamin-asdf/prefab-checker/internal/ui"
)

var (
	// Global flags
	configPath  string
	logLevel    levelValue
	verbosity   int
	workersFlag int
	noColor     bool

	// Resolved values
	resolvedConfigPath string
	cfg                *config.Config
	logger             = logging.Discard()
	display            = ui.NewDisplayContextWithWidth(ui.DefaultTermWidth)
)

// errIssuesFound makes the process exit non-zero after results were
// already reported.
var errIssuesFound = errors.New("issues found")

// errReported marks an error that was already printed in JSON form.
var errReported = errors.New("error reported")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "prefab-checker",
	Short: "Find and fix broken component references in prefabs and scenes",
	Long: `prefab-checker validates the game object and component graph of text
serialized prefab and scene files, and repairs one well-understood kind of
corruption at a time.

Files it cannot repair safely are reported and left untouched.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		resolvedConfigPath = config.ResolvePath(configPath)

		switch cmd.Name() {
		case "completion", "help", "version":
			return nil
		}
		// These manage the file directly and must work when it is invalid.
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" && cmd.Name() != "show" {
			return nil
		}

		loaded, err := loadConfig()
		if err != nil {
			return handleError(cmd, ErrConfigInvalid, err, "Run 'prefab-checker config path' to locate the file")
		}
		if workersFlag > 0 {
			loaded.Workers = workersFlag
		}
		cfg = loaded

		level := logging.LevelFromString(cfg.Log.Level)
		if logLevel.name != "" {
			level = logging.LevelFromString(logLevel.name)
		}
		level = logging.LevelFromVerbosity(level, verbosity)
		if jsonOutput {
			logger = logging.NewJSON(cmd.ErrOrStderr(), level)
		} else {
			logger = logging.New(cmd.ErrOrStderr(), level)
		}

		ui.ConfigureTheme(cfg.UI.Accent)
		ui.SetColor(!jsonOutput && ui.ShouldColor(os.Stdout, noColor))
		display = ui.NewDisplayContext()

		logger.Debug("config loaded", "path", resolvedConfigPath, "workers", cfg.WorkerCount())
		return nil
	},
}

// Execute runs the CLI. Errors that were not already reported are printed
// to stderr.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errIssuesFound) && !errors.Is(err, errReported) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().Var(&logLevel, "log-level", "Diagnostic log level: debug, info, warn, error, off")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().IntVar(&workersFlag, "workers", 0, "Documents processed in parallel (0 = from config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable styled output")
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// getLogger returns the diagnostics logger.
func getLogger() *slog.Logger {
	return logger
}

// loadConfig reads the file named by --config, or the default location.
// A missing file yields the defaults either way.
func loadConfig() (*config.Config, error) {
	if strings.TrimSpace(configPath) == "" {
		return config.Load()
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.LoadFrom(configPath)
}

// levelValue is a pflag.Value that only accepts known log levels.
type levelValue struct {
	name string
}

func (v *levelValue) String() string { return v.name }

func (v *levelValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "debug", "info", "warn", "warning", "error", "off":
		v.name = s
		return nil
	}
	return fmt.Errorf("must be one of debug, info, warn, error, off")
}

func (v *levelValue) Type() string { return "level" }
