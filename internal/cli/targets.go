package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/benjamin-asdf/prefab-checker/internal/config"
	"github.com/benjamin-asdf/prefab-checker/internal/ignore"
)

// collectTargets expands args into document paths. Directories are walked
// for files with a configured extension, skipping ignored paths; files
// named explicitly are always included. No args means the current
// directory. Duplicates are dropped and input order is kept.
func collectTargets(args []string, c *config.Config) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	matcher := ignore.NewMatcher(c.Exclude)

	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		key := filepath.Clean(p)
		if seen[key] {
			return
		}
		seen[key] = true
		paths = append(paths, p)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("no such file or directory: %s", arg)
			}
			return nil, err
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		root := arg
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			if d.IsDir() {
				if rel != "." && matcher.ShouldIgnore(rel, true) {
					return filepath.SkipDir
				}
				return nil
			}
			if !c.HasExtension(path) || matcher.ShouldIgnore(rel, false) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	return paths, nil
}
