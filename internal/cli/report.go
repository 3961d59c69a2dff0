package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/benjamin-asdf/prefab-checker/internal/atomicfile"
	"github.com/benjamin-asdf/prefab-checker/internal/buildinfo"
)

// runReport is written by --report.
type runReport struct {
	Tool        string       `yaml:"tool"`
	GeneratedAt time.Time    `yaml:"generated_at"`
	Command     string       `yaml:"command"`
	DryRun      bool         `yaml:"dry_run,omitempty"`
	Summary     runSummary   `yaml:"summary"`
	Files       []fileResult `yaml:"files"`
}

func writeReport(path string, report runReport) error {
	if report.Tool == "" {
		report.Tool = "prefab-checker " + buildinfo.Read().Short()
	}
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now().UTC()
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
