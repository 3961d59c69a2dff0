// Package testutil provides fixtures for prefab-checker tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestProject is a temporary directory laid out like an asset folder.
type TestProject struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestProject creates a new project builder.
// Call Build() to create the actual directory.
func NewTestProject(t *testing.T) *TestProject {
	t.Helper()
	return &TestProject{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file. The path is relative to the project root.
func (p *TestProject) WithFile(path, content string) *TestProject {
	p.files[path] = content
	return p
}

// Build creates the directory and all configured files.
func (p *TestProject) Build() *TestProject {
	p.t.Helper()
	p.Path = p.t.TempDir()
	for path, content := range p.files {
		p.writeFile(path, content)
	}
	return p
}

func (p *TestProject) writeFile(relPath, content string) {
	p.t.Helper()
	fullPath := filepath.Join(p.Path, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		p.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		p.t.Fatalf("failed to write file %s: %v", relPath, err)
	}
}

// Abs returns the absolute path of a project file.
func (p *TestProject) Abs(relPath string) string {
	return filepath.Join(p.Path, relPath)
}

// ReadFile reads a file from the project.
func (p *TestProject) ReadFile(relPath string) string {
	p.t.Helper()
	content, err := os.ReadFile(p.Abs(relPath))
	if err != nil {
		p.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// AssertFileContains fails the test if the file does not contain substr.
func (p *TestProject) AssertFileContains(relPath, substr string) {
	p.t.Helper()
	content := p.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		p.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertFileUnchanged fails the test if the file differs from what Build wrote.
func (p *TestProject) AssertFileUnchanged(relPath string) {
	p.t.Helper()
	if got := p.ReadFile(relPath); got != p.files[relPath] {
		p.t.Errorf("expected file %s to be unchanged, got:\n%s", relPath, got)
	}
}
