// Package audit provides an append-only log of fixes written to disk.
package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultFile is the audit log location relative to the working directory.
const DefaultFile = ".prefab-checker/audit.log"

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp  time.Time              `json:"ts"`
	Operation  string                 `json:"op"` // fix
	Path       string                 `json:"path"`
	Anomaly    string                 `json:"anomaly,omitempty"`
	Line       int                    `json:"line,omitempty"`
	AssignedID string                 `json:"assigned_id,omitempty"`
	Summary    string                 `json:"summary,omitempty"`
	Extra      map[string]interface{} `json:"extra,omitempty"`
}

// Logger appends entries to a JSON-lines file. It is safe for concurrent use.
type Logger struct {
	path    string
	enabled bool
	mu      sync.Mutex
}

// New creates an audit logger writing to path.
// If enabled is false, the logger will be a no-op.
func New(path string, enabled bool) *Logger {
	if !enabled {
		return &Logger{enabled: false}
	}
	if path == "" {
		path = DefaultFile
	}
	return &Logger{
		path:    path,
		enabled: true,
	}
}

// Path returns the log file path, or "" when disabled.
func (l *Logger) Path() string {
	if l == nil || !l.enabled {
		return ""
	}
	return l.path
}

// Log writes an entry to the audit log.
func (l *Logger) Log(entry Entry) error {
	if l == nil || !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create audit directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(string(data) + "\n"); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}

	return nil
}

// LogFix records one fix written to path.
func (l *Logger) LogFix(path, anomaly string, line int, assignedID, summary string) error {
	return l.Log(Entry{
		Operation:  "fix",
		Path:       path,
		Anomaly:    anomaly,
		Line:       line,
		AssignedID: assignedID,
		Summary:    summary,
	})
}

// ReadEntries reads all entries from the log at path.
func ReadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("failed to decode audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
