package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/benjamin-asdf/prefab-checker/internal/atomicfile"
)

// SaveTo writes cfg to path atomically. Comments in an existing file are
// not preserved.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = Default()
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}

// Encode renders cfg as TOML.
func Encode(cfg *Config) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Keys lists the settings accepted by Set.
var Keys = []string{"extensions", "exclude", "workers", "max_passes", "log.level", "audit.enabled", "audit.path", "ui.accent"}

// Set updates one setting from its string form. List values are
// comma-separated.
func (c *Config) Set(key, value string) error {
	switch key {
	case "extensions":
		c.Extensions = splitList(value)
	case "exclude":
		c.Exclude = splitList(value)
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("workers: %w", err)
		}
		c.Workers = n
	case "max_passes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max_passes: %w", err)
		}
		c.MaxPasses = n
	case "log.level":
		c.Log.Level = value
	case "audit.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("audit.enabled: %w", err)
		}
		c.Audit.Enabled = b
	case "audit.path":
		c.Audit.Path = value
	case "ui.accent":
		c.UI.Accent = value
	default:
		return fmt.Errorf("unknown key %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	return c.Validate()
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
