// Package config handles prefab-checker configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the prefab-checker configuration.
type Config struct {
	// Extensions selects which files are checked when a directory is given.
	Extensions []string `toml:"extensions"`

	// Exclude holds gitignore-style patterns skipped while walking directories.
	Exclude []string `toml:"exclude"`

	// Workers bounds how many documents are processed at once.
	// 0 means one per CPU.
	Workers int `toml:"workers"`

	// MaxPasses is how many fixes fix may apply to one file per run.
	MaxPasses int `toml:"max_passes"`

	Log   LogConfig   `toml:"log"`
	Audit AuditConfig `toml:"audit"`
	UI    UIConfig    `toml:"ui"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	// Level is one of debug, info, warn, error, off.
	Level string `toml:"level"`
}

// AuditConfig controls the append-only log of written fixes.
type AuditConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for paths and headers.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// DefaultExtensions selects prefabs only. Scenes also hold settings
// objects without an owning game object, which are always refused, so
// they are opt-in.
var DefaultExtensions = []string{".prefab"}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if len(c.Extensions) == 0 {
		c.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if c.MaxPasses == 0 {
		c.MaxPasses = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.MaxPasses < 1 {
		return fmt.Errorf("max_passes must be >= 1, got %d", c.MaxPasses)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with '.'", ext)
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error", "off":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// WorkerCount returns the effective number of workers.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// HasExtension reports whether path has one of the configured extensions.
func (c *Config) HasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	meta, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in config %s", undecoded[0].String(), path)
	}
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &config, nil
}

// ResolvePath returns the explicit path if set, else DefaultPath.
func ResolvePath(explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	return DefaultPath()
}

// DefaultPath returns the default config file path.
// Checks ~/.config/prefab-checker/config.toml first (XDG style),
// then falls back to the OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "prefab-checker", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "prefab-checker", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

const defaultConfigTemplate = `# prefab-checker configuration

# File types checked when a directory is given. Add ".unity" to include
# scenes; scenes with settings objects (RenderSettings and similar) are
# reported as unsupported.
extensions = [".prefab"]

# gitignore-style patterns skipped while walking directories.
# exclude = ["Library/", "Temp/", "ThirdParty/**"]

# Documents processed in parallel (0 = one per CPU).
# workers = 0

# Fixes applied to one file per 'fix' run. Each fix is followed by a full
# re-check of the file.
# max_passes = 1

[log]
# debug, info, warn, error or off
level = "warn"

[audit]
# Append a JSON line for every fix written to disk.
# enabled = true
# path = ".prefab-checker/audit.log"

[ui]
# accent = "#A78BFA"
`

// CreateDefault writes a commented default config to path if none exists.
func CreateDefault(path string) (created bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}

	return true, nil
}
