package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, []string{".prefab"}, cfg.Extensions)
	assert.Equal(t, 1, cfg.MaxPasses)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
	assert.Positive(t, cfg.WorkerCount())
}

func TestLoadFrom(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		path := writeConfig(t, `
extensions = [".prefab"]
exclude = ["Library/", "Temp/"]
workers = 3
max_passes = 4

[log]
level = "debug"

[audit]
enabled = true
path = "audit.jsonl"

[ui]
accent = "39"
`)
		cfg, err := LoadFrom(path)
		require.NoError(t, err)
		assert.Equal(t, []string{".prefab"}, cfg.Extensions)
		assert.Equal(t, []string{"Library/", "Temp/"}, cfg.Exclude)
		assert.Equal(t, 3, cfg.WorkerCount())
		assert.Equal(t, 4, cfg.MaxPasses)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.Audit.Enabled)
		assert.Equal(t, "audit.jsonl", cfg.Audit.Path)
		assert.Equal(t, "39", cfg.UI.Accent)
	})

	t.Run("defaults fill gaps", func(t *testing.T) {
		cfg, err := LoadFrom(writeConfig(t, "workers = 2\n"))
		require.NoError(t, err)
		assert.Equal(t, DefaultExtensions, cfg.Extensions)
		assert.Equal(t, 1, cfg.MaxPasses)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadFrom(writeConfig(t, "wrokers = 2\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "wrokers")
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := LoadFrom(writeConfig(t, "extensions = [\"prefab\"]\n"))
		require.Error(t, err)
	})

	t.Run("bad toml", func(t *testing.T) {
		_, err := LoadFrom(writeConfig(t, "workers = \n"))
		require.Error(t, err)
	})
}

func TestHasExtension(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.HasExtension("Assets/Player.prefab"))
	assert.True(t, cfg.HasExtension("Assets/Main.UNITY"))
	assert.False(t, cfg.HasExtension("Assets/Player.prefab.meta"))
	assert.False(t, cfg.HasExtension("Assets/readme"))
}

func TestCreateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	created, err := CreateDefault(path)
	require.NoError(t, err)
	assert.True(t, created)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Extensions, cfg.Extensions)

	created, err = CreateDefault(path)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSetAndSave(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Set("workers", "6"))
	require.NoError(t, cfg.Set("exclude", "Library/, Temp/"))
	require.NoError(t, cfg.Set("audit.enabled", "true"))
	require.NoError(t, cfg.Set("log.level", "info"))

	assert.Error(t, cfg.Set("workers", "-1"))
	assert.Error(t, cfg.Set("max_passes", "zero"))
	assert.Error(t, cfg.Set("nope", "1"))

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg.Workers = 6
	require.NoError(t, SaveTo(path, cfg))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 6, loaded.Workers)
	assert.Equal(t, []string{"Library/", "Temp/"}, loaded.Exclude)
	assert.True(t, loaded.Audit.Enabled)
	assert.Equal(t, "info", loaded.Log.Level)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/tmp/x.toml", ResolvePath("/tmp/x.toml"))
	assert.Equal(t, DefaultPath(), ResolvePath("  "))
}
