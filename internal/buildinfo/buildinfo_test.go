package buildinfo

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	prev := readBuildInfo
	t.Cleanup(func() { readBuildInfo = prev })
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func stubLdflags(t *testing.T, version, commit, date string) {
	t.Helper()
	pv, pc, pd := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = pv, pc, pd })
	Version, Commit, Date = version, commit, date
}

func TestRead(t *testing.T) {
	embedded := &debug.BuildInfo{
		GoVersion: "go1.23.4",
		Main:      debug.Module{Path: "example.com/fork", Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	t.Run("embedded module data", func(t *testing.T) {
		stubBuildInfo(t, embedded)
		stubLdflags(t, "", "", "")

		info := Read()
		assert.Equal(t, "v0.4.0", info.Version)
		assert.Equal(t, "example.com/fork", info.Module)
		assert.Equal(t, "0123456789abcdef", info.Commit)
		assert.Equal(t, "2026-01-02T03:04:05Z", info.Date)
		assert.True(t, info.Dirty)
		assert.Equal(t, "go1.23.4", info.GoVersion)
		assert.Equal(t, "v0.4.0 (0123456789ab-dirty)", info.Short())
	})

	t.Run("ldflags win", func(t *testing.T) {
		stubBuildInfo(t, embedded)
		stubLdflags(t, "v1.0.0", "feed", "2026-05-01")

		info := Read()
		assert.Equal(t, "v1.0.0", info.Version)
		assert.Equal(t, "feed", info.Commit)
		assert.Equal(t, "2026-05-01", info.Date)
	})

	t.Run("no build info", func(t *testing.T) {
		stubBuildInfo(t, nil)
		stubLdflags(t, "", "", "")

		info := Read()
		assert.Equal(t, "devel", info.Version)
		assert.Equal(t, ModulePath, info.Module)
		assert.Equal(t, runtime.Version(), info.GoVersion)
		assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
		assert.Equal(t, "devel", info.Short())
	})

	t.Run("devel main version", func(t *testing.T) {
		stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
		stubLdflags(t, "", "", "")

		assert.Equal(t, "devel", Read().Version)
	})
}
