// Package buildinfo holds release metadata.
package buildinfo

import (
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X" for release binaries; empty for local builds.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// ModulePath is used when the binary carries no module information.
const ModulePath = "github.com/benjamin-asdf/prefab-checker"

// Info describes the running binary.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Module    string `json:"module" yaml:"module"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty"`
	Date      string `json:"date,omitempty" yaml:"date,omitempty"`
	Dirty     bool   `json:"dirty,omitempty" yaml:"dirty,omitempty"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

var readBuildInfo = debug.ReadBuildInfo

// Read combines ldflags values with the module and VCS data embedded by
// the Go toolchain. Ldflags win when both are present.
func Read() Info {
	info := Info{
		Version:   "devel",
		Module:    ModulePath,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := readBuildInfo(); ok && bi != nil {
		if bi.Main.Path != "" {
			info.Module = bi.Main.Path
		}
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			info.Version = v
		}
		if bi.GoVersion != "" {
			info.GoVersion = bi.GoVersion
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.Commit = s.Value
			case "vcs.time":
				info.Date = s.Value
			case "vcs.modified":
				info.Dirty = s.Value == "true"
			}
		}
	}

	if Version != "" {
		info.Version = Version
	}
	if Commit != "" {
		info.Commit = Commit
	}
	if Date != "" {
		info.Date = Date
	}
	return info
}

// Short renders "version (commit)" with the commit cut to 12 characters.
func (i Info) Short() string {
	if i.Commit == "" {
		return i.Version
	}
	commit := i.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if i.Dirty {
		commit += "-dirty"
	}
	return i.Version + " (" + commit + ")"
}
