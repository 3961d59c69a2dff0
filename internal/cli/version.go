package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benjamin-asdf/prefab-checker/internal/buildinfo"
	"github.com/benjamin-asdf/prefab-checker/internal/config"
)

// versionData is what 'version' reports: the binary plus the settings a
// bug report needs to reproduce a run.
type versionData struct {
	buildinfo.Info
	ConfigPath string   `json:"config_path"`
	Extensions []string `json:"extensions"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version, build and configuration details",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data := currentVersionData()
		if isJSONOutput() {
			outputSuccess(cmd, data, nil)
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "prefab-checker %s\n", data.Short())
		if data.Date != "" {
			fmt.Fprintf(out, "built:    %s\n", data.Date)
		}
		fmt.Fprintf(out, "go:       %s %s\n", data.GoVersion, data.Platform)
		fmt.Fprintf(out, "config:   %s\n", data.ConfigPath)
		fmt.Fprintf(out, "formats:  %s\n", strings.Join(data.Extensions, " "))
		return nil
	},
}

// currentVersionData never fails on a broken config file; it falls back
// to the default extensions.
func currentVersionData() versionData {
	path := resolvedConfigPath
	if path == "" {
		path = config.ResolvePath(configPath)
	}
	exts := config.DefaultExtensions
	if c, err := loadConfig(); err == nil {
		exts = c.Extensions
	}
	return versionData{
		Info:       buildinfo.Read(),
		ConfigPath: path,
		Extensions: exts,
	}
}

func init() {
	rootCmd.Version = buildinfo.Read().Short()
	rootCmd.SetVersionTemplate("prefab-checker {{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
}
