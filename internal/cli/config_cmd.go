package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benjamin-asdf/prefab-checker/internal/config"
)

func configData(c *config.Config, path string, exists bool) map[string]interface{} {
	return map[string]interface{}{
		"config_path": path,
		"exists":      exists,
		"extensions":  c.Extensions,
		"exclude":     c.Exclude,
		"workers":     c.WorkerCount(),
		"max_passes":  c.MaxPasses,
		"log": map[string]interface{}{
			"level": c.Log.Level,
		},
		"audit": map[string]interface{}{
			"enabled": c.Audit.Enabled,
			"path":    auditPath(c),
		},
		"ui": map[string]interface{}{
			"accent": strings.TrimSpace(c.UI.Accent),
		},
	}
}

func configFileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	c := getConfig()
	exists := configFileExists(resolvedConfigPath)

	if isJSONOutput() {
		outputSuccess(cmd, configData(c, resolvedConfigPath, exists), nil)
		return nil
	}

	out := cmd.OutOrStdout()
	if exists {
		fmt.Fprintf(out, "# %s\n", resolvedConfigPath)
	} else {
		fmt.Fprintf(out, "# %s (not created, showing defaults)\n", resolvedConfigPath)
	}
	encoded, err := config.Encode(c)
	if err != nil {
		return handleError(cmd, ErrInternal, err, "")
	}
	fmt.Fprint(out, encoded)
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage prefab-checker config.toml settings",
	Long: `Manage prefab-checker config.toml settings.

Without a subcommand the effective configuration is shown.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config.toml if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := config.CreateDefault(resolvedConfigPath)
		if err != nil {
			return handleError(cmd, ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(cmd, map[string]interface{}{
				"config_path": resolvedConfigPath,
				"created":     created,
			}, nil)
			return nil
		}

		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "Created config: %s\n", resolvedConfigPath)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Config already exists: %s\n", resolvedConfigPath)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if isJSONOutput() {
			outputSuccess(cmd, map[string]interface{}{
				"config_path": resolvedConfigPath,
				"exists":      configFileExists(resolvedConfigPath),
			}, nil)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), resolvedConfigPath)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one config.toml field",
	Long: `Set one config.toml field. List values are comma-separated.

Keys: ` + strings.Join(config.Keys, ", ") + `

Comments in an existing file are not preserved.`,
	Example: `  prefab-checker config set workers 4
  prefab-checker config set exclude "Library/, Assets/ThirdParty/**"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		exists := configFileExists(resolvedConfigPath)
		c := config.Default()
		if exists {
			loaded, err := config.LoadFrom(resolvedConfigPath)
			if err != nil {
				return handleError(cmd, ErrConfigInvalid, err, "")
			}
			c = loaded
		}

		key, value := args[0], args[1]
		if err := c.Set(key, value); err != nil {
			return handleError(cmd, ErrInvalidInput, err, "")
		}
		if err := config.SaveTo(resolvedConfigPath, c); err != nil {
			return handleError(cmd, ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			data := configData(c, resolvedConfigPath, true)
			data["changed"] = key
			outputSuccess(cmd, data, nil)
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Updated config: %s\n", resolvedConfigPath)
		fmt.Fprintf(cmd.OutOrStdout(), "changed: %s\n", key)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})

	rootCmd.AddCommand(configCmd)
}
