package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lensfolio/lensfolio/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or edit the lensfolio config file",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one config value",
	Long: `Set one config value, keeping comments in the rest of the file.

The change is rejected and the file left untouched if the result does not
validate.

Examples:
  lensfolio config set server.base_url https://api.example.com
  lensfolio config set photo.watch false
  lensfolio config set form.creator_type editor`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if err := setConfigValue(path, args[0], args[1]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (%s)\n", args[0], args[1], path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), configPath())
	},
}

func init() {
	configCmd.AddCommand(configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// configPath is the file the current invocation reads.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return localConfigPath
}

// setConfigValue writes key=value to path and restores the previous
// contents if the new file fails validation.
func setConfigValue(path, key, value string) error {
	prev, err := os.ReadFile(path) //nolint:gosec // G304: user's config path
	existed := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading config: %w", err)
	}

	if err := config.SetValue(path, key, value); err != nil {
		return err
	}

	if _, verr := loadConfig(viper.New(), path); verr != nil {
		if existed {
			err = os.WriteFile(path, prev, 0o600)
		} else {
			err = os.Remove(path)
		}
		if err != nil {
			return fmt.Errorf("%w (restoring config: %v)", verr, err)
		}
		return verr
	}
	return nil
}
