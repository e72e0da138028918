package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/petra-ci/pipecheck/internal/config"
	"github.com/petra-ci/pipecheck/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pipecheck configuration",
	Long: `Manage pipecheck configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (PIPECHECK_*)
  2. Config file (pipecheck.yml or --config)
  3. Built-in defaults`,
	Example: `  # Show the effective configuration
  pipecheck config show

  # Write a starter config file
  pipecheck config init`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration after all layers are merged",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		encoded, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.WrapWithMessage(err, errors.Internal, "encoding configuration")
		}
		fmt.Fprint(cmd.OutOrStdout(), string(encoded))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented starter config to pipecheck.yml",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = config.DefaultConfigFile
		}

		if _, err := os.Stat(path); err == nil {
			return errors.NewConfigError(
				fmt.Sprintf("config file %s already exists", path),
				"remove the file or pass --config with a different path")
		}

		if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
			return errors.WrapWithMessage(err, errors.Configuration, "writing config file")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
