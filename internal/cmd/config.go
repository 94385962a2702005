package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bumpdecider/bumpdecider/internal/pkg/config"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect bumpdecider settings",
		Long: `Inspect bumpdecider settings.

Settings are read from the file given with --settings (optional), then
overridden by BUMPDECIDER_<SECTION>_<KEY> environment variables.`,
	}

	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigInitCmd())

	return configCmd
}

// newConfigShowCmd creates the 'config show' subcommand.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective settings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settingsPath, _ := cmd.Flags().GetString("settings")
			mgr, err := config.NewManager(settingsPath)
			if err != nil {
				return fmt.Errorf("failed to create settings manager: %w", err)
			}

			settings, err := mgr.List()
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(settings)
			if err != nil {
				return fmt.Errorf("failed to encode settings: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

// newConfigInitCmd creates the 'config init' subcommand.
func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with default values",
		Long: `Write a settings file with default values to the path given with --settings.

Existing files are never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settingsPath, _ := cmd.Flags().GetString("settings")
			mgr, err := config.NewManager(settingsPath)
			if err != nil {
				return fmt.Errorf("failed to create settings manager: %w", err)
			}

			if err := mgr.Init(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Settings file created at %s\n", mgr.GetConfigPath())
			return nil
		},
	}
}
