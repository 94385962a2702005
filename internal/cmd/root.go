// Package cmd contains the CLI command definitions for bumpdecider.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/bumpdecider/bumpdecider/internal/app"
	"github.com/bumpdecider/bumpdecider/internal/pkg/bump"
	"github.com/bumpdecider/bumpdecider/internal/pkg/bumptool"
	"github.com/bumpdecider/bumpdecider/internal/pkg/config"
	apperrors "github.com/bumpdecider/bumpdecider/internal/pkg/errors"
	"github.com/bumpdecider/bumpdecider/internal/pkg/git"
	"github.com/bumpdecider/bumpdecider/internal/pkg/history"
	"github.com/bumpdecider/bumpdecider/internal/pkg/runner"
	"github.com/bumpdecider/bumpdecider/internal/pkg/ui"
)

// newRunner is a variable to allow mocking in tests.
var newRunner = func() runner.Runner {
	return runner.NewExecRunner()
}

// BumpFlags holds the flags for the bump run.
type BumpFlags struct {
	CommitMsg   string
	BumpType    string
	AutoPush    bool
	PushAllowed bool
	ConfigFile  string
	DryRun      bool
}

// NewRootCmd creates the root command for the bumpdecider CLI.
func NewRootCmd(version, commitHash, date string) *cobra.Command {
	flags := &BumpFlags{}

	rootCmd := &cobra.Command{
		Use:   "bumpdecider",
		Short: "Decide and apply a version bump from a commit message",
		Long: `bumpdecider picks a semantic version bump type, runs bumpversion with it
and optionally pushes the resulting commit.

The bump type comes from --bump-type if given. Otherwise the commit message
is scanned for a trigger of the form ***BUMP <TYPE>*** where TYPE is one of
major, minor, patch, release or build in any case. Without a trigger the
bump type is patch.

Push policy:
  --bump-type given       push only with --auto-push
  --bump-type not given   push only with --push-allowed

Examples:
  bumpdecider --commit-msg "$COMMIT_MSG" --push-allowed
  bumpdecider --commit-msg "" --bump-type minor --auto-push
  bumpdecider --commit-msg "***BUMP MAJOR***" --dry-run`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			apperrors.SetVerbose(verbose)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBump(cmd, flags)
		},
	}

	rootCmd.SetVersionTemplate(`bumpdecider {{.Version}}
Commit: ` + commitHash + `
Built:  ` + date + "\n")

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("settings", "", "Settings file path (YAML, optional)")

	rootCmd.Flags().StringVar(&flags.CommitMsg, "commit-msg", "", "Commit message to scan for a ***BUMP <TYPE>*** trigger (required)")
	rootCmd.Flags().StringVar(&flags.BumpType, "bump-type", "", "Explicit bump type: "+strings.Join(bump.BumpTypeNames(), ", "))
	rootCmd.Flags().BoolVar(&flags.AutoPush, "auto-push", false, "Push after an explicit --bump-type")
	rootCmd.Flags().BoolVar(&flags.PushAllowed, "push-allowed", false, "Push after a bump derived from the commit message")
	rootCmd.Flags().StringVar(&flags.ConfigFile, "config-file", bump.DefaultConfigFile, "bumpversion config file")
	rootCmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Print the decision without running any command")

	rootCmd.AddCommand(NewCheckCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewHistoryCmd())

	return rootCmd
}

// runBump executes the bump run.
func runBump(cmd *cobra.Command, flags *BumpFlags) error {
	settingsPath, _ := cmd.Flags().GetString("settings")

	// An explicitly empty --commit-msg is valid
	if !cmd.Flags().Changed("commit-msg") {
		return apperrors.NewMissingArgumentError("commit-msg")
	}

	bumpCfg := bump.Configuration{
		CommitMessage: flags.CommitMsg,
		AutoPush:      flags.AutoPush,
		PushAllowed:   flags.PushAllowed,
		ConfigFile:    flags.ConfigFile,
	}
	// An explicitly empty --bump-type is rejected like any other unknown type
	if cmd.Flags().Changed("bump-type") {
		bumpType, err := bump.ParseBumpType(flags.BumpType)
		if err != nil {
			return err
		}
		bumpCfg.BumpType = bumpType
	}

	cfg, err := loadSettings(settingsPath)
	if err != nil {
		return err
	}

	if flags.DryRun {
		apperrors.Info("Dry-run mode enabled")
	}

	r := newRunner()
	gitClient := git.NewClientWithOptions(r, git.Options{
		Command:     cfg.Git.Command,
		Timeout:     cfg.Git.Timeout(),
		PushTimeout: cfg.Git.PushTimeout(),
	})
	tool := bumptool.New(r, bumptool.Options{
		Command:        cfg.BumpTool.Command,
		InstallCommand: cfg.BumpTool.InstallCommand,
		Timeout:        cfg.BumpTool.Timeout(),
	})
	uiMgr := ui.NewManagerWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), ui.ColorAllowed(cfg.UI.ColorEnabled))

	var historyMgr history.Manager
	if cfg.History.Enabled {
		historyMgr = history.NewFileManager(cfg.History.FilePath, cfg.History.MaxEntries)
	}

	service := app.NewBumpService(tool, gitClient, uiMgr, historyMgr, app.ServiceOptions{
		InstallTool: cfg.BumpTool.Install,
	})

	_, err = service.Run(cmd.Context(), bumpCfg, app.RunOptions{DryRun: flags.DryRun})
	return err
}

// loadSettings loads the settings file, environment overrides and defaults.
func loadSettings(settingsPath string) (*config.Config, error) {
	cfgMgr, err := config.NewManager(settingsPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create settings manager")
	}

	if settingsPath != "" {
		apperrors.Debug("Using settings file: %s", settingsPath)
	}

	cfg, err := cfgMgr.Load()
	if err != nil {
		apperrors.Error("Failed to load settings: %v", err)
		return nil, err
	}
	return cfg, nil
}
