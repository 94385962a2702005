package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/bumpdecider/bumpdecider/internal/pkg/errors"
	"github.com/bumpdecider/bumpdecider/internal/pkg/pathcheck"
)

// newChecker is a variable to allow mocking in tests.
var newChecker = func() pathcheck.Checker {
	return pathcheck.NewChecker()
}

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the configured bump tool and git are on PATH",
		Long: `Resolve the external commands a bump run needs and report where they were found.

The install command is only checked when bump_tool.install is enabled. When
it is enabled a missing bump tool is not an error, since the install step
provides it.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	settingsPath, _ := cmd.Flags().GetString("settings")
	cfg, err := loadSettings(settingsPath)
	if err != nil {
		return err
	}

	commands := []string{cfg.BumpTool.Command, cfg.Git.Command}
	if cfg.BumpTool.Install {
		commands = append(commands, cfg.BumpTool.InstallCommand[0])
	}

	statuses := pathcheck.ResolveAll(newChecker(), commands...)
	out := cmd.OutOrStdout()
	for _, status := range statuses {
		if status.Found() {
			fmt.Fprintf(out, "ok       %s -> %s\n", status.Command, status.Path)
			continue
		}
		fmt.Fprintf(out, "missing  %s (%v)\n", status.Command, status.Err)
	}

	tool, gitStatus := statuses[0], statuses[1]
	if cfg.BumpTool.Install {
		// The installer provides the bump tool, so only the installer must exist
		if install := statuses[2]; !install.Found() {
			return apperrors.NewBumpToolError(install.Err, "").
				WithSuggestion("Install " + install.Command + " or disable bump_tool.install")
		}
	} else if !tool.Found() {
		return apperrors.NewBumpToolError(tool.Err, "").
			WithSuggestion("Install bump2version or enable bump_tool.install")
	}

	if !gitStatus.Found() {
		return apperrors.NewGitError(gitStatus.Err, "")
	}
	return nil
}
