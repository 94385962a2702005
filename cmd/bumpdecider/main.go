// Package main is the entry point for the bumpdecider CLI.
// bumpdecider picks a version bump type from a commit message trigger or an
// explicit flag, runs bumpversion and optionally pushes the result.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bumpdecider/bumpdecider/internal/cmd"
	apperrors "github.com/bumpdecider/bumpdecider/internal/pkg/errors"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := cmd.NewRootCmd(version, commit, date)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
			fmt.Fprint(os.Stderr, apperrors.FormatErrorVerbose(err))
		} else {
			fmt.Fprintln(os.Stderr, apperrors.FormatError(err))
		}
		os.Exit(apperrors.GetExitCode(err))
	}
}
