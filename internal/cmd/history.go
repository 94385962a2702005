package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/bumpdecider/bumpdecider/internal/pkg/errors"
	"github.com/bumpdecider/bumpdecider/internal/pkg/history"
)

const (
	// DefaultHistoryLimit is the default number of history entries to display.
	DefaultHistoryLimit = 20
)

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "View recorded bump runs",
		Long: `View recorded bump runs.

History is only recorded when history.enabled is set in the settings.
By default, displays the most recent 20 entries.

Examples:
  bumpdecider history           # Show last 20 entries
  bumpdecider history --limit 5 # Show last 5 entries
  bumpdecider history clear     # Clear all history`,
		Args: cobra.NoArgs,
		RunE: runHistoryList,
	}

	historyCmd.Flags().IntP("limit", "l", DefaultHistoryLimit, "Number of entries to display")

	historyCmd.AddCommand(newHistoryClearCmd())

	return historyCmd
}

// runHistoryList displays the history entries.
func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	settingsPath, _ := cmd.Flags().GetString("settings")

	cfg, err := loadSettings(settingsPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !cfg.History.Enabled {
		fmt.Fprintln(out, "History is disabled. Enable it with history.enabled in the settings file or BUMPDECIDER_HISTORY_ENABLED=true")
		return nil
	}

	historyMgr := history.NewFileManager(cfg.History.FilePath, cfg.History.MaxEntries)

	entries, err := historyMgr.List(limit)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to read history").
			WithContext("path", cfg.History.FilePath)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No history entries found.")
		return nil
	}

	fmt.Fprintf(out, "Showing %d most recent entries:\n\n", len(entries))

	// Most recent first
	for i := len(entries) - 1; i >= 0; i-- {
		printHistoryEntry(out, entries[i], len(entries)-i)
	}

	return nil
}

// printHistoryEntry formats and prints a single history entry.
func printHistoryEntry(out io.Writer, entry *history.Entry, index int) {
	timestamp := entry.Timestamp.Format(time.RFC3339)

	fmt.Fprintf(out, "[%d] %s %s (%s) %s\n", index, timestamp, entry.BumpType, entry.Source, entryStatus(entry))
	if entry.CommitSubject != "" {
		fmt.Fprintf(out, "    Commit: %s\n", entry.CommitSubject)
	}
	if entry.Error != "" {
		fmt.Fprintf(out, "    Error:  %s\n", entry.Error)
	}
	fmt.Fprintln(out)
}

func entryStatus(entry *history.Entry) string {
	switch {
	case entry.DryRun:
		return "dry run"
	case !entry.Bumped:
		return "failed"
	case entry.Pushed:
		return "bumped, pushed"
	case entry.PushRequested:
		return "bumped, push failed"
	default:
		return "bumped"
	}
}

// newHistoryClearCmd creates the 'history clear' subcommand.
func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all history entries",
		Long: `Delete all entries from the history file.

This action cannot be undone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settingsPath, _ := cmd.Flags().GetString("settings")
			cfg, err := loadSettings(settingsPath)
			if err != nil {
				return err
			}

			historyMgr := history.NewFileManager(cfg.History.FilePath, cfg.History.MaxEntries)
			if err := historyMgr.Clear(); err != nil {
				return apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to clear history").
					WithContext("path", cfg.History.FilePath)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "History cleared successfully.")
			return nil
		},
	}
}
