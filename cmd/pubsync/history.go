package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matsen/pubsync/internal/config"
	"github.com/matsen/pubsync/internal/ledger"
)

var (
	historyPath  string
	historyLimit int
	historyFiles string
)

func init() {
	historyCmd.Flags().StringVar(&historyPath, "history", "", "SQLite ledger path (overrides history_db)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", ledger.DefaultLimit, "Maximum runs to show")
	historyCmd.Flags().StringVar(&historyFiles, "files", "", "Show the files one run changed (run ID or prefix)")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded sync runs",
	Long: `List sync runs recorded in the run ledger, newest first.

Runs are recorded when history_db is set in the config file or sync is
given --history.

Examples:
  pubsync history --limit 5
  pubsync history --files 0f8c2a1e`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	path := cfg.HistoryDB
	if historyPath != "" {
		path = config.ExpandPath(historyPath)
	}
	if path == "" {
		exitWithError(ExitConfigError, "no run ledger configured\n\nSet history_db in %s or pass --history.", config.DefaultPath())
	}

	db, err := ledger.Open(path)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer db.Close()

	if historyFiles != "" {
		return showRunFiles(db, historyFiles)
	}

	runs, err := db.Recent(context.Background(), historyLimit)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if jsonOutput {
		if runs == nil {
			runs = []ledger.Run{}
		}
		return outputJSON(runs)
	}

	if len(runs) == 0 {
		outputHuman("No runs recorded.\n")
		return nil
	}
	for _, r := range runs {
		outputHuman("%s\n", formatRun(r))
	}
	return nil
}

// showRunFiles prints one run and the files it created, updated or removed.
func showRunFiles(db *ledger.DB, id string) error {
	run, err := db.Run(context.Background(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrRunNotFound) || errors.Is(err, ledger.ErrAmbiguousRun) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	if jsonOutput {
		if run.Files == nil {
			run.Files = []ledger.FileLine{}
		}
		return outputJSON(run)
	}

	outputHuman("%s\n", formatRun(*run))
	if len(run.Files) == 0 {
		outputHuman("No files changed.\n")
		return nil
	}
	for _, f := range run.Files {
		outputHuman("%s\n", fileLine(f))
	}
	return nil
}
