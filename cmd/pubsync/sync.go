package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/matsen/pubsync/internal/config"
	"github.com/matsen/pubsync/internal/content"
	"github.com/matsen/pubsync/internal/ledger"
	"github.com/matsen/pubsync/internal/logger"
	"github.com/matsen/pubsync/internal/openalex"
	"github.com/matsen/pubsync/internal/orcid"
	"github.com/matsen/pubsync/internal/pipeline"
)

var (
	syncOutputDir string
	syncDryRun    bool
	syncHistory   string
)

func init() {
	syncCmd.Flags().StringVarP(&syncOutputDir, "output-dir", "o", "", "Content directory (overrides output_dir)")
	syncCmd.Flags().BoolVarP(&syncDryRun, "dry-run", "n", false, "Report planned changes without writing")
	syncCmd.Flags().StringVar(&syncHistory, "history", "", "Record the run in this SQLite ledger (overrides history_db)")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch, merge and write publications",
	Long: `Fetch journal articles from ORCID and OpenAlex, merge duplicates, and
converge the content directory to the merged set.

Examples:
  pubsync sync
  pubsync sync --dry-run
  pubsync sync -o site/src/content/publications --history ~/.local/share/pubsync/history.db`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

// SyncResponse is the JSON output of the sync command.
type SyncResponse struct {
	RunID         string               `json:"run_id,omitempty"`
	OutputDir     string               `json:"output_dir"`
	RegistryCount int                  `json:"registry_count"`
	IndexCount    int                  `json:"index_count"`
	MergedCount   int                  `json:"merged_count"`
	IndexSkipped  bool                 `json:"index_skipped"`
	DryRun        bool                 `json:"dry_run"`
	Counts        content.Counts       `json:"counts"`
	Changes       []content.FileAction `json:"changes"`
	ElapsedMS     int64                `json:"elapsed_ms"`
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if syncOutputDir != "" {
		cfg.OutputDir = config.ExpandPath(syncOutputDir)
	}
	if syncHistory != "" {
		cfg.HistoryDB = config.ExpandPath(syncHistory)
	}

	log := mustNewLogger(cfg)
	defer log.Sync() //nolint:errcheck // stderr sync errors are not actionable

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := orcid.NewClient(cfg.ORCIDID,
		orcid.WithBaseURL(cfg.ORCIDBaseURL),
		orcid.WithTimeout(cfg.RequestTimeout),
		orcid.WithBatchSize(cfg.BatchSize),
		orcid.WithLogger(log),
	)
	index := openalex.NewClient(cfg.OpenAlexAuthorID,
		openalex.WithAPIKey(cfg.OpenAlexAPIKey),
		openalex.WithBaseURL(cfg.OpenAlexBaseURL),
		openalex.WithTimeout(cfg.RequestTimeout),
		openalex.WithLogger(log),
	)

	syncer := pipeline.New(registry, index, cfg.OutputDir,
		pipeline.WithDryRun(syncDryRun),
		pipeline.WithLogger(log),
	)
	report, err := syncer.Run(ctx)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrRegistry):
			exitWithError(ExitRegistryError, "%v", err)
		case errors.Is(err, pipeline.ErrPersist):
			exitWithError(ExitPersistError, "%v", err)
		default:
			exitWithError(ExitError, "%v", err)
		}
	}

	runID := recordRun(ctx, cfg.HistoryDB, report, log)
	changes := report.Plan.Changes()

	if jsonOutput {
		if changes == nil {
			changes = []content.FileAction{}
		}
		return outputJSON(SyncResponse{
			RunID:         runID,
			OutputDir:     cfg.OutputDir,
			RegistryCount: report.RegistryCount,
			IndexCount:    report.IndexCount,
			MergedCount:   report.MergedCount,
			IndexSkipped:  report.IndexSkipped,
			DryRun:        report.DryRun,
			Counts:        report.Counts,
			Changes:       changes,
			ElapsedMS:     report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
		})
	}

	outputHuman("Merging: %d ORCID + %d OpenAlex\n", report.RegistryCount, report.IndexCount)
	outputHuman("Result: %d unique publications\n", report.MergedCount)
	for _, a := range changes {
		outputHuman("%s\n", progressLine(a, report.DryRun))
	}
	if report.DryRun {
		outputHuman("Dry run: %s\n", report.Counts)
	} else {
		outputHuman("Done: %s\n", report.Counts)
	}
	return nil
}

// recordRun appends the run to the ledger when one is configured. Ledger
// failures are logged and do not fail the sync.
func recordRun(ctx context.Context, path string, report *pipeline.Report, log logger.Logger) string {
	if path == "" {
		return ""
	}

	db, err := ledger.Open(path)
	if err != nil {
		log.Warn("run history unavailable", logger.String("path", path), logger.Error(err))
		return ""
	}
	defer db.Close()

	run := ledger.Run{
		StartedAt:     report.StartedAt,
		FinishedAt:    report.FinishedAt,
		RegistryCount: report.RegistryCount,
		IndexCount:    report.IndexCount,
		MergedCount:   report.MergedCount,
		Created:       report.Counts.Created,
		Updated:       report.Counts.Updated,
		Unchanged:     report.Counts.Unchanged,
		Removed:       report.Counts.Removed,
		DryRun:        report.DryRun,
		IndexSkipped:  report.IndexSkipped,
	}
	for _, a := range report.Plan.Changes() {
		run.Files = append(run.Files, ledger.FileLine{Filename: a.Filename, Action: string(a.Action)})
	}

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	id, err := db.Record(recordCtx, run)
	if err != nil {
		log.Warn("recording run failed", logger.String("path", path), logger.Error(err))
		return ""
	}
	log.Debug("run recorded", logger.String("run_id", id))
	return id
}
