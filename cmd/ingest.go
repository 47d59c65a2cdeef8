package cmd

import (
	"fmt"
	"io"
	"os"

	"proposal-ingest/core/reconcile"
	"proposal-ingest/feature/proposals"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	ingestFile   string
	ingestDryRun bool
)

// ingestCmd reconciles a batch file without going through the HTTP API.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Reconcile a proposals batch from a JSON file",
	Long: `Reads an update-proposals body ({"proposals": [...]}) from a file or stdin
and applies it to the database in a single transaction.

Examples:
  # Apply a scraped batch
  ingest --file batch.json

  # Classify only, roll everything back
  ingest --file batch.json --dry-run

  # Read from stdin
  cat batch.json | ingest --file -`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "Batch file to ingest (- for stdin)")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "Roll the batch back after classifying it")
	_ = ingestCmd.MarkFlagRequired("file")

	RootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	body, err := readBatchFile(ingestFile)
	if err != nil {
		return err
	}

	d, err := loadDeps(true)
	if err != nil {
		return err
	}
	defer d.close()

	batchID := uuid.NewString()
	svc := proposals.NewService(d.db, d.archiver, d.cfg.Ingest, d.log)

	d.log.Info("Ingesting batch", zap.String("batch_id", batchID), zap.String("file", ingestFile), zap.Bool("dry_run", ingestDryRun))
	result, err := svc.Ingest(cmd.Context(), body, proposals.IngestOptions{DryRun: ingestDryRun, BatchID: batchID})
	if err != nil {
		return fmt.Errorf("batch %s failed: %w", batchID, err)
	}

	printIngestReport(d.log, result)
	return nil
}

func readBatchFile(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	body, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return body, nil
}

// printIngestReport prints a formatted batch report using logger.
func printIngestReport(l *zap.Logger, result *reconcile.BatchResult) {
	l.Info("Ingest report",
		zap.Int("new", result.NewCount),
		zap.Int("updated", result.UpdatedCount),
		zap.Int("changed", result.Changed),
		zap.Int("skipped", result.Skipped),
		zap.Bool("dry_run", result.DryRun),
	)

	// Show sample of status changes (max 5 for logger)
	shown := 0
	for _, o := range result.Outcomes {
		if o.Action != reconcile.ActionExisting || !o.Changed {
			continue
		}
		if shown == 5 {
			l.Info("Additional status changes not shown", zap.Int("count", result.Changed-shown))
			break
		}
		l.Info("Status changed", zap.String("esas_no", o.CaseNumber), zap.Int("position", o.Position))
		shown++
	}

	if result.DryRun {
		l.Info("Dry-run mode: No changes were made.")
	}
}
