package cmd

import (
	"errors"

	"proposal-ingest/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the database schema and the archive bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, true, true)
	},
}

// serverCmd represents the integrity server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Check the proposals table against the expected schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, true, false)
	},
}

// archiveCmd represents the integrity archive command
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Check and fix the batch archive bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(serverCmd, archiveCmd)

	archiveCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the archive bucket if missing")
}

func runIntegrityChecks(cmd *cobra.Command, runServer, runArchive bool) error {
	d, err := loadDeps(false)
	if err != nil {
		return err
	}
	defer d.close()
	logg := d.log
	ctx := cmd.Context()

	svc := integrity.NewService(d.store, d.cfg.Storage.Bucket, d.cfg.Storage.Region, logg, d.db)

	if runServer {
		logg.Info("Checking server schema integrity...")
		report, err := svc.CheckServer()
		if err != nil {
			logg.Error("Server schema check failed", zap.Error(err))
		} else if report.Matched {
			logg.Info("Server schema matches expected definition.", zap.String("dialect", report.Dialect))
		} else {
			logg.Warn("Server schema mismatches found", zap.String("dialect", report.Dialect))
			for table, tblReport := range report.Tables {
				if tblReport.Status == "ok" {
					continue
				}
				if len(tblReport.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tblReport.MissingColumns))
				}
				if len(tblReport.TypeMismatches) > 0 {
					logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tblReport.TypeMismatches))
				}
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	}

	if runArchive {
		logg.Info("Checking archive bucket...", zap.String("bucket", d.cfg.Storage.Bucket))
		check := svc.CheckArchive
		if fixFlag {
			check = svc.FixArchive
		}
		report, err := check(ctx)
		switch {
		case errors.Is(err, integrity.ErrStorageDisabled):
			logg.Info("Storage disabled, skipping archive check.")
		case err != nil:
			logg.Error("Archive check failed", zap.Error(err))
		case report.Fixed:
			logg.Info("Archive bucket created.", zap.String("bucket", report.Bucket))
		case report.Exists:
			logg.Info("Archive bucket is present.", zap.String("bucket", report.Bucket))
		default:
			logg.Warn("Archive bucket is missing. Run with --fix to create it.", zap.String("bucket", report.Bucket))
		}
	}

	return nil
}
