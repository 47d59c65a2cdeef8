package cmd

import (
	"proposal-ingest/feature/proposals"

	"github.com/spf13/cobra"
)

// setupCmd creates the proposals table.
var setupCmd = &cobra.Command{
	Use:   "setup-database",
	Short: "Create the proposals table if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDeps(true)
		if err != nil {
			return err
		}
		defer d.close()

		svc := proposals.NewService(d.db, nil, d.cfg.Ingest, d.log)
		created, err := svc.SetupDatabase(cmd.Context())
		if err != nil {
			return err
		}

		if created {
			d.log.Info("Created proposals table")
		} else {
			d.log.Info("Proposals table already exists")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(setupCmd)
}
