package commands

import (
	"fmt"

	"admin-dashboard-api/internal/database"
	"admin-dashboard-api/internal/kanban"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default board columns if the board is empty",
	RunE: withDB(func(cmd *cobra.Command, _ []string) error {
		created, err := kanban.NewStore(database.GetDB()).SeedInitialColumns(cmd.Context())
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "Created columns: %v\n", kanban.DefaultColumns)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Board already has columns, nothing to do")
		}
		return nil
	}),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "admin-dashboard-api %s (commit %s, built %s)\n", version, commit, date)
	},
}
