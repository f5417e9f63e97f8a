package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"csv-reconciler/core/config"
	"csv-reconciler/core/database"
	"csv-reconciler/feature/history"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd prints the most recent runs recorded by the server.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent reconciliation runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		runs, err := history.NewRepository(db).List(ctx, historyLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tOUTCOME\tSTRATEGY\tADDED\tREMOVED\tUNCHANGED\tELAPSED\tFIRST\tSECOND")
		for _, r := range runs {
			outcome := r.Outcome
			if r.Error != "" {
				outcome += ": " + r.Error
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%dms\t%s\t%s\n",
				r.CreatedAt.Format(time.RFC3339), outcome, r.Strategy,
				r.Added, r.Removed, r.Unchanged, r.ElapsedMS, r.FirstPath, r.SecondPath)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", history.DefaultLimit, "Maximum number of runs")
	RootCmd.AddCommand(historyCmd)
}
