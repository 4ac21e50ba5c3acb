package commands

import (
	"fmt"

	"fedorabatch/pkg/app"
	"fedorabatch/pkg/restorer"

	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List journaled runs, or the edits of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if DS.Journal == nil {
			return app.ErrNoJournal
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			run, err := DS.Journal.GetRun(ctx, args[0])
			if err != nil {
				return err
			}
			edits, err := DS.Journal.ListEdits(ctx, run.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "run %s: %s on %s (%s)\n", run.ID, run.Status, run.Stream, run.Query)
			if run.Error != "" {
				fmt.Fprintf(out, "error: %s\n", run.Error)
			}
			fmt.Fprintln(out)
			return restorer.PrintEdits(edits, out)
		}

		runs, err := DS.Journal.ListRuns(ctx, runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs yet.")
			return nil
		}
		return restorer.PrintRuns(runs, out)
	},
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "number of runs to show")
	rootCmd.AddCommand(runsCmd)
}
