package commands

import (
	"fmt"

	"fedorabatch/pkg/config"
	"fedorabatch/pkg/meta"

	"github.com/spf13/cobra"
)

var revertCmd = &cobra.Command{
	Use:   "revert <run-id>",
	Short: "Write back the original content of every object a run changed",
	Long: `Restore each datastream written by the run from its snapshot, most recent edit first.
Requires both backup.type and journal.driver to have been enabled for that run.`,
	Args:        cobra.ExactArgs(1),
	Annotations: requires(config.EndpointFedora),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := DS.Restorer()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		report, err := r.Revert(cmd.Context(), args[0], func(e meta.EditModel) {
			fmt.Fprintf(out, "↩️  %s\n", e.ObjectID)
		})
		if report != nil {
			fmt.Fprintf(out, "✅ Restored %d object(s) from run %s\n", report.Restored, report.RunID)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(revertCmd)
}
