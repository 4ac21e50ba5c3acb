package commands

import (
	"fmt"

	"fedorabatch/pkg/config"
	"fedorabatch/pkg/restorer"
	"fedorabatch/pkg/storage"
	"fedorabatch/pkg/types"

	"github.com/spf13/cobra"
)

var (
	catStream   string
	catSnapshot bool
)

var catCmd = &cobra.Command{
	Use:   "cat <object-id | snapshot-hash>",
	Short: "Show a datastream, or a stored snapshot with --snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if catSnapshot {
			if DS.Snapshots == nil {
				return fmt.Errorf("snapshot storage is disabled (set backup.type)")
			}
			hash := types.Hash(args[0])
			if !hash.IsValid() {
				return fmt.Errorf("invalid snapshot hash %q", args[0])
			}
			snap, err := storage.ReadSnapshot(cmd.Context(), DS.Snapshots, hash)
			if err != nil {
				return fmt.Errorf("cat failed: %w", err)
			}
			restorer.PrintSnapshot(snap, out)
			return nil
		}

		// 只有读 Datastream 才需要 Fedora 地址
		if err := DS.Settings.Require(config.EndpointFedora); err != nil {
			return err
		}
		data, err := DS.Fedora.GetStream(cmd.Context(), types.ObjectID(args[0]), types.StreamName(catStream))
		if err != nil {
			return fmt.Errorf("cat failed: %w", err)
		}
		_, err = out.Write(data)
		return err
	},
}

func init() {
	catCmd.Flags().StringVarP(&catStream, "stream", "s", "DC", "datastream to show")
	catCmd.Flags().BoolVar(&catSnapshot, "snapshot", false, "treat the argument as a snapshot hash")
	rootCmd.AddCommand(catCmd)
}
