package commands

import (
	"fmt"

	"fedorabatch/pkg/config"

	"github.com/spf13/cobra"
)

var (
	idsPaginate bool
	idsExclude  []string
)

var idsCmd = &cobra.Command{
	Use:         "ids <solr-query>",
	Short:       "Print the object ids a query resolves to",
	Long:        `Resolve the query exactly as 'run' would and print one id per line, without touching Fedora.`,
	Args:        cobra.ExactArgs(1),
	Annotations: requires(config.EndpointSolr),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := DS.Solr(idsPaginate).ResolveIDs(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		matcher, err := DS.Matcher(idsExclude...)
		if err != nil {
			return fmt.Errorf("failed to load exclusion rules: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, id := range ids {
			if matcher.Excludes(id) {
				continue
			}
			fmt.Fprintln(out, id)
		}
		return nil
	},
}

func init() {
	idsCmd.Flags().BoolVar(&idsPaginate, "paginate", false, "page through all Solr results")
	idsCmd.Flags().StringArrayVar(&idsExclude, "exclude", nil, "id pattern to skip, gitignore syntax (repeatable)")
	rootCmd.AddCommand(idsCmd)
}
