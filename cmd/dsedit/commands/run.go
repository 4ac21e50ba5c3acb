package commands

import (
	"fmt"

	"fedorabatch/pkg/config"
	"fedorabatch/pkg/pipeline"
	"fedorabatch/pkg/transform"
	"fedorabatch/pkg/types"

	"github.com/spf13/cobra"
)

var (
	runStream    string
	runTransform string
	runSet       []string
	runDryRun    bool
	runPaginate  bool
	runExclude   []string
)

var runCmd = &cobra.Command{
	Use:   "run <solr-query>",
	Short: "Transform a datastream on every object matching a query",
	Long: `Resolve the query against Solr, then for each object in index order fetch the datastream,
apply the transform and write the result back. The first error aborts the run; objects
already written stay written.`,
	Example: `  dsedit run 'collection:maps' --transform dc-add --set title=Example
  dsedit run 'id:vudl\:1*' --transform identity --dry-run`,
	Args:        cobra.ExactArgs(1),
	Annotations: requires(config.EndpointSolr, config.EndpointFedora),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		// 1. 构造变换
		params, err := transform.ParseParams(runSet)
		if err != nil {
			return err
		}
		fn, err := transform.Build(runTransform, params)
		if err != nil {
			return err
		}

		// 2. 排除规则
		matcher, err := DS.Matcher(runExclude...)
		if err != nil {
			return fmt.Errorf("failed to load exclusion rules: %w", err)
		}

		opts := []pipeline.Option{
			pipeline.WithDryRun(runDryRun),
			pipeline.WithLabel(runTransform),
			pipeline.WithObserver(func(stage pipeline.Stage, id types.ObjectID) {
				switch {
				case stage == pipeline.StageWritten:
					fmt.Fprintf(out, "✏️  %s\n", id)
				case stage == pipeline.StageTransformed && runDryRun:
					fmt.Fprintf(out, "🔍 %s\n", id)
				case stage == pipeline.StageAborted:
					fmt.Fprintf(out, "❌ %s\n", id)
				}
			}),
		}
		if !matcher.Empty() {
			opts = append(opts, pipeline.WithFilter(matcher))
		}

		// 3. 执行
		sum, err := DS.Updater(runPaginate, opts...).Execute(cmd.Context(), args[0], types.StreamName(runStream), fn)
		if sum != nil {
			printSummary(cmd, sum)
		}
		return err
	},
}

func printSummary(cmd *cobra.Command, sum *pipeline.Summary) {
	out := cmd.OutOrStdout()
	if sum.RunID != "" {
		fmt.Fprintf(out, "🧾 Run %s\n", sum.RunID)
	}
	fmt.Fprintf(out, "   resolved: %d, excluded: %d, fetched: %d\n", sum.Resolved, sum.Excluded, sum.Fetched)
	if sum.DryRun {
		fmt.Fprintf(out, "🔍 Dry run: %d object(s) would change, nothing written\n", sum.Changed)
		return
	}
	fmt.Fprintf(out, "✅ Written: %d (changed: %d)\n", sum.Written, sum.Changed)
}

func init() {
	runCmd.Flags().StringVarP(&runStream, "stream", "s", "DC", "datastream to edit")
	runCmd.Flags().StringVarP(&runTransform, "transform", "t", "identity", "transform to apply")
	runCmd.Flags().StringArrayVar(&runSet, "set", nil, "transform parameter key=value (repeatable, order kept)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "fetch and transform only, never write")
	runCmd.Flags().BoolVar(&runPaginate, "paginate", false, "page through all Solr results instead of one bounded request")
	runCmd.Flags().StringArrayVar(&runExclude, "exclude", nil, "id pattern to skip, gitignore syntax (repeatable)")
	rootCmd.AddCommand(runCmd)
}
