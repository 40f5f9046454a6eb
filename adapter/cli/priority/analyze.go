package priority

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/callsheethq/callsheet/adapter/cli"
	"github.com/callsheethq/callsheet/internal/priority/application/queries"
)

var analyzeReasoning bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score and rank the selected tasks without changing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		out := cmd.OutOrStdout()
		if app == nil {
			fmt.Fprintln(out, "Priority engine requires a configured database.")
			return nil
		}

		result, err := app.AnalyzeHandler.Handle(cmd.Context(), queries.AnalyzePrioritiesQuery{
			Selector: selector(),
		})
		if err != nil {
			return err
		}

		printResults(out, result.Results, analyzeReasoning)
		printSummary(out, result.Summary, result.Cached)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVarP(&analyzeReasoning, "reasoning", "r", false, "show per-rule reasoning")
}
