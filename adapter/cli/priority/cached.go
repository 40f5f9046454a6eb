package priority

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/callsheethq/callsheet/adapter/cli"
	"github.com/callsheethq/callsheet/internal/priority/application/queries"
)

var cachedCmd = &cobra.Command{
	Use:   "cached",
	Short: "Show the cached analysis for the selector, never recomputing",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		out := cmd.OutOrStdout()
		if app == nil {
			fmt.Fprintln(out, "Priority engine requires a configured database.")
			return nil
		}

		result, err := app.CachedHandler.Handle(cmd.Context(), queries.GetCachedAnalysisQuery{
			Selector: selector(),
		})
		if err != nil {
			return err
		}

		if !result.Cached {
			fmt.Fprintln(out, "No cached results for this selector.")
			return nil
		}

		printResults(out, result.Results, false)
		printSummary(out, result.Summary, true)
		return nil
	},
}
