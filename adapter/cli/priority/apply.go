package priority

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/callsheethq/callsheet/adapter/cli"
	"github.com/callsheethq/callsheet/internal/priority/application/commands"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Rewrite stored priorities for high-confidence disagreements",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		out := cmd.OutOrStdout()
		if app == nil {
			fmt.Fprintln(out, "Priority engine requires a configured database.")
			return nil
		}

		result, err := app.ApplyHandler.Handle(cmd.Context(), commands.ApplyPrioritiesCommand{
			Selector: selector(),
		})
		if err != nil {
			return err
		}

		printResults(out, result.Results, false)
		printSummary(out, result.Summary, false)
		if result.Planned == 0 {
			fmt.Fprintln(out, "Nothing to apply.")
		} else {
			fmt.Fprintf(out, "Applied %d of %d planned priority updates.\n", result.UpdatedCount, result.Planned)
		}
		return nil
	},
}
