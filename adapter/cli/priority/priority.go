// Package priority contains the priority engine commands.
package priority

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/callsheethq/callsheet/internal/priority/application/services"
	"github.com/callsheethq/callsheet/internal/priority/domain"
	"github.com/callsheethq/callsheet/internal/production/domain/task"
)

var (
	projectID string
	taskIDs   []string
)

// Cmd is the priority command group.
var Cmd = &cobra.Command{
	Use:   "priority",
	Short: "Analyze and apply task priority suggestions",
}

func init() {
	Cmd.PersistentFlags().StringVarP(&projectID, "project", "p", "", "limit to one production")
	Cmd.PersistentFlags().StringArrayVarP(&taskIDs, "task", "t", nil, "limit to specific task ids (repeatable)")

	Cmd.AddCommand(analyzeCmd)
	Cmd.AddCommand(applyCmd)
	Cmd.AddCommand(cachedCmd)
}

func selector() task.Selector {
	return task.Selector{ProjectID: projectID, TaskIDs: taskIDs}
}

func printResults(out io.Writer, results []domain.Score, showReasoning bool) {
	for _, score := range results {
		marker := " "
		if score.IsChange() {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-24s %6.1f  %s -> %s  (confidence %.2f)\n",
			marker, score.TaskID, score.Points,
			score.CurrentPriority, score.SuggestedPriority, score.Confidence,
		)
		if showReasoning {
			for _, reason := range score.Reasoning {
				fmt.Fprintf(out, "      %s\n", reason)
			}
		}
	}
}

func printSummary(out io.Writer, summary services.Summary, cached bool) {
	fmt.Fprintf(out, "%d tasks: %d high / %d medium / %d low, %d suggested changes (%d high-confidence)",
		summary.Total,
		summary.TierCounts["high"],
		summary.TierCounts["medium"],
		summary.TierCounts["low"],
		summary.Changed,
		summary.HighConfidenceChanges,
	)
	if cached {
		fmt.Fprint(out, " [cached]")
	}
	fmt.Fprintln(out)
}
