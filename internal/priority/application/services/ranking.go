package services

import (
	"sort"

	"github.com/callsheethq/callsheet/internal/priority/domain"
	"github.com/callsheethq/callsheet/internal/production/domain/task"
)

// Summary aggregates a ranked score set for reporting.
type Summary struct {
	Total                 int                   `json:"total"`
	TierCounts            map[task.Priority]int `json:"tier_counts"`
	Changed               int                   `json:"changed"`
	HighConfidenceChanges int                   `json:"high_confidence_changes"`
}

// Rank sorts scores by points descending. The sort is stable on purpose:
// equal scores keep the repository fetch order, and callers may rely on
// that tie-break.
func Rank(scores []domain.Score) []domain.Score {
	ranked := make([]domain.Score, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Points > ranked[j].Points
	})
	return ranked
}

// Summarize computes tier counts, the disagreement count, and the
// high-confidence disagreement count. The latter uses the reporting
// threshold and feeds summaries only, never the apply gate.
func Summarize(scores []domain.Score) Summary {
	summary := Summary{
		Total: len(scores),
		TierCounts: map[task.Priority]int{
			task.PriorityLow:    0,
			task.PriorityMedium: 0,
			task.PriorityHigh:   0,
		},
	}
	for _, s := range scores {
		summary.TierCounts[s.SuggestedPriority]++
		if s.IsChange() {
			summary.Changed++
			if s.Confidence >= domain.ReportingThreshold {
				summary.HighConfidenceChanges++
			}
		}
	}
	return summary
}
