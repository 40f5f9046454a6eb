package services

import (
	"github.com/callsheethq/callsheet/internal/priority/domain"
	"github.com/callsheethq/callsheet/internal/production/domain/task"
)

// PlanUpdates selects the minimal bulk-write batch: one priority-only update
// per task whose suggestion disagrees with the stored priority at or above
// the apply threshold.
//
// The plan is idempotent by construction: once applied, a recomputed score
// set reports the suggested priority as current and selects nothing.
func PlanUpdates(scores []domain.Score) []task.PriorityUpdate {
	var updates []task.PriorityUpdate
	for _, s := range scores {
		if !s.ShouldApply() {
			continue
		}
		updates = append(updates, task.PriorityUpdate{
			TaskID:   s.TaskID,
			Priority: s.SuggestedPriority,
		})
	}
	return updates
}
