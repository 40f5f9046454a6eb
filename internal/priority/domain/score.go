package domain

import (
	"fmt"
	"math"

	"github.com/callsheethq/callsheet/internal/production/domain/task"
)

// Confidence thresholds. The apply threshold gates persistence of a changed
// priority; the reporting threshold only feeds the summary metric. They are
// intentionally distinct constants.
const (
	ApplyThreshold     = 0.70
	ReportingThreshold = 0.80
)

// Score cutoffs for the suggested tier.
const (
	HighTierCutoff   = 70.0
	MediumTierCutoff = 40.0
)

// Base confidence per tier.
const (
	highTierConfidence   = 0.9
	mediumTierConfidence = 0.8
	lowTierConfidence    = 0.7
)

// Reason is one structured scoring rationale. Rendering to free text happens
// only at the output boundary.
type Reason struct {
	Rule   string `json:"rule"`
	Detail string `json:"detail"`
}

// String renders the reason for display.
func (r Reason) String() string {
	return fmt.Sprintf("%s: %s", r.Rule, r.Detail)
}

// Score is the computed urgency verdict for a single task. It is transient:
// produced per request and persisted only inside a cache entry.
type Score struct {
	TaskID            string        `json:"task_id"`
	CurrentPriority   task.Priority `json:"current_priority"`
	SuggestedPriority task.Priority `json:"suggested_priority"`
	Points            float64       `json:"points"`
	Reasoning         []Reason      `json:"reasoning"`
	Confidence        float64       `json:"confidence"`
}

// IsChange reports whether the suggestion disagrees with the stored priority.
func (s Score) IsChange() bool {
	return s.SuggestedPriority != s.CurrentPriority
}

// ShouldApply reports whether the disagreement clears the apply threshold.
func (s Score) ShouldApply() bool {
	return s.IsChange() && s.Confidence >= ApplyThreshold
}

// TierForPoints maps a point total to its suggested tier. The mapping is
// monotone: higher points never yield a lower tier.
func TierForPoints(points float64) task.Priority {
	switch {
	case points >= HighTierCutoff:
		return task.PriorityHigh
	case points >= MediumTierCutoff:
		return task.PriorityMedium
	default:
		return task.PriorityLow
	}
}

// ConfidenceFor derives confidence from the tier base, minus 0.1 when the
// task carries no estimate and another 0.1 when it has no start date.
// The result is rounded to two decimals and deliberately not clamped; with
// the current bases the floor is 0.5.
func ConfidenceFor(points float64, hasEstimate, hasStartDate bool) float64 {
	var confidence float64
	switch {
	case points >= HighTierCutoff:
		confidence = highTierConfidence
	case points >= MediumTierCutoff:
		confidence = mediumTierConfidence
	default:
		confidence = lowTierConfidence
	}
	if !hasEstimate {
		confidence -= 0.1
	}
	if !hasStartDate {
		confidence -= 0.1
	}
	return math.Round(confidence*100) / 100
}
