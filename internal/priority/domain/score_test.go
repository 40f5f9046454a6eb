package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/callsheethq/callsheet/internal/production/domain/task"
)

func TestTierForPoints(t *testing.T) {
	t.Run("maps high scores to high tier", func(t *testing.T) {
		assert.Equal(t, task.PriorityHigh, TierForPoints(70))
		assert.Equal(t, task.PriorityHigh, TierForPoints(120))
	})

	t.Run("maps mid scores to medium tier", func(t *testing.T) {
		assert.Equal(t, task.PriorityMedium, TierForPoints(40))
		assert.Equal(t, task.PriorityMedium, TierForPoints(69.9))
	})

	t.Run("maps low scores to low tier", func(t *testing.T) {
		assert.Equal(t, task.PriorityLow, TierForPoints(0))
		assert.Equal(t, task.PriorityLow, TierForPoints(39.9))
	})

	t.Run("mapping is monotone across the cutoffs", func(t *testing.T) {
		for points := 0.0; points < 40; points++ {
			assert.Equal(t, task.PriorityLow, TierForPoints(points))
		}
		for points := 40.0; points < 70; points++ {
			assert.Equal(t, task.PriorityMedium, TierForPoints(points))
		}
		for points := 70.0; points < 150; points++ {
			assert.Equal(t, task.PriorityHigh, TierForPoints(points))
		}
	})
}

func TestConfidenceFor(t *testing.T) {
	t.Run("uses tier base confidence", func(t *testing.T) {
		assert.Equal(t, 0.9, ConfidenceFor(80, true, true))
		assert.Equal(t, 0.8, ConfidenceFor(50, true, true))
		assert.Equal(t, 0.7, ConfidenceFor(10, true, true))
	})

	t.Run("subtracts 0.1 for a missing estimate", func(t *testing.T) {
		assert.Equal(t, 0.8, ConfidenceFor(80, false, true))
	})

	t.Run("subtracts 0.1 for a missing start date", func(t *testing.T) {
		assert.Equal(t, 0.8, ConfidenceFor(80, true, false))
	})

	t.Run("double penalty on a low-tier task yields exactly 0.5", func(t *testing.T) {
		// 0.7 - 0.1 - 0.1, no clamping involved.
		assert.Equal(t, 0.5, ConfidenceFor(10, false, false))
	})

	t.Run("result is rounded to two decimals", func(t *testing.T) {
		confidence := ConfidenceFor(80, false, false)
		assert.Equal(t, 0.7, confidence)
	})
}

func TestScore_ShouldApply(t *testing.T) {
	t.Run("selects a disagreement at the apply threshold", func(t *testing.T) {
		s := Score{CurrentPriority: task.PriorityLow, SuggestedPriority: task.PriorityHigh, Confidence: 0.7}
		assert.True(t, s.ShouldApply())
	})

	t.Run("rejects agreement regardless of confidence", func(t *testing.T) {
		s := Score{CurrentPriority: task.PriorityHigh, SuggestedPriority: task.PriorityHigh, Confidence: 0.9}
		assert.False(t, s.ShouldApply())
	})

	t.Run("rejects a disagreement below the apply threshold", func(t *testing.T) {
		s := Score{CurrentPriority: task.PriorityLow, SuggestedPriority: task.PriorityMedium, Confidence: 0.6}
		assert.False(t, s.ShouldApply())
	})
}

func TestReason_String(t *testing.T) {
	r := Reason{Rule: "due_date", Detail: "due in 2 days (+30)"}
	assert.Equal(t, "due_date: due in 2 days (+30)", r.String())
}
