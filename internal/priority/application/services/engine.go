package services

import (
	"fmt"
	"math"
	"time"

	"github.com/callsheethq/callsheet/internal/priority/domain"
	"github.com/callsheethq/callsheet/internal/production/domain/task"
)

// Rule names used in structured reasoning entries.
const (
	RuleDueDate         = "due_date"
	RuleOverdue         = "overdue"
	RuleProjectDeadline = "project_deadline"
	RuleComplexity      = "complexity"
	RuleDependencyFan   = "dependency_fanout"
	RuleBudget          = "budget"
	RuleMomentum        = "momentum"
	RuleWorkload        = "workload"
)

// Engine computes priority scores from weighted task signals. Scoring is
// pure: it never mutates its inputs and never fails, missing or unparsable
// fields simply contribute zero points.
//
// Rules 4 and 7 cross-reference every task against the full working set, so
// a request costs O(n^2) in the set size. That is acceptable for sets in the
// low hundreds and is a known scaling limit of this engine.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score computes the urgency verdict for one task against the working set
// it was fetched with.
func (e *Engine) Score(rec task.Record, workingSet []task.Record, now time.Time) domain.Score {
	var points float64
	var reasons []domain.Reason

	add := func(rule, detail string, pts float64) {
		points += pts
		reasons = append(reasons, domain.Reason{Rule: rule, Detail: detail})
	}

	// Due-date urgency, with the flat overdue bonus stacked on top of
	// whichever bucket also matched.
	if !rec.DueDate.IsZero() {
		days := daysUntil(now, rec.DueDate)
		switch {
		case days <= 1:
			add(RuleDueDate, fmt.Sprintf("due in %d days (+40)", days), 40)
		case days <= 3:
			add(RuleDueDate, fmt.Sprintf("due in %d days (+30)", days), 30)
		case days <= 7:
			add(RuleDueDate, fmt.Sprintf("due in %d days (+20)", days), 20)
		case days <= 14:
			add(RuleDueDate, fmt.Sprintf("due in %d days (+10)", days), 10)
		}
		if days < 0 {
			add(RuleOverdue, fmt.Sprintf("overdue by %d days (+50)", -days), 50)
		}
	}

	// Project deadline impact.
	if !rec.Project.EndDate.IsZero() {
		days := daysUntil(now, rec.Project.EndDate)
		switch {
		case days <= 7:
			add(RuleProjectDeadline, fmt.Sprintf("project wraps in %d days (+25)", days), 25)
		case days <= 14:
			add(RuleProjectDeadline, fmt.Sprintf("project wraps in %d days (+15)", days), 15)
		case days <= 30:
			add(RuleProjectDeadline, fmt.Sprintf("project wraps in %d days (+10)", days), 10)
		}
	}

	// Complexity from the hour estimate.
	switch {
	case rec.EstimatedHours > 40:
		add(RuleComplexity, fmt.Sprintf("large estimate of %.0f hours (+20)", rec.EstimatedHours), 20)
	case rec.EstimatedHours > 20:
		add(RuleComplexity, fmt.Sprintf("substantial estimate of %.0f hours (+15)", rec.EstimatedHours), 15)
	case rec.EstimatedHours > 8:
		add(RuleComplexity, fmt.Sprintf("moderate estimate of %.0f hours (+10)", rec.EstimatedHours), 10)
	}

	// Dependency fan-out within the same project.
	if dependents := e.countDependents(rec, workingSet); dependents > 3 {
		add(RuleDependencyFan, fmt.Sprintf("%d tasks in project start before this is due (+15)", dependents), 15)
	} else if dependents > 1 {
		add(RuleDependencyFan, fmt.Sprintf("%d tasks in project start before this is due (+10)", dependents), 10)
	}

	// Project budget weight.
	switch {
	case rec.Project.Budget > 50000:
		add(RuleBudget, fmt.Sprintf("high-budget production (%.0f) (+10)", rec.Project.Budget), 10)
	case rec.Project.Budget > 20000:
		add(RuleBudget, fmt.Sprintf("mid-budget production (%.0f) (+7)", rec.Project.Budget), 7)
	case rec.Project.Budget > 10000:
		add(RuleBudget, fmt.Sprintf("budgeted production (%.0f) (+5)", rec.Project.Budget), 5)
	}

	// Status momentum.
	switch rec.Status {
	case task.StatusInProgress:
		add(RuleMomentum, "already in progress (+10)", 10)
	case task.StatusReview:
		add(RuleMomentum, "awaiting review (+8)", 8)
	}

	// Assignee workload is recorded for the reasoning trail but contributes
	// no points, matching the long-standing rewrite behavior.
	if rec.Assignee.ID != "" {
		active := e.countAssigneeActive(rec, workingSet)
		switch {
		case active <= 2:
			add(RuleWorkload, fmt.Sprintf("assignee has %d active tasks (+10)", active), 0)
		case active <= 5:
			add(RuleWorkload, fmt.Sprintf("assignee has %d active tasks (+5)", active), 0)
		default:
			add(RuleWorkload, fmt.Sprintf("assignee has %d active tasks (+0)", active), 0)
		}
	}

	return domain.Score{
		TaskID:            rec.ID,
		CurrentPriority:   rec.Priority,
		SuggestedPriority: domain.TierForPoints(points),
		Points:            points,
		Reasoning:         reasons,
		Confidence:        domain.ConfidenceFor(points, rec.EstimatedHours != 0, rec.StartDate != nil),
	}
}

// ScoreAll scores every task in the working set, preserving fetch order.
func (e *Engine) ScoreAll(workingSet []task.Record, now time.Time) []domain.Score {
	scores := make([]domain.Score, 0, len(workingSet))
	for _, rec := range workingSet {
		scores = append(scores, e.Score(rec, workingSet, now))
	}
	return scores
}

// countDependents counts tasks in the same project whose start date falls on
// or before this task's due date, the task itself included when scheduled.
func (e *Engine) countDependents(rec task.Record, workingSet []task.Record) int {
	if rec.Project.ID == "" || rec.DueDate.IsZero() {
		return 0
	}
	count := 0
	for _, other := range workingSet {
		if other.Project.ID != rec.Project.ID || other.StartDate == nil {
			continue
		}
		if !other.StartDate.After(rec.DueDate) {
			count++
		}
	}
	return count
}

// countAssigneeActive counts the assignee's non-completed tasks in the set,
// this task included.
func (e *Engine) countAssigneeActive(rec task.Record, workingSet []task.Record) int {
	count := 0
	for _, other := range workingSet {
		if other.Assignee.ID == rec.Assignee.ID && !other.Status.IsCompleted() {
			count++
		}
	}
	return count
}

// daysUntil is the whole-day distance from now to a deadline, rounded up so
// anything later today counts as one day out. Negative values mean overdue.
func daysUntil(now, deadline time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}
