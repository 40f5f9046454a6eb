package task

import "time"

// Status represents the task lifecycle state.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusCompleted  Status = "completed"
)

// IsCompleted reports whether the task has been finished.
func (s Status) IsCompleted() bool { return s == StatusCompleted }

// IsValid reports whether the status is one of the known lifecycle states.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusCompleted:
		return true
	}
	return false
}

// Priority is the persisted priority tier of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether the priority is a known tier.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Assignee is the crew member a task is assigned to.
type Assignee struct {
	ID   string
	Name string
	Role string
}

// Project is the production a task belongs to.
type Project struct {
	ID      string
	Name    string
	Status  string
	Budget  float64
	EndDate time.Time
}

// Record is the working-set view of a task: the task document joined with
// its project and assignee. It is read-only input to the priority engine;
// only the repository mutates the underlying documents.
//
// Date fields use the zero time.Time to represent absent or unparsable
// values, which score zero points in every date-driven rule.
type Record struct {
	ID             string
	Title          string
	Status         Status
	Priority       Priority
	DueDate        time.Time
	StartDate      *time.Time
	EstimatedHours float64
	ActualHours    float64
	Assignee       Assignee
	Project        Project
}

// PriorityUpdate sets the priority field of a single task, matched by id.
// No other field is touched, so concurrent edits to unrelated fields are
// never clobbered.
type PriorityUpdate struct {
	TaskID   string
	Priority Priority
}
