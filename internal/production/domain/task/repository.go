package task

import "context"

// Repository defines the read/write contract the priority engine depends on.
// The working set is fetched fresh on every request; fetch order is stable
// (creation order) because downstream ranking uses it as the tie-break.
type Repository interface {
	// FindWorkingSet returns the tasks matched by the selector, joined with
	// project and assignee data. Completed tasks are excluded unless they
	// are requested explicitly by id.
	FindWorkingSet(ctx context.Context, selector Selector) ([]Record, error)

	// BulkUpdatePriority applies the batch and returns the number of tasks
	// actually mutated. A failure may leave the batch partially applied;
	// callers surface the error without claiming partial success.
	BulkUpdatePriority(ctx context.Context, updates []PriorityUpdate) (int64, error)
}
