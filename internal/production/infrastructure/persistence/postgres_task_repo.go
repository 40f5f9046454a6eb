// Package persistence contains task repository implementations for the
// supported document stores.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/callsheethq/callsheet/internal/production/domain/task"
)

// PostgresTaskRepository implements task.Repository using PostgreSQL.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskRepository creates a new PostgreSQL task repository.
func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

const workingSetQuery = `
SELECT t.id, t.title, t.status, t.priority,
       t.due_date, t.start_date, t.estimated_hours, t.actual_hours,
       c.id, c.name, c.role,
       p.id, p.name, p.status, p.budget, p.end_date
FROM tasks t
LEFT JOIN crew_members c ON c.id = t.assignee_id
LEFT JOIN projects p ON p.id = t.project_id
WHERE ($1 = '' OR t.project_id = $1)
  AND (cardinality($2::text[]) = 0 OR t.id = ANY($2))
  AND (cardinality($2::text[]) > 0 OR t.status <> 'completed')
ORDER BY t.created_at, t.id`

// FindWorkingSet fetches the selected tasks joined with crew and project
// data. Rows come back in creation order, which downstream ranking uses as
// its tie-break.
func (r *PostgresTaskRepository) FindWorkingSet(ctx context.Context, selector task.Selector) ([]task.Record, error) {
	taskIDs := selector.TaskIDs
	if taskIDs == nil {
		taskIDs = []string{}
	}

	rows, err := r.pool.Query(ctx, workingSetQuery, selector.ProjectID, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query working set: %w", err)
	}
	defer rows.Close()

	records := make([]task.Record, 0)
	for rows.Next() {
		rec, err := scanWorkingSetRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read working set: %w", err)
	}

	return records, nil
}

// BulkUpdatePriority sets only the priority column of each listed task via
// a single pipelined batch.
func (r *PostgresTaskRepository) BulkUpdatePriority(ctx context.Context, updates []task.PriorityUpdate) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(
			"UPDATE tasks SET priority = $1, updated_at = now() WHERE id = $2",
			string(u.Priority), u.TaskID,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	var updated int64
	for range updates {
		tag, err := results.Exec()
		if err != nil {
			return updated, fmt.Errorf("bulk priority update failed: %w", err)
		}
		updated += tag.RowsAffected()
	}

	return updated, nil
}

func scanWorkingSetRow(rows pgx.Rows) (task.Record, error) {
	var (
		rec            task.Record
		status         string
		priority       string
		dueDate        *time.Time
		startDate      *time.Time
		estimatedHours *float64
		actualHours    *float64
		assigneeID     *string
		assigneeName   *string
		assigneeRole   *string
		projectID      *string
		projectName    *string
		projectStatus  *string
		projectBudget  *float64
		projectEnd     *time.Time
	)

	err := rows.Scan(
		&rec.ID, &rec.Title, &status, &priority,
		&dueDate, &startDate, &estimatedHours, &actualHours,
		&assigneeID, &assigneeName, &assigneeRole,
		&projectID, &projectName, &projectStatus, &projectBudget, &projectEnd,
	)
	if err != nil {
		return task.Record{}, err
	}

	rec.Status = task.Status(status)
	rec.Priority = task.Priority(priority)
	if dueDate != nil {
		rec.DueDate = *dueDate
	}
	rec.StartDate = startDate
	if estimatedHours != nil {
		rec.EstimatedHours = *estimatedHours
	}
	if actualHours != nil {
		rec.ActualHours = *actualHours
	}
	if assigneeID != nil {
		rec.Assignee = task.Assignee{ID: *assigneeID}
		if assigneeName != nil {
			rec.Assignee.Name = *assigneeName
		}
		if assigneeRole != nil {
			rec.Assignee.Role = *assigneeRole
		}
	}
	if projectID != nil {
		rec.Project = task.Project{ID: *projectID}
		if projectName != nil {
			rec.Project.Name = *projectName
		}
		if projectStatus != nil {
			rec.Project.Status = *projectStatus
		}
		if projectBudget != nil {
			rec.Project.Budget = *projectBudget
		}
		if projectEnd != nil {
			rec.Project.EndDate = *projectEnd
		}
	}

	return rec, nil
}

var _ task.Repository = (*PostgresTaskRepository)(nil)
