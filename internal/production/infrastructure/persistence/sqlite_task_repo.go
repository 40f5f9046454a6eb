package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/callsheethq/callsheet/internal/production/domain/task"
)

// SQLiteTaskRepository implements task.Repository using SQLite for local,
// single-binary deployments. Dates are stored as RFC 3339 text.
type SQLiteTaskRepository struct {
	db *sql.DB
}

// NewSQLiteTaskRepository creates a new SQLite task repository.
func NewSQLiteTaskRepository(db *sql.DB) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{db: db}
}

// InitSchema creates the tables if they do not exist. It runs once at
// process startup, not as a per-request guard.
func (r *SQLiteTaskRepository) InitSchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			budget REAL NOT NULL DEFAULT 0,
			end_date TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS crew_members (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'todo',
			priority TEXT NOT NULL DEFAULT 'medium',
			due_date TEXT,
			start_date TEXT,
			estimated_hours REAL,
			actual_hours REAL,
			assignee_id TEXT REFERENCES crew_members(id),
			project_id TEXT REFERENCES projects(id),
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_id)`,
	}

	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// FindWorkingSet fetches the selected tasks joined with crew and project
// data, in creation order.
func (r *SQLiteTaskRepository) FindWorkingSet(ctx context.Context, selector task.Selector) ([]task.Record, error) {
	query := `
SELECT t.id, t.title, t.status, t.priority,
       t.due_date, t.start_date, t.estimated_hours, t.actual_hours,
       c.id, c.name, c.role,
       p.id, p.name, p.status, p.budget, p.end_date
FROM tasks t
LEFT JOIN crew_members c ON c.id = t.assignee_id
LEFT JOIN projects p ON p.id = t.project_id
WHERE 1=1`

	args := make([]any, 0, len(selector.TaskIDs)+1)
	if selector.ProjectID != "" {
		query += " AND t.project_id = ?"
		args = append(args, selector.ProjectID)
	}
	if len(selector.TaskIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(selector.TaskIDs)), ",")
		query += " AND t.id IN (" + placeholders + ")"
		for _, id := range selector.TaskIDs {
			args = append(args, id)
		}
	} else {
		query += " AND t.status <> 'completed'"
	}
	query += " ORDER BY t.created_at, t.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query working set: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]task.Record, 0)
	for rows.Next() {
		rec, err := scanSQLiteRow(rows)
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

// BulkUpdatePriority sets only the priority column of each listed task,
// inside one transaction so partial batches never commit.
func (r *SQLiteTaskRepository) BulkUpdatePriority(ctx context.Context, updates []task.PriorityUpdate) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin bulk update: %w", err)
	}

	var updated int64
	for _, u := range updates {
		result, err := tx.ExecContext(ctx,
			`UPDATE tasks SET priority = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%SZ','now') WHERE id = ?`,
			string(u.Priority), u.TaskID,
		)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("bulk priority update failed: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil {
			updated += n
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit bulk update: %w", err)
	}
	return updated, nil
}

func scanSQLiteRow(rows *sql.Rows) (task.Record, error) {
	var (
		rec            task.Record
		status         string
		priority       string
		dueDate        sql.NullString
		startDate      sql.NullString
		estimatedHours sql.NullFloat64
		actualHours    sql.NullFloat64
		assigneeID     sql.NullString
		assigneeName   sql.NullString
		assigneeRole   sql.NullString
		projectID      sql.NullString
		projectName    sql.NullString
		projectStatus  sql.NullString
		projectBudget  sql.NullFloat64
		projectEnd     sql.NullString
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
	rec.DueDate = parseStoredTime(dueDate)
	if t := parseStoredTime(startDate); !t.IsZero() {
		rec.StartDate = &t
	}
	rec.EstimatedHours = estimatedHours.Float64
	rec.ActualHours = actualHours.Float64
	if assigneeID.Valid {
		rec.Assignee = task.Assignee{
			ID:   assigneeID.String,
			Name: assigneeName.String,
			Role: assigneeRole.String,
		}
	}
	if projectID.Valid {
		rec.Project = task.Project{
			ID:      projectID.String,
			Name:    projectName.String,
			Status:  projectStatus.String,
			Budget:  projectBudget.Float64,
			EndDate: parseStoredTime(projectEnd),
		}
	}

	return rec, nil
}

// parseStoredTime decodes an RFC 3339 column. Unparsable values degrade to
// the zero time, which the scoring rules treat as absent.
func parseStoredTime(value sql.NullString) time.Time {
	if !value.Valid || value.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

var _ task.Repository = (*SQLiteTaskRepository)(nil)
