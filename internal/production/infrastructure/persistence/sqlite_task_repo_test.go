package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/callsheethq/callsheet/internal/production/domain/task"
)

func newTestRepository(t *testing.T) *SQLiteTaskRepository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewSQLiteTaskRepository(db)
	require.NoError(t, repo.InitSchema(context.Background()))
	return repo
}

func seedFixtures(t *testing.T, repo *SQLiteTaskRepository) {
	t.Helper()
	ctx := context.Background()

	stmts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO projects (id, name, status, budget, end_date) VALUES (?, ?, ?, ?, ?)`,
			[]any{"p1", "Brand Launch Film", "active", 60000.0, "2026-04-15T00:00:00Z"}},
		{`INSERT INTO projects (id, name, status, budget, end_date) VALUES (?, ?, ?, ?, ?)`,
			[]any{"p2", "Recruiting Shorts", "active", 8000.0, nil}},
		{`INSERT INTO crew_members (id, name, role) VALUES (?, ?, ?)`,
			[]any{"c1", "Dana", "editor"}},
		{`INSERT INTO tasks (id, title, status, priority, due_date, start_date, estimated_hours, assignee_id, project_id, created_at)
		  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			[]any{"t1", "Rough cut", "in_progress", "medium", "2026-03-12T00:00:00Z", "2026-03-01T00:00:00Z", 24.0, "c1", "p1", "2026-02-01T00:00:00Z"}},
		{`INSERT INTO tasks (id, title, status, priority, due_date, estimated_hours, project_id, created_at)
		  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			[]any{"t2", "Color grade", "todo", "low", "2026-03-20T00:00:00Z", 10.0, "p1", "2026-02-02T00:00:00Z"}},
		{`INSERT INTO tasks (id, title, status, priority, project_id, created_at)
		  VALUES (?, ?, ?, ?, ?, ?)`,
			[]any{"t3", "Script outline", "completed", "high", "p2", "2026-01-20T00:00:00Z"}},
		{`INSERT INTO tasks (id, title, status, priority, created_at)
		  VALUES (?, ?, ?, ?, ?)`,
			[]any{"t4", "Archive footage", "todo", "medium", "2026-02-03T00:00:00Z"}},
	}

	for _, s := range stmts {
		_, err := repo.db.ExecContext(ctx, s.query, s.args...)
		require.NoError(t, err)
	}
}

func TestSQLiteTaskRepository_FindWorkingSet(t *testing.T) {
	ctx := context.Background()

	t.Run("returns active tasks in creation order", func(t *testing.T) {
		repo := newTestRepository(t)
		seedFixtures(t, repo)

		records, err := repo.FindWorkingSet(ctx, task.Selector{})
		require.NoError(t, err)

		ids := make([]string, 0, len(records))
		for _, rec := range records {
			ids = append(ids, rec.ID)
		}
		assert.Equal(t, []string{"t1", "t2", "t4"}, ids, "completed tasks are excluded, order follows created_at")
	})

	t.Run("filters by project", func(t *testing.T) {
		repo := newTestRepository(t)
		seedFixtures(t, repo)

		records, err := repo.FindWorkingSet(ctx, task.Selector{ProjectID: "p1"})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "t1", records[0].ID)
		assert.Equal(t, "t2", records[1].ID)
	})

	t.Run("explicit task ids include completed tasks", func(t *testing.T) {
		repo := newTestRepository(t)
		seedFixtures(t, repo)

		records, err := repo.FindWorkingSet(ctx, task.Selector{TaskIDs: []string{"t3", "t1"}})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "t3", records[0].ID, "t3 was created first")
		assert.Equal(t, task.StatusCompleted, records[0].Status)
	})

	t.Run("hydrates crew and project joins", func(t *testing.T) {
		repo := newTestRepository(t)
		seedFixtures(t, repo)

		records, err := repo.FindWorkingSet(ctx, task.Selector{TaskIDs: []string{"t1"}})
		require.NoError(t, err)
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, "Rough cut", rec.Title)
		assert.Equal(t, task.Assignee{ID: "c1", Name: "Dana", Role: "editor"}, rec.Assignee)
		assert.Equal(t, "p1", rec.Project.ID)
		assert.Equal(t, 60000.0, rec.Project.Budget)
		assert.Equal(t, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), rec.Project.EndDate)
		require.NotNil(t, rec.StartDate)
		assert.Equal(t, 24.0, rec.EstimatedHours)
	})

	t.Run("missing dates scan as absent", func(t *testing.T) {
		repo := newTestRepository(t)
		seedFixtures(t, repo)

		records, err := repo.FindWorkingSet(ctx, task.Selector{TaskIDs: []string{"t4"}})
		require.NoError(t, err)
		require.Len(t, records, 1)

		rec := records[0]
		assert.True(t, rec.DueDate.IsZero())
		assert.Nil(t, rec.StartDate)
		assert.Empty(t, rec.Assignee.ID)
		assert.Empty(t, rec.Project.ID)
	})

	t.Run("unknown selector yields an empty set", func(t *testing.T) {
		repo := newTestRepository(t)
		seedFixtures(t, repo)

		records, err := repo.FindWorkingSet(ctx, task.Selector{ProjectID: "nope"})
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestSQLiteTaskRepository_BulkUpdatePriority(t *testing.T) {
	ctx := context.Background()

	t.Run("updates only the priority column", func(t *testing.T) {
		repo := newTestRepository(t)
		seedFixtures(t, repo)

		updated, err := repo.BulkUpdatePriority(ctx, []task.PriorityUpdate{
			{TaskID: "t1", Priority: task.PriorityHigh},
			{TaskID: "t2", Priority: task.PriorityMedium},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated)

		records, err := repo.FindWorkingSet(ctx, task.Selector{TaskIDs: []string{"t1", "t2"}})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, task.PriorityHigh, records[0].Priority)
		assert.Equal(t, task.StatusInProgress, records[0].Status, "status must not change")
		assert.Equal(t, "Rough cut", records[0].Title, "title must not change")
		assert.Equal(t, task.PriorityMedium, records[1].Priority)
	})

	t.Run("counts only rows that exist", func(t *testing.T) {
		repo := newTestRepository(t)
		seedFixtures(t, repo)

		updated, err := repo.BulkUpdatePriority(ctx, []task.PriorityUpdate{
			{TaskID: "t1", Priority: task.PriorityLow},
			{TaskID: "ghost", Priority: task.PriorityHigh},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated)
	})

	t.Run("empty update list is a no-op", func(t *testing.T) {
		repo := newTestRepository(t)

		updated, err := repo.BulkUpdatePriority(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), updated)
	})
}
