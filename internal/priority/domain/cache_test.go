package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/callsheethq/callsheet/internal/production/domain/task"
)

func TestAnalysisCacheKey(t *testing.T) {
	t.Run("empty selector maps to the all namespace", func(t *testing.T) {
		key := AnalysisCacheKey(task.Selector{})
		assert.Equal(t, "tasks:priority:all:all", key)
	})

	t.Run("project-only selector", func(t *testing.T) {
		key := AnalysisCacheKey(task.Selector{ProjectID: "prod-42"})
		assert.Equal(t, "tasks:priority:prod-42:all", key)
	})

	t.Run("task ids are sorted so equivalent selectors share a key", func(t *testing.T) {
		a := AnalysisCacheKey(task.Selector{TaskIDs: []string{"t2", "t1", "t3"}})
		b := AnalysisCacheKey(task.Selector{TaskIDs: []string{"t3", "t1", "t2"}})
		assert.Equal(t, a, b)
		assert.Equal(t, "tasks:priority:all:t1,t2,t3", a)
	})

	t.Run("sorting does not mutate the selector", func(t *testing.T) {
		ids := []string{"t2", "t1"}
		AnalysisCacheKey(task.Selector{TaskIDs: ids})
		assert.Equal(t, []string{"t2", "t1"}, ids)
	})

	t.Run("keys live under the tasks invalidation namespace", func(t *testing.T) {
		key := AnalysisCacheKey(task.Selector{ProjectID: "prod-42", TaskIDs: []string{"t1"}})
		assert.Contains(t, key, "tasks:")
	})
}
