package domain

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/callsheethq/callsheet/internal/production/domain/task"
)

// AnalysisTTL bounds how long a cached analysis may be served.
const AnalysisTTL = time.Hour

// Invalidation namespaces cleared after a successful apply. They are broader
// than the single request key because downstream aggregate views depend on
// priority values.
const (
	NamespaceTasks     = "tasks:*"
	NamespaceDashboard = "dashboard:*"
)

// ErrCacheMiss is returned when a key is not present in the cache.
var ErrCacheMiss = errors.New("cache miss")

// ResultCache is the injected caching capability. It is strictly advisory:
// a miss, eviction, or error must only ever cause recomputation, never an
// incorrect result.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Invalidate removes every key matching the wildcard pattern.
	Invalidate(ctx context.Context, pattern string) error
}

// AnalysisCacheKey derives the deterministic cache key for a selector.
// Task ids are sorted so equivalent selectors share a key.
func AnalysisCacheKey(selector task.Selector) string {
	project := selector.ProjectID
	if project == "" {
		project = "all"
	}

	ids := "all"
	if len(selector.TaskIDs) > 0 {
		sorted := make([]string, len(selector.TaskIDs))
		copy(sorted, selector.TaskIDs)
		sort.Strings(sorted)
		ids = strings.Join(sorted, ",")
	}

	return "tasks:priority:" + project + ":" + ids
}
