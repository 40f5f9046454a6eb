package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/callsheethq/callsheet/internal/priority/application/services"
	"github.com/callsheethq/callsheet/internal/priority/domain"
	"github.com/callsheethq/callsheet/internal/production/domain/task"
)

// ApplyPrioritiesCommand rewrites persisted priorities for high-confidence
// disagreements in the selected working set.
type ApplyPrioritiesCommand struct {
	Selector task.Selector
}

// ApplyPrioritiesResult carries the freshly computed scores plus what was
// actually written.
type ApplyPrioritiesResult struct {
	Results      []domain.Score   `json:"results"`
	Summary      services.Summary `json:"summary"`
	Planned      int              `json:"planned"`
	UpdatedCount int64            `json:"updated_count"`
}

// ApplyPrioritiesHandler orchestrates the apply mode. It always recomputes
// from a fresh working set; a cached plan is never trusted for a mutation.
type ApplyPrioritiesHandler struct {
	repo      task.Repository
	cache     domain.ResultCache
	publisher domain.EventPublisher
	engine    *services.Engine
	logger    *slog.Logger
	now       func() time.Time
}

// NewApplyPrioritiesHandler creates a new handler.
func NewApplyPrioritiesHandler(
	repo task.Repository,
	cache domain.ResultCache,
	publisher domain.EventPublisher,
	engine *services.Engine,
	logger *slog.Logger,
) *ApplyPrioritiesHandler {
	if engine == nil {
		engine = services.NewEngine()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplyPrioritiesHandler{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		engine:    engine,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Handle executes the apply run. Invalidation is chained strictly after a
// confirmed successful write; a bulk-write failure is surfaced upward with
// the caches left untouched.
func (h *ApplyPrioritiesHandler) Handle(ctx context.Context, cmd ApplyPrioritiesCommand) (*ApplyPrioritiesResult, error) {
	if err := cmd.Selector.Validate(); err != nil {
		return nil, err
	}

	workingSet, err := h.repo.FindWorkingSet(ctx, cmd.Selector)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch working set: %w", err)
	}

	now := h.now()
	ranked := services.Rank(h.engine.ScoreAll(workingSet, now))
	result := &ApplyPrioritiesResult{
		Results: ranked,
		Summary: services.Summarize(ranked),
	}

	updates := services.PlanUpdates(ranked)
	result.Planned = len(updates)
	if len(updates) == 0 {
		h.logger.Debug("apply selected no tasks, skipping write and invalidation")
		return result, nil
	}

	updated, err := h.repo.BulkUpdatePriority(ctx, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to apply priority updates: %w", err)
	}
	result.UpdatedCount = updated

	if updated > 0 {
		h.invalidateCaches(ctx)
		h.publishApplied(ctx, cmd.Selector, updates, updated, now)
	}

	h.logger.Info("priorities applied",
		"planned", result.Planned,
		"updated", result.UpdatedCount,
	)

	return result, nil
}

func (h *ApplyPrioritiesHandler) invalidateCaches(ctx context.Context) {
	for _, pattern := range []string{domain.NamespaceTasks, domain.NamespaceDashboard} {
		if err := h.cache.Invalidate(ctx, pattern); err != nil {
			h.logger.Warn("cache invalidation failed", "pattern", pattern, "error", err)
		}
	}
}

func (h *ApplyPrioritiesHandler) publishApplied(ctx context.Context, selector task.Selector, updates []task.PriorityUpdate, updated int64, appliedAt time.Time) {
	if h.publisher == nil {
		return
	}

	taskIDs := make([]string, 0, len(updates))
	for _, u := range updates {
		taskIDs = append(taskIDs, u.TaskID)
	}

	payload, err := json.Marshal(domain.PrioritiesApplied{
		ProjectID:    selector.ProjectID,
		TaskIDs:      taskIDs,
		UpdatedCount: updated,
		AppliedAt:    appliedAt,
	})
	if err != nil {
		return
	}

	if err := h.publisher.Publish(ctx, domain.RoutingKeyPrioritiesApplied, payload); err != nil {
		h.logger.Warn("failed to publish apply event", "error", err)
	}
}
