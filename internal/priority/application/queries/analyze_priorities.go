package queries

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

// AnalyzePrioritiesQuery requests a scored ranking for the selected tasks.
type AnalyzePrioritiesQuery struct {
	Selector task.Selector
}

// AnalysisResult is the scored, ranked working set plus its summary.
type AnalysisResult struct {
	Results []domain.Score   `json:"results"`
	Summary services.Summary `json:"summary"`
	Cached  bool             `json:"cached"`
}

// analysisPayload is the cache entry body shared with the cached-result
// accessor.
type analysisPayload struct {
	Results []domain.Score   `json:"results"`
	Summary services.Summary `json:"summary"`
}

// AnalyzePrioritiesHandler orchestrates the analyze mode: cache-first, then
// fetch, score, rank, summarize, and cache the outcome for an hour.
type AnalyzePrioritiesHandler struct {
	repo   task.Repository
	cache  domain.ResultCache
	engine *services.Engine
	logger *slog.Logger
	now    func() time.Time
}

// NewAnalyzePrioritiesHandler creates a new handler.
func NewAnalyzePrioritiesHandler(
	repo task.Repository,
	cache domain.ResultCache,
	engine *services.Engine,
	logger *slog.Logger,
) *AnalyzePrioritiesHandler {
	if engine == nil {
		engine = services.NewEngine()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzePrioritiesHandler{
		repo:   repo,
		cache:  cache,
		engine: engine,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Handle executes the analysis. Cache failures are advisory: they degrade to
// recomputation and are only logged.
func (h *AnalyzePrioritiesHandler) Handle(ctx context.Context, query AnalyzePrioritiesQuery) (*AnalysisResult, error) {
	if err := query.Selector.Validate(); err != nil {
		return nil, err
	}

	key := domain.AnalysisCacheKey(query.Selector)
	if cached, err := h.cache.Get(ctx, key); err == nil {
		var payload analysisPayload
		if err := json.Unmarshal(cached, &payload); err == nil {
			return &AnalysisResult{Results: payload.Results, Summary: payload.Summary, Cached: true}, nil
		}
		h.logger.Warn("discarding undecodable cache entry", "key", key)
	} else if err != domain.ErrCacheMiss {
		h.logger.Warn("cache read failed, recomputing", "key", key, "error", err)
	}

	workingSet, err := h.repo.FindWorkingSet(ctx, query.Selector)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch working set: %w", err)
	}

	ranked := services.Rank(h.engine.ScoreAll(workingSet, h.now()))
	result := &AnalysisResult{
		Results: ranked,
		Summary: services.Summarize(ranked),
		Cached:  false,
	}

	if payload, err := json.Marshal(analysisPayload{Results: result.Results, Summary: result.Summary}); err == nil {
		if err := h.cache.Set(ctx, key, payload, domain.AnalysisTTL); err != nil {
			h.logger.Warn("cache write failed", "key", key, "error", err)
		}
	}

	h.logger.Debug("priority analysis computed",
		"key", key,
		"tasks", result.Summary.Total,
		"changed", result.Summary.Changed,
	)

	return result, nil
}
