package queries

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/callsheethq/callsheet/internal/priority/domain"
	"github.com/callsheethq/callsheet/internal/production/domain/task"
)

// GetCachedAnalysisQuery asks for a previously computed analysis.
type GetCachedAnalysisQuery struct {
	Selector task.Selector
}

// GetCachedAnalysisHandler only reads the cache. It never triggers a
// computation: a miss is reported as an explicit not-cached result.
type GetCachedAnalysisHandler struct {
	cache  domain.ResultCache
	logger *slog.Logger
}

// NewGetCachedAnalysisHandler creates a new handler.
func NewGetCachedAnalysisHandler(cache domain.ResultCache, logger *slog.Logger) *GetCachedAnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetCachedAnalysisHandler{cache: cache, logger: logger}
}

// Handle returns the cached analysis for the selector, or Cached=false with
// empty results when nothing usable is cached.
func (h *GetCachedAnalysisHandler) Handle(ctx context.Context, query GetCachedAnalysisQuery) (*AnalysisResult, error) {
	if err := query.Selector.Validate(); err != nil {
		return nil, err
	}

	key := domain.AnalysisCacheKey(query.Selector)
	cached, err := h.cache.Get(ctx, key)
	if err != nil {
		if err != domain.ErrCacheMiss {
			h.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return &AnalysisResult{Cached: false}, nil
	}

	var payload analysisPayload
	if err := json.Unmarshal(cached, &payload); err != nil {
		h.logger.Warn("discarding undecodable cache entry", "key", key)
		return &AnalysisResult{Cached: false}, nil
	}

	return &AnalysisResult{Results: payload.Results, Summary: payload.Summary, Cached: true}, nil
}
