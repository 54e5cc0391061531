package service

import (
	"context"
	"fmt"

	"github.com/ecoverse/ecopress/internal/domain"
	"github.com/ecoverse/ecopress/internal/logger"
)

// trendingMinScore is the engagement threshold applied when trending
// boost is enabled.
const trendingMinScore = 50

// CandidateSelector picks the source items to process in one batch,
// ranked by engagement score.
type CandidateSelector struct {
	queue  SourceItemStore
	logger *logger.Logger
}

// NewCandidateSelector creates a new CandidateSelector.
func NewCandidateSelector(queue SourceItemStore, log *logger.Logger) *CandidateSelector {
	return &CandidateSelector{queue: queue, logger: log}
}

// Select returns up to limit unprocessed items, highest engagement
// first. With trending boost enabled the minimum-score filter is tried
// first and silently widened to the full queue when it yields nothing,
// so a strict threshold never starves the batch. An empty queue yields
// an empty result, not an error.
func (s *CandidateSelector) Select(ctx context.Context, limit int, trendingBoost bool) ([]domain.SourceItem, error) {
	if trendingBoost {
		items, err := s.queue.ListUnprocessed(ctx, trendingMinScore, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to query source queue: %w", err)
		}
		if len(items) > 0 {
			return items, nil
		}
		logger.CtxDebug(ctx, "No items above trending threshold %d, widening selection", trendingMinScore)
	}

	items, err := s.queue.ListUnprocessed(ctx, 0, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query source queue: %w", err)
	}
	return items, nil
}
