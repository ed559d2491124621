package services

import (
	"context"

	"github.com/axellelanca/urlshortener-frontend/internal/logging"
	"github.com/axellelanca/urlshortener-frontend/internal/models"
)

// StatsAPI is the backend call used by StatsService.
type StatsAPI interface {
	Stats(ctx context.Context) ([]models.StatsItem, error)
}

// StatsService loads click analytics for every shortened link.
type StatsService struct {
	api    StatsAPI
	events EventLogger
	stack  string
}

// NewStatsService creates a StatsService.
func NewStatsService(api StatsAPI, events EventLogger, stack string) *StatsService {
	return &StatsService{api: api, events: events, stack: stack}
}

// Load fetches the stats. On failure the error is logged and an empty list is
// returned alongside it, so a page can render without special-casing.
func (s *StatsService) Load(ctx context.Context) ([]models.StatsItem, error) {
	s.events.Log(ctx, s.stack, logging.LevelInfo, statsPackage, "Fetching stats", nil)

	items, err := s.api.Stats(ctx)
	if err != nil {
		s.events.Log(ctx, s.stack, logging.LevelError, statsPackage, "Stats fetch failed", map[string]any{"error": err.Error()})
		return []models.StatsItem{}, err
	}
	return items, nil
}
