package service

import (
	"context"

	"github.com/atinyakov/WikiSmart/internal/models"
)

// StatsRepository computes platform counters.
type StatsRepository interface {
	GlobalStats(ctx context.Context) (models.GlobalStats, error)
}

// StatsService exposes platform statistics to administrators.
type StatsService struct {
	repo StatsRepository
}

func NewStatsService(repo StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

// GlobalStats returns the current counters. Downloads are not tracked.
func (s *StatsService) GlobalStats(ctx context.Context) (models.GlobalStats, error) {
	st, err := s.repo.GlobalStats(ctx)
	if err != nil {
		return models.GlobalStats{}, err
	}
	st.TotalDownloads = 0
	return st, nil
}
