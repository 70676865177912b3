package service

import (
	"context"
	"errors"
	"testing"

	"github.com/atinyakov/WikiSmart/internal/models"
)

type stubStats struct {
	stats models.GlobalStats
	err   error
}

func (s stubStats) GlobalStats(context.Context) (models.GlobalStats, error) { return s.stats, s.err }

func TestGlobalStats(t *testing.T) {
	svc := NewStatsService(stubStats{stats: models.GlobalStats{TotalUsers: 2, TotalArticles: 5, TotalQuizzesGenerated: 1, TotalDownloads: 9}})
	got, err := svc.GlobalStats(context.Background())
	if err != nil {
		t.Fatalf("GlobalStats returned error: %v", err)
	}
	want := models.GlobalStats{TotalUsers: 2, TotalArticles: 5, TotalQuizzesGenerated: 1}
	if got != want {
		t.Errorf("GlobalStats = %+v; want %+v", got, want)
	}

	wantErr := errors.New("db error")
	if _, err := NewStatsService(stubStats{err: wantErr}).GlobalStats(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("GlobalStats error = %v; want %v", err, wantErr)
	}
}
