package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/WikiSmart/internal/models"
)

// PostgresStatsRepository computes platform-wide counters.
type PostgresStatsRepository struct {
	DB *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{DB: db}
}

// GlobalStats counts users, articles and generated quizzes. Generated quizzes
// are counted from the article log so pruning does not lower the total.
// Downloads are not tracked and stay 0.
func (r *PostgresStatsRepository) GlobalStats(ctx context.Context) (models.GlobalStats, error) {
	var s models.GlobalStats
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM articles),
			(SELECT COUNT(*) FROM articles WHERE action = $1)
	`, models.ActionQuiz).Scan(&s.TotalUsers, &s.TotalArticles, &s.TotalQuizzesGenerated)
	if err != nil {
		return models.GlobalStats{}, fmt.Errorf("GlobalStats: %w", err)
	}
	return s, nil
}
