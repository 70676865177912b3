package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartQuizCleaner deletes generated quizzes older than retention every
// interval. Their attempts go with them. It stops when ctx is done.
func StartQuizCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				res, err := db.ExecContext(ctx, `
                    DELETE FROM quizzes
                     WHERE created_at < $1
                `, cutoff)
				if err != nil {
					log.Error("failed to prune old quizzes", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("pruned old quizzes", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
