package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/atinyakov/WikiSmart/internal/models"
)

// PostgresArticleRepository records processed articles.
type PostgresArticleRepository struct {
	DB *sql.DB
}

func NewPostgresArticleRepository(db *sql.DB) *PostgresArticleRepository {
	return &PostgresArticleRepository{DB: db}
}

// CreateArticle inserts a, owned by userID, and returns it with its id and
// creation time filled in.
func (r *PostgresArticleRepository) CreateArticle(ctx context.Context, userID int64, a models.Article) (models.Article, error) {
	meta := a.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return models.Article{}, fmt.Errorf("encode metadata: %w", err)
	}

	var owner sql.NullInt64
	if userID > 0 {
		owner = sql.NullInt64{Int64: userID, Valid: true}
	}

	out := a
	out.Metadata = meta
	var createdAt sql.NullTime
	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO articles (user_id, url, title, action, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, owner, a.URL, a.Title, a.Action, raw).Scan(&out.ID, &createdAt)
	if err != nil {
		return models.Article{}, fmt.Errorf("CreateArticle: %w", err)
	}
	if createdAt.Valid {
		t := createdAt.Time
		out.CreatedAt = &t
	}
	return out, nil
}
