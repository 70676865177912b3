package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atinyakov/WikiSmart/internal/models"
)

// PostgresQuizRepository stores generated quizzes and scored attempts.
// Quiz questions are kept as a JSONB document.
type PostgresQuizRepository struct {
	DB *sql.DB
}

func NewPostgresQuizRepository(db *sql.DB) *PostgresQuizRepository {
	return &PostgresQuizRepository{DB: db}
}

type quizBody struct {
	MultipleChoice []models.MultipleChoiceQuestion `json:"multiple_choice"`
	OpenQuestions  []models.OpenQuestion           `json:"open_questions"`
}

// SaveQuiz stores q under q.ArticleID and returns the quiz id.
func (r *PostgresQuizRepository) SaveQuiz(ctx context.Context, q models.Quiz) (int64, error) {
	raw, err := json.Marshal(quizBody{MultipleChoice: q.MultipleChoice, OpenQuestions: q.OpenQuestions})
	if err != nil {
		return 0, fmt.Errorf("encode quiz: %w", err)
	}
	var id int64
	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO quizzes (article_id, body) VALUES ($1, $2) RETURNING id
	`, q.ArticleID, raw).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("SaveQuiz: %w", err)
	}
	return id, nil
}

// LatestQuiz returns the most recent quiz generated for articleID.
func (r *PostgresQuizRepository) LatestQuiz(ctx context.Context, articleID int64) (int64, models.Quiz, error) {
	var (
		id  int64
		raw []byte
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, body FROM quizzes
		WHERE article_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, articleID).Scan(&id, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, models.Quiz{}, ErrNotFound
	}
	if err != nil {
		return 0, models.Quiz{}, fmt.Errorf("LatestQuiz: %w", err)
	}
	var body quizBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return 0, models.Quiz{}, fmt.Errorf("decode quiz %d: %w", id, err)
	}
	return id, models.Quiz{
		ArticleID:      articleID,
		MultipleChoice: body.MultipleChoice,
		OpenQuestions:  body.OpenQuestions,
	}, nil
}

// SaveAttempt records a scored attempt and returns its id.
func (r *PostgresQuizRepository) SaveAttempt(ctx context.Context, quizID, userID int64, a models.QuizAttemptCreate, score float64) (int64, error) {
	mcq, err := json.Marshal(nonNilMCQ(a.AnswersMCQ))
	if err != nil {
		return 0, fmt.Errorf("encode answers: %w", err)
	}
	open, err := json.Marshal(nonNilOpen(a.AnswersOpen))
	if err != nil {
		return 0, fmt.Errorf("encode answers: %w", err)
	}
	var id int64
	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO quiz_attempts (quiz_id, user_id, answers_mcq, answers_open, score)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, quizID, userID, mcq, open, score).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("SaveAttempt: %w", err)
	}
	return id, nil
}

func nonNilMCQ(m map[int]int) map[int]int {
	if m == nil {
		return map[int]int{}
	}
	return m
}

func nonNilOpen(m map[int]string) map[int]string {
	if m == nil {
		return map[int]string{}
	}
	return m
}
