package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/atinyakov/WikiSmart/internal/models"
	"github.com/atinyakov/WikiSmart/internal/repository"
)

// QuizGenerator writes a quiz about the given text.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, content string) (models.Quiz, error)
}

// QuizRepository stores generated quizzes and attempts.
type QuizRepository interface {
	SaveQuiz(ctx context.Context, q models.Quiz) (int64, error)
	LatestQuiz(ctx context.Context, articleID int64) (int64, models.Quiz, error)
	SaveAttempt(ctx context.Context, quizID, userID int64, a models.QuizAttemptCreate, score float64) (int64, error)
}

// QuizService generates quizzes and scores attempts.
type QuizService struct {
	fetcher   ArticleFetcher
	generator QuizGenerator
	articles  ArticleRepository
	quizzes   QuizRepository
	log       *zap.Logger
}

func NewQuizService(fetcher ArticleFetcher, generator QuizGenerator, articles ArticleRepository, quizzes QuizRepository, log *zap.Logger) *QuizService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuizService{fetcher: fetcher, generator: generator, articles: articles, quizzes: quizzes, log: log}
}

// Generate fetches the article, asks the model for a quiz and stores it.
// The returned quiz's ArticleID identifies it in SubmitAttempt.
func (s *QuizService) Generate(ctx context.Context, user models.User, articleURL string) (models.Quiz, error) {
	a, err := fetch(ctx, s.fetcher, articleURL)
	if err != nil {
		return models.Quiz{}, err
	}
	q, err := s.generator.GenerateQuiz(ctx, a.Text())
	if err != nil {
		return models.Quiz{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	art, err := s.articles.CreateArticle(ctx, user.ID, models.Article{
		URL:    sourceURL(a, articleURL),
		Title:  a.Title,
		Action: models.ActionQuiz,
		Metadata: map[string]any{
			"multiple_choice": len(q.MultipleChoice),
			"open_questions":  len(q.OpenQuestions),
		},
	})
	if err != nil {
		return models.Quiz{}, err
	}
	q.ArticleID = art.ID
	if _, err := s.quizzes.SaveQuiz(ctx, q); err != nil {
		return models.Quiz{}, err
	}
	return q, nil
}

// SubmitAttempt scores the answers against the latest quiz for the article
// and stores the attempt.
func (s *QuizService) SubmitAttempt(ctx context.Context, user models.User, in models.QuizAttemptCreate) (models.QuizAttemptResult, error) {
	if in.ArticleID <= 0 {
		return models.QuizAttemptResult{}, fmt.Errorf("%w: article_id must be positive", ErrInvalidInput)
	}
	quizID, q, err := s.quizzes.LatestQuiz(ctx, in.ArticleID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.QuizAttemptResult{}, fmt.Errorf("%w: no quiz for article %d", ErrNotFound, in.ArticleID)
	}
	if err != nil {
		return models.QuizAttemptResult{}, err
	}

	score := Score(q, in.AnswersMCQ)
	id, err := s.quizzes.SaveAttempt(ctx, quizID, user.ID, in, score)
	if err != nil {
		return models.QuizAttemptResult{}, err
	}
	s.log.Info("quiz attempt scored",
		zap.Int64("attempt_id", id),
		zap.Int64("article_id", in.ArticleID),
		zap.Float64("score", score),
	)
	return models.QuizAttemptResult{AttemptID: id, Score: score}, nil
}

// Score is the percentage of multiple-choice questions answered correctly.
// Open questions are not scored. A quiz without multiple-choice questions
// scores 0.
func Score(q models.Quiz, answers map[int]int) float64 {
	total := len(q.MultipleChoice)
	if total == 0 {
		return 0
	}
	correct := 0
	for i, mcq := range q.MultipleChoice {
		if chosen, ok := answers[i]; ok && chosen == mcq.CorrectIndex {
			correct++
		}
	}
	return 100 * float64(correct) / float64(total)
}
