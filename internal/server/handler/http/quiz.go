package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/WikiSmart/internal/middleware"
	"github.com/atinyakov/WikiSmart/internal/models"
)

// QuizService defines the quiz operations required by QuizHandler.
type QuizService interface {
	Generate(ctx context.Context, user models.User, articleURL string) (models.Quiz, error)
	SubmitAttempt(ctx context.Context, user models.User, in models.QuizAttemptCreate) (models.QuizAttemptResult, error)
}

// QuizHandler serves /quiz. All routes require BearerAuth.
type QuizHandler struct {
	QuizService QuizService
	Log         *zap.Logger
}

func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.QuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	q, err := h.QuizService.Generate(r.Context(), user, req.URL)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Attempt scores a submitted attempt against the stored quiz.
func (h *QuizHandler) Attempt(w http.ResponseWriter, r *http.Request) {
	var req models.QuizAttemptCreate
	if !decodeJSON(w, r, &req) {
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	res, err := h.QuizService.SubmitAttempt(r.Context(), user, req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
