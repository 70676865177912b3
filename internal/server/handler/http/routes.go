package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/WikiSmart/internal/middleware"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Auth     *AuthHandler
	Articles *ArticleHandler
	Quiz     *QuizHandler
	Admin    *AdminHandler
}

// NewRouter constructs the HTTP handler serving the API under /api/v1.
//
// Routes:
//
//	POST /api/v1/auth/register        → Auth.Register
//	POST /api/v1/auth/login           → Auth.Login
//	GET  /api/v1/health               → Health
//	POST /api/v1/articles/ingest/url  → Articles.IngestURL   (bearer)
//	POST /api/v1/articles/ingest/pdf  → Articles.IngestPDF   (bearer)
//	POST /api/v1/articles/summary/url → Articles.Summarize   (bearer)
//	POST /api/v1/articles/translate/url → Articles.Translate (bearer)
//	POST /api/v1/quiz/generate        → Quiz.Generate        (bearer)
//	POST /api/v1/quiz/attempt         → Quiz.Attempt         (bearer)
//	GET  /api/v1/admin/stats          → Admin.Stats          (bearer, ADMIN)
func NewRouter(h Handlers, auth middleware.TokenAuthenticator, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", Health)
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(auth, logger))

			r.Post("/articles/ingest/url", h.Articles.IngestURL)
			r.Post("/articles/ingest/pdf", h.Articles.IngestPDF)
			r.Post("/articles/summary/url", h.Articles.Summarize)
			r.Post("/articles/translate/url", h.Articles.Translate)
			r.Post("/quiz/generate", h.Quiz.Generate)
			r.Post("/quiz/attempt", h.Quiz.Attempt)

			r.With(middleware.RequireAdmin).Get("/admin/stats", h.Admin.Stats)
		})
	})

	return r
}
