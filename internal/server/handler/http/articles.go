package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/WikiSmart/internal/middleware"
	"github.com/atinyakov/WikiSmart/internal/models"
)

// MaxUploadSize bounds PDF uploads.
const MaxUploadSize = 32 << 20

// ArticleService defines the article operations required by ArticleHandler.
type ArticleService interface {
	IngestURL(ctx context.Context, user models.User, articleURL string) (models.Article, error)
	IngestPDF(ctx context.Context, user models.User, filename string, data []byte) (models.Article, error)
	Summarize(ctx context.Context, user models.User, req models.SummaryRequest) (models.Summary, error)
	Translate(ctx context.Context, user models.User, req models.TranslationRequest) (models.Translation, error)
}

// ArticleHandler serves /articles. All routes require BearerAuth.
type ArticleHandler struct {
	ArticleService ArticleService
	Log            *zap.Logger
}

func (h *ArticleHandler) IngestURL(w http.ResponseWriter, r *http.Request) {
	var req models.ArticleIngestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	a, err := h.ArticleService.IngestURL(r.Context(), user, req.URL)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// IngestPDF expects a multipart form with the PDF in the "file" field.
func (h *ArticleHandler) IngestPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeDetail(w, http.StatusUnprocessableEntity, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "could not read file")
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	a, err := h.ArticleService.IngestPDF(r.Context(), user, header.Filename, data)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *ArticleHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req models.SummaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	s, err := h.ArticleService.Summarize(r.Context(), user, req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *ArticleHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req models.TranslationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	t, err := h.ArticleService.Translate(r.Context(), user, req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
