package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/atinyakov/WikiSmart/internal/models"
)

// Login exchanges credentials for a token and profile. The credentials are
// sent form-encoded and are not retained. A non-2xx response is an *AuthError.
func (c *Client) Login(ctx context.Context, username, password string) (models.AuthenticatedUser, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var out models.AuthenticatedUser
	err := c.do(ctx, call{
		op:          "login",
		method:      http.MethodPost,
		path:        "/auth/login",
		body:        bytes.NewBufferString(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		kind:        kindAuth,
	}, &out)
	return out, err
}

// Register creates an account. A non-2xx response is a *ValidationError.
func (c *Client) Register(ctx context.Context, user models.UserCreate) (models.User, error) {
	var out models.User
	body, err := jsonBody(user)
	if err != nil {
		return out, &ValidationError{RequestError{Op: "register", Err: err}}
	}
	err = c.do(ctx, call{
		op:          "register",
		method:      http.MethodPost,
		path:        "/auth/register",
		body:        body,
		contentType: "application/json",
		kind:        kindValidation,
	}, &out)
	return out, err
}

// IngestArticleFromURL asks the backend to fetch and store a Wikipedia article.
// A non-2xx response is an *IngestionError.
func (c *Client) IngestArticleFromURL(ctx context.Context, articleURL string) (models.Article, error) {
	var out models.Article
	body, err := jsonBody(models.ArticleIngestRequest{URL: articleURL})
	if err != nil {
		return out, &IngestionError{RequestError{Op: "ingest url", Err: err}}
	}
	err = c.do(ctx, call{
		op:          "ingest url",
		method:      http.MethodPost,
		path:        "/articles/ingest/url",
		body:        body,
		contentType: "application/json",
		kind:        kindIngestion,
	}, &out)
	return out, err
}

// IngestArticleFromPDF uploads a PDF as the multipart field "file". A nil
// reader or empty name returns ErrNoFile without issuing a request.
// A non-2xx response is an *IngestionError.
func (c *Client) IngestArticleFromPDF(ctx context.Context, name string, file io.Reader) (models.Article, error) {
	var out models.Article
	if file == nil || name == "" {
		return out, ErrNoFile
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return out, &IngestionError{RequestError{Op: "ingest pdf", Err: err}}
	}
	if _, err := io.Copy(part, file); err != nil {
		return out, &IngestionError{RequestError{Op: "ingest pdf", Err: err}}
	}
	if err := mw.Close(); err != nil {
		return out, &IngestionError{RequestError{Op: "ingest pdf", Err: err}}
	}

	err = c.do(ctx, call{
		op:          "ingest pdf",
		method:      http.MethodPost,
		path:        "/articles/ingest/pdf",
		body:        &buf,
		contentType: mw.FormDataContentType(),
		kind:        kindIngestion,
	}, &out)
	return out, err
}

// SummarizeArticleByURL requests a summary; an empty length means "medium".
func (c *Client) SummarizeArticleByURL(ctx context.Context, articleURL, length string) (models.Summary, error) {
	if length == "" {
		length = models.LengthMedium
	}
	var out models.Summary
	err := c.postJSON(ctx, "summarize", "/articles/summary/url",
		models.SummaryRequest{URL: articleURL, Length: length}, &out)
	return out, err
}

// TranslateArticleByURL requests a translation into targetLanguage (e.g. "FR").
func (c *Client) TranslateArticleByURL(ctx context.Context, articleURL, targetLanguage string) (models.Translation, error) {
	var out models.Translation
	err := c.postJSON(ctx, "translate", "/articles/translate/url",
		models.TranslationRequest{URL: articleURL, TargetLanguage: targetLanguage}, &out)
	return out, err
}

// GenerateQuiz requests a quiz for the article at articleURL.
func (c *Client) GenerateQuiz(ctx context.Context, articleURL string) (models.Quiz, error) {
	var out models.Quiz
	err := c.postJSON(ctx, "generate quiz", "/quiz/generate", models.QuizRequest{URL: articleURL}, &out)
	return out, err
}

// SubmitQuizAttempt forwards the answers as given and returns the backend's score.
func (c *Client) SubmitQuizAttempt(ctx context.Context, attempt models.QuizAttemptCreate) (models.QuizAttemptResult, error) {
	var out models.QuizAttemptResult
	err := c.postJSON(ctx, "submit quiz attempt", "/quiz/attempt", attempt, &out)
	return out, err
}

// GetGlobalStats fetches platform statistics; requires an ADMIN token.
func (c *Client) GetGlobalStats(ctx context.Context) (models.GlobalStats, error) {
	var out models.GlobalStats
	err := c.do(ctx, call{
		op:     "get global stats",
		method: http.MethodGet,
		path:   "/admin/stats",
	}, &out)
	return out, err
}

// HealthCheck pings the backend.
func (c *Client) HealthCheck(ctx context.Context) (models.Health, error) {
	var out models.Health
	err := c.do(ctx, call{
		op:     "health check",
		method: http.MethodGet,
		path:   "/health",
	}, &out)
	return out, err
}

func (c *Client) postJSON(ctx context.Context, op, path string, in, out any) error {
	body, err := jsonBody(in)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	return c.do(ctx, call{
		op:          op,
		method:      http.MethodPost,
		path:        path,
		body:        body,
		contentType: "application/json",
	}, out)
}
