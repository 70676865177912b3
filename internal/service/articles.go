package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/WikiSmart/internal/cache"
	"github.com/atinyakov/WikiSmart/internal/models"
	"github.com/atinyakov/WikiSmart/internal/pdftext"
	"github.com/atinyakov/WikiSmart/internal/wikipedia"
)

// ArticleFetcher downloads a Wikipedia article by URL.
type ArticleFetcher interface {
	Fetch(ctx context.Context, articleURL string) (*wikipedia.Article, error)
}

// Summarizer produces a summary of the given length ("short" or "medium").
type Summarizer interface {
	Summarize(ctx context.Context, content, length string) (string, error)
}

// Translator renders content in another language.
type Translator interface {
	Translate(ctx context.Context, content, targetLanguage string) (string, error)
}

// ArticleRepository records processed articles.
type ArticleRepository interface {
	CreateArticle(ctx context.Context, userID int64, a models.Article) (models.Article, error)
}

// Cache keeps model outputs between requests.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// ArticleDeps wires an ArticleService. Cache may be nil.
type ArticleDeps struct {
	Fetcher    ArticleFetcher
	Summarizer Summarizer
	Translator Translator
	Articles   ArticleRepository
	Cache      Cache
	CacheTTL   time.Duration
	Log        *zap.Logger
}

// ArticleService ingests articles and produces summaries and translations.
type ArticleService struct {
	deps       ArticleDeps
	extractPDF func([]byte) (pdftext.Document, error)
}

func NewArticleService(deps ArticleDeps) *ArticleService {
	if deps.Cache == nil {
		deps.Cache = cache.Nop{}
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &ArticleService{deps: deps, extractPDF: pdftext.Extract}
}

// fetch maps fetcher failures onto service errors.
func fetch(ctx context.Context, f ArticleFetcher, articleURL string) (*wikipedia.Article, error) {
	a, err := f.Fetch(ctx, articleURL)
	switch {
	case err == nil:
		return a, nil
	case errors.Is(err, wikipedia.ErrInvalidURL):
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, wikipedia.ErrNotFound):
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return nil, fmt.Errorf("%w: %w", ErrIngestion, err)
	}
}

func sourceURL(a *wikipedia.Article, requested string) string {
	if a.URL != "" {
		return a.URL
	}
	return requested
}

// IngestURL fetches a Wikipedia article and records it for user.
func (s *ArticleService) IngestURL(ctx context.Context, user models.User, articleURL string) (models.Article, error) {
	a, err := fetch(ctx, s.deps.Fetcher, articleURL)
	if err != nil {
		return models.Article{}, err
	}
	titles := make([]string, 0, len(a.Sections))
	for _, sec := range a.Sections {
		titles = append(titles, sec.Title)
	}
	return s.deps.Articles.CreateArticle(ctx, user.ID, models.Article{
		URL:    sourceURL(a, articleURL),
		Title:  a.Title,
		Action: models.ActionIngestURL,
		Metadata: map[string]any{
			"lang":       a.Lang,
			"sections":   titles,
			"characters": len(a.Text()),
		},
	})
}

// IngestPDF extracts the text of an uploaded PDF and records it for user.
func (s *ArticleService) IngestPDF(ctx context.Context, user models.User, filename string, data []byte) (models.Article, error) {
	if len(data) == 0 {
		return models.Article{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	doc, err := s.extractPDF(data)
	if err != nil {
		return models.Article{}, fmt.Errorf("%w: %w", ErrIngestion, err)
	}
	title := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if title == "" || title == "." {
		title = "Uploaded PDF"
	}
	return s.deps.Articles.CreateArticle(ctx, user.ID, models.Article{
		Title:  title,
		Action: models.ActionIngestPDF,
		Metadata: map[string]any{
			"filename":   filepath.Base(filename),
			"pages":      doc.Pages,
			"characters": len(wikipedia.Clean(doc.Text)),
		},
	})
}

// cachedResult is what the cache keeps for a summary or a translation, so a
// hit needs no trip to Wikipedia.
type cachedResult struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// cached returns the result stored under key or computes and stores it.
// Cache failures are logged and otherwise ignored.
func (s *ArticleService) cached(ctx context.Context, key string, compute func() (cachedResult, error)) (cachedResult, bool, error) {
	raw, ok, err := s.deps.Cache.Get(ctx, key)
	if err != nil {
		s.deps.Log.Warn("cache read failed", zap.Error(err))
	} else if ok {
		var res cachedResult
		if err := json.Unmarshal([]byte(raw), &res); err == nil {
			return res, true, nil
		}
		s.deps.Log.Warn("discarding unreadable cache entry", zap.String("key", key))
	}

	res, err := compute()
	if err != nil {
		return cachedResult{}, false, err
	}
	if b, err := json.Marshal(res); err != nil {
		s.deps.Log.Warn("cache encode failed", zap.Error(err))
	} else if err := s.deps.Cache.Set(ctx, key, string(b), s.deps.CacheTTL); err != nil {
		s.deps.Log.Warn("cache write failed", zap.Error(err))
	}
	return res, false, nil
}

func (s *ArticleService) record(ctx context.Context, user models.User, a models.Article) {
	if _, err := s.deps.Articles.CreateArticle(ctx, user.ID, a); err != nil {
		s.deps.Log.Warn("failed to record article", zap.String("action", a.Action), zap.Error(err))
	}
}

// Summarize summarizes the article at req.URL. An empty length means medium.
// Cached summaries are served without fetching the article.
func (s *ArticleService) Summarize(ctx context.Context, user models.User, req models.SummaryRequest) (models.Summary, error) {
	length := req.Length
	if length == "" {
		length = models.LengthMedium
	}

	res, hit, err := s.cached(ctx, cache.Key(models.ActionSummary, req.URL, length), func() (cachedResult, error) {
		a, err := fetch(ctx, s.deps.Fetcher, req.URL)
		if err != nil {
			return cachedResult{}, err
		}
		out, err := s.deps.Summarizer.Summarize(ctx, a.Text(), length)
		if err != nil {
			return cachedResult{}, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		return cachedResult{URL: sourceURL(a, req.URL), Title: a.Title, Text: out}, nil
	})
	if err != nil {
		return models.Summary{}, err
	}

	s.record(ctx, user, models.Article{
		URL:      res.URL,
		Title:    res.Title,
		Action:   models.ActionSummary,
		Metadata: map[string]any{"length": length, "cached": hit},
	})
	return models.Summary{URL: req.URL, Title: res.Title, Length: length, Summary: res.Text}, nil
}

// Translate translates the article at req.URL into req.TargetLanguage.
// Cached translations are served without fetching the article.
func (s *ArticleService) Translate(ctx context.Context, user models.User, req models.TranslationRequest) (models.Translation, error) {
	lang := strings.TrimSpace(req.TargetLanguage)
	if lang == "" {
		return models.Translation{}, fmt.Errorf("%w: target_language is required", ErrInvalidInput)
	}

	res, hit, err := s.cached(ctx, cache.Key(models.ActionTranslate, req.URL, strings.ToLower(lang)), func() (cachedResult, error) {
		a, err := fetch(ctx, s.deps.Fetcher, req.URL)
		if err != nil {
			return cachedResult{}, err
		}
		out, err := s.deps.Translator.Translate(ctx, a.Text(), lang)
		if err != nil {
			return cachedResult{}, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		return cachedResult{URL: sourceURL(a, req.URL), Title: a.Title, Text: out}, nil
	})
	if err != nil {
		return models.Translation{}, err
	}

	s.record(ctx, user, models.Article{
		URL:      res.URL,
		Title:    res.Title,
		Action:   models.ActionTranslate,
		Metadata: map[string]any{"target_language": lang, "cached": hit},
	})
	return models.Translation{URL: req.URL, Title: res.Title, TargetLanguage: lang, TranslatedText: res.Text}, nil
}
