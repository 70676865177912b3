// Package wikipedia fetches article text through the MediaWiki action API
// and prepares it for language models.
package wikipedia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrInvalidURL is returned for URLs that do not name an article.
	ErrInvalidURL = errors.New("invalid Wikipedia URL")
	// ErrNotFound is returned when the article does not exist.
	ErrNotFound = errors.New("article not found")
)

// IntroductionSection holds the text before the first heading.
const IntroductionSection = "Introduction"

// Section is one headed part of an article.
type Section struct {
	Title string
	Text  string
}

// Article is the plain-text content of a page.
type Article struct {
	Title    string
	URL      string
	Lang     string
	Sections []Section
}

// Text joins the non-empty sections and cleans the result.
func (a *Article) Text() string {
	parts := make([]string, 0, len(a.Sections))
	for _, s := range a.Sections {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return Clean(strings.Join(parts, "\n\n"))
}

// Client talks to a MediaWiki API endpoint. The endpoint may contain
// "{lang}", replaced by the language taken from the article URL.
type Client struct {
	endpoint  string
	userAgent string
	http      *http.Client
	log       *zap.Logger
}

func NewClient(endpoint, userAgent string, hc *http.Client, log *zap.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{endpoint: endpoint, userAgent: userAgent, http: hc, log: log}
}

type queryResponse struct {
	Query struct {
		Pages []struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
			FullURL string `json:"fullurl"`
			Missing bool   `json:"missing"`
			Invalid bool   `json:"invalid"`
		} `json:"pages"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// Fetch downloads the article named by articleURL and splits it into sections.
func (c *Client) Fetch(ctx context.Context, articleURL string) (*Article, error) {
	title, lang, err := TitleFromURL(articleURL)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("formatversion", "2")
	q.Set("prop", "extracts|info")
	q.Set("inprop", "url")
	q.Set("explaintext", "1")
	q.Set("redirects", "1")
	q.Set("titles", title)

	endpoint := strings.ReplaceAll(c.endpoint, "{lang}", lang)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", title, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("fetch %q: status %d: %s", title, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if qr.Error != nil {
		return nil, fmt.Errorf("mediawiki: %s: %s", qr.Error.Code, qr.Error.Info)
	}
	if len(qr.Query.Pages) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, title)
	}
	page := qr.Query.Pages[0]
	if page.Missing || page.Invalid {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, title)
	}

	c.log.Debug("fetched article",
		zap.String("title", page.Title),
		zap.String("lang", lang),
		zap.Int("chars", len(page.Extract)),
	)

	return &Article{
		Title:    page.Title,
		URL:      page.FullURL,
		Lang:     lang,
		Sections: SplitSections(page.Extract),
	}, nil
}

// TitleFromURL extracts the page title and language from an article URL such
// as https://fr.wikipedia.org/wiki/Tour_Eiffel. The language defaults to "en"
// for hosts that are not language subdomains of wikipedia.org.
func TitleFromURL(raw string) (title, lang string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	path := strings.TrimRight(u.Path, "/")
	slug := path[strings.LastIndex(path, "/")+1:]
	if slug == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	title = strings.TrimSpace(strings.ReplaceAll(slug, "_", " "))
	if title == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	lang = "en"
	host := strings.ToLower(u.Hostname())
	if sub, ok := strings.CutSuffix(host, ".wikipedia.org"); ok {
		sub = strings.TrimSuffix(sub, ".m")
		if sub != "" && sub != "www" && !strings.Contains(sub, ".") {
			lang = sub
		}
	}
	return title, lang, nil
}

// SplitSections splits a plain-text extract on "== Heading ==" lines. Text
// before the first heading goes to the Introduction section. Blank lines are
// dropped and each line is trimmed.
func SplitSections(content string) []Section {
	sections := []Section{{Title: IntroductionSection}}
	var lines []string
	flush := func() {
		sections[len(sections)-1].Text = strings.Join(lines, "\n")
		lines = lines[:0]
	}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 4 && strings.HasPrefix(line, "==") && strings.HasSuffix(line, "==") {
			flush()
			sections = append(sections, Section{Title: strings.TrimSpace(strings.Trim(line, "="))})
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	flush()
	return sections
}

var (
	referenceMarker = regexp.MustCompile(`\[\d+\]`)
	whitespace      = regexp.MustCompile(`\s+`)
)

// Clean removes numeric reference markers like [12] and collapses whitespace.
func Clean(text string) string {
	text = referenceMarker.ReplaceAllString(text, "")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
