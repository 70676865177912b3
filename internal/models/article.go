package models

import "time"

// Article actions recorded by the API.
const (
	ActionIngestURL = "ingest_url"
	ActionIngestPDF = "ingest_pdf"
	ActionSummary   = "summary"
	ActionTranslate = "translate"
	ActionQuiz      = "quiz"
)

// Summary lengths accepted by /articles/summary/url.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
)

// ArticleIngestRequest asks the API to ingest a Wikipedia article by URL.
type ArticleIngestRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// Article is an ingested article record.
type Article struct {
	ID        int64          `json:"id"`
	URL       string         `json:"url"`
	Title     string         `json:"title"`
	Action    string         `json:"action"`
	CreatedAt *time.Time     `json:"createdat,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// SummaryRequest asks for a summary of a Wikipedia article.
type SummaryRequest struct {
	URL    string `json:"url" validate:"required,url"`
	Length string `json:"length" validate:"omitempty,oneof=short medium"`
}

// Summary is the /articles/summary/url response.
type Summary struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Length  string `json:"length"`
	Summary string `json:"summary"`
}

// TranslationRequest asks for a translation of a Wikipedia article.
// TargetLanguage is a short code such as FR, EN, AR or ES.
type TranslationRequest struct {
	URL            string `json:"url" validate:"required,url"`
	TargetLanguage string `json:"target_language" validate:"required,max=16"`
}

// Translation is the /articles/translate/url response.
type Translation struct {
	URL            string `json:"url"`
	Title          string `json:"title"`
	TargetLanguage string `json:"target_language"`
	TranslatedText string `json:"translated_text"`
}
