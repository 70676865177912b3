package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/WikiSmart/internal/models"
)

// ErrNoLanguage is returned by Translate without a target language.
var ErrNoLanguage = errors.New("target language is required")

const translateInstruction = "You are a translation assistant for an educational platform. " +
	"Translate the given text into the target language while preserving meaning " +
	"and keeping a neutral, clear tone. Return only the translated text."

const quizInstruction = `You are an educational quiz generator. Given article content, you produce a small quiz for students. You must respond with STRICT JSON that matches this schema exactly:
{
  "multiple_choice": [
    {
      "question": string,
      "options": [string, string, string, string],
      "correct_index": integer between 0 and 3
    }, ...
  ],
  "open_questions": [
    {
      "question": string,
      "answer": string
    }, ...
  ]
}.
Do not include any keys other than these, and do not include explanations.`

// Gemini calls the Gemini generateContent API.
type Gemini struct {
	opts Options
	log  *zap.Logger
}

func NewGemini(opts Options, log *zap.Logger) *Gemini {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gemini{opts: opts, log: log}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents         []geminiContent   `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if g.opts.APIKey == "" {
		return "", fmt.Errorf("gemini: %w", ErrNotConfigured)
	}
	req := generateRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &generationConfig{Temperature: g.opts.Temperature, MaxOutputTokens: maxTokens},
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(g.opts.BaseURL, "/"), g.opts.Model)
	var resp generateResponse
	if err := postJSON(ctx, g.opts.client(), url, map[string]string{"x-goog-api-key": g.opts.APIKey}, req, &resp); err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", nil
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

// Translate renders content in targetLanguage (e.g. "FR", "Spanish").
func (g *Gemini) Translate(ctx context.Context, content, targetLanguage string) (string, error) {
	if content == "" {
		return "", nil
	}
	targetLanguage = strings.TrimSpace(targetLanguage)
	if targetLanguage == "" {
		return "", ErrNoLanguage
	}
	content = Truncate(content, g.opts.MaxInputChar)
	prompt := translateInstruction + "\n\nTarget language: " + targetLanguage + ".\nText to translate:\n" + content

	// Translations run about as long as their input.
	out, err := g.generate(ctx, prompt, 0)
	if err != nil {
		return "", err
	}
	g.log.Debug("gemini translation", zap.String("lang", targetLanguage), zap.Int("input_chars", len(content)))
	return strings.TrimSpace(out), nil
}

// GenerateQuiz asks for a quiz about content. A reply that cannot be parsed
// yields an empty quiz rather than an error.
func (g *Gemini) GenerateQuiz(ctx context.Context, content string) (models.Quiz, error) {
	if content == "" {
		return emptyQuiz(), nil
	}
	content = Truncate(content, g.opts.MaxInputChar)
	raw, err := g.generate(ctx, quizInstruction+"\n\nArticle content:\n"+content, g.opts.MaxTokens)
	if err != nil {
		return models.Quiz{}, err
	}
	q := ParseQuiz(raw)
	g.log.Debug("gemini quiz",
		zap.Int("multiple_choice", len(q.MultipleChoice)),
		zap.Int("open_questions", len(q.OpenQuestions)),
	)
	return q, nil
}

func emptyQuiz() models.Quiz {
	return models.Quiz{
		MultipleChoice: []models.MultipleChoiceQuestion{},
		OpenQuestions:  []models.OpenQuestion{},
	}
}

// ParseQuiz reads a model reply as quiz JSON. Markdown code fences and text
// around the outermost object are tolerated. Questions whose correct index
// does not point at an option are dropped.
func ParseQuiz(raw string) models.Quiz {
	var body struct {
		MultipleChoice []models.MultipleChoiceQuestion `json:"multiple_choice"`
		OpenQuestions  []models.OpenQuestion           `json:"open_questions"`
	}
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		cleaned := strings.ReplaceAll(raw, "```json", "")
		cleaned = strings.ReplaceAll(cleaned, "```JSON", "")
		cleaned = strings.ReplaceAll(cleaned, "```", "")
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start < 0 || end <= start {
			return emptyQuiz()
		}
		body.MultipleChoice, body.OpenQuestions = nil, nil
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &body); err != nil {
			return emptyQuiz()
		}
	}

	q := emptyQuiz()
	for _, mcq := range body.MultipleChoice {
		if mcq.CorrectIndex < 0 || mcq.CorrectIndex >= len(mcq.Options) {
			continue
		}
		q.MultipleChoice = append(q.MultipleChoice, mcq)
	}
	for _, oq := range body.OpenQuestions {
		if oq.Question != "" {
			q.OpenQuestions = append(q.OpenQuestions, oq)
		}
	}
	return q
}
