package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/WikiSmart/internal/models"
)

const summarySystemPrompt = "You are an educational assistant. You write clear, neutral, " +
	"and concise summaries of educational articles for students."

var lengthInstructions = map[string]string{
	models.LengthShort:  "Provide a very short summary (2-3 concise sentences).",
	models.LengthMedium: "Provide a medium-length summary (1 short paragraph).",
}

// Groq summarizes text through Groq's OpenAI-compatible chat completions API.
type Groq struct {
	opts Options
	log  *zap.Logger
}

func NewGroq(opts Options, log *zap.Logger) *Groq {
	if log == nil {
		log = zap.NewNop()
	}
	return &Groq{opts: opts, log: log}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Summarize returns a plain-text summary of content. Unknown lengths fall
// back to medium.
func (g *Groq) Summarize(ctx context.Context, content, length string) (string, error) {
	if g.opts.APIKey == "" {
		return "", fmt.Errorf("groq: %w", ErrNotConfigured)
	}
	instruction, ok := lengthInstructions[length]
	if !ok {
		instruction = lengthInstructions[models.LengthMedium]
	}
	content = Truncate(content, g.opts.MaxInputChar)

	req := chatRequest{
		Model: g.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: summarySystemPrompt},
			{Role: "user", Content: instruction + " Focus only on the core ideas, without bullets, in plain text.\n\nArticle content:\n" + content},
		},
		Temperature: g.opts.Temperature,
		MaxTokens:   g.opts.MaxTokens,
	}
	var resp chatResponse
	headers := map[string]string{"Authorization": "Bearer " + g.opts.APIKey}
	if err := postJSON(ctx, g.opts.client(), strings.TrimRight(g.opts.BaseURL, "/")+"/chat/completions", headers, req, &resp); err != nil {
		return "", fmt.Errorf("groq: %w", err)
	}

	g.log.Debug("groq summary", zap.String("model", g.opts.Model), zap.Int("input_chars", len(content)))
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
