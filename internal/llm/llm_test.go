package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/WikiSmart/internal/models"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "éé", Truncate("ééé", 2))
	assert.Equal(t, "abc", Truncate("abc", 0))
}

func TestGroqSummarize(t *testing.T) {
	var got chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gk", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  A short summary. \n"}}]}`))
	}))
	defer ts.Close()

	g := NewGroq(Options{APIKey: "gk", Model: "llama", BaseURL: ts.URL + "/openai/v1/", MaxInputChar: 5, MaxTokens: 100, Temperature: 0.3, HTTPClient: ts.Client()}, nil)
	out, err := g.Summarize(context.Background(), "0123456789", models.LengthShort)
	require.NoError(t, err)

	assert.Equal(t, "A short summary.", out)
	assert.Equal(t, "llama", got.Model)
	assert.Equal(t, 100, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.True(t, strings.HasPrefix(got.Messages[1].Content, "Provide a very short summary"))
	assert.True(t, strings.HasSuffix(got.Messages[1].Content, "Article content:\n01234"))
}

func TestGroqSummarize_UnknownLengthIsMedium(t *testing.T) {
	var got chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	g := NewGroq(Options{APIKey: "gk", BaseURL: ts.URL, HTTPClient: ts.Client()}, nil)
	out, err := g.Summarize(context.Background(), "text", "long")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, got.Messages[1].Content, "medium-length summary")
}

func TestGroqSummarize_Errors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate_limit_exceeded"}}`))
	}))
	defer ts.Close()

	_, err := NewGroq(Options{BaseURL: ts.URL}, nil).Summarize(context.Background(), "x", "")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewGroq(Options{APIKey: "k", BaseURL: ts.URL, HTTPClient: ts.Client()}, nil).Summarize(context.Background(), "x", "")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate_limit_exceeded")
}

func geminiServer(t *testing.T, reply string, gotPrompt *string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "gem", r.Header.Get("x-goog-api-key"))
		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			*gotPrompt = req.Contents[0].Parts[0].Text
		}
		resp := map[string]any{"candidates": []any{map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": reply}}}}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestGeminiTranslate(t *testing.T) {
	var prompt string
	ts := geminiServer(t, " Bonjour le monde \n", &prompt)
	g := NewGemini(Options{APIKey: "gem", Model: "gemini-test", BaseURL: ts.URL + "/v1beta", MaxInputChar: 100, HTTPClient: ts.Client()}, nil)

	out, err := g.Translate(context.Background(), "Hello world", " FR ")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour le monde", out)
	assert.Contains(t, prompt, "Target language: FR.\nText to translate:\nHello world")

	out, err = g.Translate(context.Background(), "", "FR")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = g.Translate(context.Background(), "Hello", "  ")
	assert.ErrorIs(t, err, ErrNoLanguage)
}

func TestGeminiGenerateQuiz(t *testing.T) {
	var prompt string
	reply := "```json\n{\"multiple_choice\":[{\"question\":\"Q\",\"options\":[\"a\",\"b\",\"c\",\"d\"],\"correct_index\":2}],\"open_questions\":[{\"question\":\"O\",\"answer\":\"A\"}]}\n```"
	ts := geminiServer(t, reply, &prompt)
	g := NewGemini(Options{APIKey: "gem", Model: "gemini-test", BaseURL: ts.URL + "/v1beta", HTTPClient: ts.Client()}, nil)

	q, err := g.GenerateQuiz(context.Background(), "Article text")
	require.NoError(t, err)
	require.Len(t, q.MultipleChoice, 1)
	assert.Equal(t, 2, q.MultipleChoice[0].CorrectIndex)
	assert.Equal(t, []models.OpenQuestion{{Question: "O", Answer: "A"}}, q.OpenQuestions)
	assert.Contains(t, prompt, "STRICT JSON")
	assert.True(t, strings.HasSuffix(prompt, "Article content:\nArticle text"))
}

func TestGeminiGenerateQuiz_EmptyContentSkipsCall(t *testing.T) {
	g := NewGemini(Options{}, nil)
	q, err := g.GenerateQuiz(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, q.MultipleChoice)
	assert.Empty(t, q.MultipleChoice)
	assert.Empty(t, q.OpenQuestions)
}

func TestParseQuiz(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantMCQ  int
		wantOpen int
	}{
		{"plain json", `{"multiple_choice":[{"question":"Q","options":["a","b"],"correct_index":0}],"open_questions":[]}`, 1, 0},
		{"surrounding prose", "Here you go:\n{\"multiple_choice\":[],\"open_questions\":[{\"question\":\"O\",\"answer\":\"A\"}]}\nEnjoy!", 0, 1},
		{"fenced", "```\n{\"open_questions\":[{\"question\":\"O\",\"answer\":\"A\"}]}\n```", 0, 1},
		{"out of range index dropped", `{"multiple_choice":[{"question":"Q","options":["a"],"correct_index":3},{"question":"R","options":["a","b"],"correct_index":1}]}`, 1, 0},
		{"garbage", "I cannot help with that.", 0, 0},
		{"broken object", "{not json}", 0, 0},
		{"array", `[1,2,3]`, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ParseQuiz(tt.raw)
			assert.Len(t, q.MultipleChoice, tt.wantMCQ)
			assert.Len(t, q.OpenQuestions, tt.wantOpen)
			assert.NotNil(t, q.MultipleChoice)
			assert.NotNil(t, q.OpenQuestions)
		})
	}
}
