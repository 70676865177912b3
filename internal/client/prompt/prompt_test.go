package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/WikiSmart/internal/client/quiz"
	"github.com/atinyakov/WikiSmart/internal/models"
)

func TestCredentials(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("  alice \n s3cret pass\n"), &out)

	user, pass, err := p.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
	assert.Equal(t, " s3cret pass", pass)
	assert.Contains(t, out.String(), "Username: ")
	assert.Contains(t, out.String(), "Password: ")
}

func TestCredentials_LastLineWithoutNewline(t *testing.T) {
	p := New(strings.NewReader("alice\npw"), io.Discard)
	user, pass, err := p.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "pw", pass)
}

func TestCredentials_EOF(t *testing.T) {
	p := New(strings.NewReader("alice\n"), io.Discard)
	_, _, err := p.Credentials()
	assert.ErrorIs(t, err, io.EOF)
}

func TestRegistration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"valid", "alice\nalice@example.com\nlongpassword\nlongpassword\n", ""},
		{"mismatch", "alice\nalice@example.com\nlongpassword\nother\n", "passwords do not match"},
		{"bad email", "alice\nnot-an-email\nlongpassword\nlongpassword\n", "email must be a valid email address"},
		{"short password", "alice\nalice@example.com\nshort\nshort\n", "password must be at least 8 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(strings.NewReader(tt.input), io.Discard)
			u, err := p.Registration()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.UserCreate{Username: "alice", Email: "alice@example.com", Password: "longpassword"}, u)
		})
	}
}

func testQuiz() models.Quiz {
	return models.Quiz{
		ArticleID: 7,
		MultipleChoice: []models.MultipleChoiceQuestion{
			{Question: "Pick B", Options: []string{"A", "B"}, CorrectIndex: 1},
			{Question: "Pick A", Options: []string{"A", "B"}, CorrectIndex: 0},
		},
		OpenQuestions: []models.OpenQuestion{{Question: "Why?", Answer: "Because"}},
	}
}

func TestTakeQuiz(t *testing.T) {
	var out bytes.Buffer
	// "9" and "x" are rejected before "2" is accepted; question two is skipped.
	p := New(strings.NewReader("9\nx\n2\n\nno idea\n"), &out)
	a := quiz.NewAttempt(testQuiz())

	require.NoError(t, p.TakeQuiz(a))

	sub := a.Submission()
	assert.Equal(t, map[int]int{0: 1}, sub.AnswersMCQ)
	assert.Equal(t, map[int]string{0: "no idea"}, sub.AnswersOpen)
	assert.Equal(t, 2, strings.Count(out.String(), "Enter a number between 1 and 2."))
}

func TestShowResults(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader(""), &out)
	a := quiz.NewAttempt(testQuiz())
	require.NoError(t, a.Choose(0, 1))
	require.NoError(t, a.Choose(1, 1))
	require.NoError(t, a.Answer(0, "dunno"))
	a.Reveal()

	p.ShowResults(a)

	s := out.String()
	assert.Contains(t, s, " + 2) B")
	assert.Contains(t, s, " x 2) B")
	assert.Contains(t, s, " + 1) A")
	assert.Contains(t, s, "expected: Because")
	assert.Contains(t, s, "Score: 1/2")
}
