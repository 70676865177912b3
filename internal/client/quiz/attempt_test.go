package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/WikiSmart/internal/models"
)

func sampleQuiz() models.Quiz {
	return models.Quiz{
		ArticleID: 42,
		MultipleChoice: []models.MultipleChoiceQuestion{
			{Question: "Capital of France?", Options: []string{"Paris", "Lyon", "Nice"}, CorrectIndex: 0},
			{Question: "2+2?", Options: []string{"3", "4"}, CorrectIndex: 1},
		},
		OpenQuestions: []models.OpenQuestion{
			{Question: "Who wrote Candide?", Answer: "Voltaire"},
		},
	}
}

func TestAttempt_ScoreAndSubmission(t *testing.T) {
	a := NewAttempt(sampleQuiz())
	require.NoError(t, a.Choose(0, 1))
	require.NoError(t, a.Choose(1, 0))
	require.NoError(t, a.Choose(0, 0)) // changed mind
	require.NoError(t, a.Answer(0, "Voltaire"))

	assert.Equal(t, Score{Correct: 1, Total: 2}, a.Score())
	assert.InDelta(t, 50.0, a.Score().Percent(), 1e-9)

	sub := a.Submission()
	assert.Equal(t, int64(42), sub.ArticleID)
	assert.Equal(t, map[int]int{0: 0, 1: 0}, sub.AnswersMCQ)
	assert.Equal(t, map[int]string{0: "Voltaire"}, sub.AnswersOpen)
}

func TestAttempt_OutOfRange(t *testing.T) {
	a := NewAttempt(sampleQuiz())

	assert.ErrorIs(t, a.Choose(2, 0), ErrOutOfRange)
	assert.ErrorIs(t, a.Choose(-1, 0), ErrOutOfRange)
	assert.ErrorIs(t, a.Choose(1, 2), ErrOutOfRange)
	assert.ErrorIs(t, a.Answer(1, "x"), ErrOutOfRange)
	assert.Empty(t, a.Submission().AnswersMCQ)
}

func TestAttempt_LockedAfterReveal(t *testing.T) {
	a := NewAttempt(sampleQuiz())
	require.NoError(t, a.Choose(1, 0))
	a.Reveal()
	assert.True(t, a.Revealed())

	assert.ErrorIs(t, a.Choose(1, 1), ErrRevealed)
	assert.ErrorIs(t, a.Answer(0, "late"), ErrRevealed)
	o, ok := a.Choice(1)
	assert.True(t, ok)
	assert.Equal(t, 0, o)
}

func TestAttempt_OptionState(t *testing.T) {
	a := NewAttempt(sampleQuiz())
	require.NoError(t, a.Choose(1, 0))

	assert.Equal(t, Selected, a.OptionState(1, 0))
	assert.Equal(t, Neutral, a.OptionState(1, 1))
	assert.Equal(t, Neutral, a.OptionState(0, 0))

	a.Reveal()
	tests := []struct {
		q, o int
		want OptionState
	}{
		{1, 0, Incorrect},
		{1, 1, Correct},
		{0, 0, Correct},
		{0, 1, Neutral},
		{5, 0, Neutral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.OptionState(tt.q, tt.o), "q=%d o=%d", tt.q, tt.o)
	}
}

func TestScore_NoQuestions(t *testing.T) {
	a := NewAttempt(models.Quiz{ArticleID: 1})
	assert.Equal(t, Score{}, a.Score())
	assert.Zero(t, a.Score().Percent())
}
