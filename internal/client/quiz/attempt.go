// Package quiz holds the state of one quiz being taken: selected options,
// typed answers and whether results have been revealed. Nothing here is
// persisted; the backend is the record of submitted attempts.
package quiz

import (
	"errors"
	"fmt"

	"github.com/atinyakov/WikiSmart/internal/models"
)

var (
	// ErrRevealed is returned when answers change after results were shown.
	ErrRevealed = errors.New("quiz results already revealed")
	// ErrOutOfRange is returned for an unknown question or option index.
	ErrOutOfRange = errors.New("index out of range")
)

// OptionState is how an option is displayed.
type OptionState int

const (
	// Neutral is an unselected option, or any option before reveal.
	Neutral OptionState = iota
	// Selected is the chosen option before reveal.
	Selected
	// Correct is the right option once results are revealed.
	Correct
	// Incorrect is a wrong selection once results are revealed.
	Incorrect
)

func (s OptionState) String() string {
	switch s {
	case Selected:
		return "selected"
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "neutral"
	}
}

// Score is the local multiple-choice result.
type Score struct {
	Correct int
	Total   int
}

// Percent matches the backend's scoring: 100 * correct / total, 0 without questions.
func (s Score) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 * float64(s.Correct) / float64(s.Total)
}

// Attempt is one pass through a quiz.
type Attempt struct {
	quiz     models.Quiz
	choices  map[int]int
	answers  map[int]string
	revealed bool
}

// NewAttempt starts an attempt at q with nothing answered.
func NewAttempt(q models.Quiz) *Attempt {
	return &Attempt{
		quiz:    q,
		choices: make(map[int]int),
		answers: make(map[int]string),
	}
}

// Quiz returns the quiz being taken.
func (a *Attempt) Quiz() models.Quiz { return a.quiz }

// Choose selects option for multiple-choice question q, replacing any
// previous selection.
func (a *Attempt) Choose(q, option int) error {
	if a.revealed {
		return ErrRevealed
	}
	if q < 0 || q >= len(a.quiz.MultipleChoice) {
		return fmt.Errorf("question %d: %w", q, ErrOutOfRange)
	}
	if option < 0 || option >= len(a.quiz.MultipleChoice[q].Options) {
		return fmt.Errorf("question %d option %d: %w", q, option, ErrOutOfRange)
	}
	a.choices[q] = option
	return nil
}

// Answer records the typed answer to open question q.
func (a *Attempt) Answer(q int, text string) error {
	if a.revealed {
		return ErrRevealed
	}
	if q < 0 || q >= len(a.quiz.OpenQuestions) {
		return fmt.Errorf("open question %d: %w", q, ErrOutOfRange)
	}
	a.answers[q] = text
	return nil
}

// Choice returns the selected option for question q.
func (a *Attempt) Choice(q int) (int, bool) {
	o, ok := a.choices[q]
	return o, ok
}

// Reveal shows the results. Choices and answers are locked afterwards.
func (a *Attempt) Reveal() { a.revealed = true }

// Revealed reports whether Reveal was called.
func (a *Attempt) Revealed() bool { return a.revealed }

// OptionState reports how option o of question q should be shown. Before
// reveal only the selection is visible. After reveal the right option is
// Correct and a wrong selection is Incorrect.
func (a *Attempt) OptionState(q, o int) OptionState {
	if q < 0 || q >= len(a.quiz.MultipleChoice) {
		return Neutral
	}
	chosen, ok := a.choices[q]
	selected := ok && chosen == o
	if !a.revealed {
		if selected {
			return Selected
		}
		return Neutral
	}
	switch {
	case o == a.quiz.MultipleChoice[q].CorrectIndex:
		return Correct
	case selected:
		return Incorrect
	default:
		return Neutral
	}
}

// Score counts correctly answered multiple-choice questions. Unanswered
// questions count against the total.
func (a *Attempt) Score() Score {
	s := Score{Total: len(a.quiz.MultipleChoice)}
	for q, mcq := range a.quiz.MultipleChoice {
		if o, ok := a.choices[q]; ok && o == mcq.CorrectIndex {
			s.Correct++
		}
	}
	return s
}

// Submission builds the attempt body sent to the backend.
func (a *Attempt) Submission() models.QuizAttemptCreate {
	mcq := make(map[int]int, len(a.choices))
	for q, o := range a.choices {
		mcq[q] = o
	}
	open := make(map[int]string, len(a.answers))
	for q, text := range a.answers {
		open[q] = text
	}
	return models.QuizAttemptCreate{
		ArticleID:   a.quiz.ArticleID,
		AnswersMCQ:  mcq,
		AnswersOpen: open,
	}
}
