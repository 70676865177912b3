// Package prompt reads user input for the interactive shell.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/atinyakov/WikiSmart/internal/client/quiz"
	"github.com/atinyakov/WikiSmart/internal/models"
	"github.com/atinyakov/WikiSmart/pkg/validator"
)

// ErrPasswordMismatch is returned when the confirmation differs from the password.
var ErrPasswordMismatch = errors.New("passwords do not match")

// Prompter reads answers line by line from in and writes questions to out.
// When in is a terminal, passwords are read without echo.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	fd     int
	hidden bool
}

func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.hidden = true
	}
	return p
}

// Line prints label and returns the next trimmed line. io.EOF is returned only
// when no input is left.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	s, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || s == "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// Password reads a secret. Surrounding spaces are kept.
func (p *Prompter) Password(label string) (string, error) {
	if !p.hidden {
		fmt.Fprint(p.out, label)
		s, err := p.in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || s == "") {
			return "", err
		}
		return strings.TrimRight(s, "\r\n"), nil
	}
	fmt.Fprint(p.out, label)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// Credentials asks for a username and password.
func (p *Prompter) Credentials() (username, password string, err error) {
	if username, err = p.Line("Username: "); err != nil {
		return "", "", err
	}
	if password, err = p.Password("Password: "); err != nil {
		return "", "", err
	}
	return username, password, nil
}

// Registration asks for the new account fields, checks the confirmation and
// validates the result before anything is sent.
func (p *Prompter) Registration() (models.UserCreate, error) {
	var (
		u   models.UserCreate
		err error
	)
	if u.Username, err = p.Line("Username: "); err != nil {
		return u, err
	}
	if u.Email, err = p.Line("Email: "); err != nil {
		return u, err
	}
	if u.Password, err = p.Password("Password: "); err != nil {
		return u, err
	}
	confirm, err := p.Password("Confirm password: ")
	if err != nil {
		return u, err
	}
	if confirm != u.Password {
		return u, ErrPasswordMismatch
	}
	if err := validator.ValidateStruct(u); err != nil {
		return u, err
	}
	return u, nil
}

// TakeQuiz walks through every question of a. A blank answer skips the
// question. Invalid option numbers are asked again.
func (p *Prompter) TakeQuiz(a *quiz.Attempt) error {
	q := a.Quiz()
	for i, mcq := range q.MultipleChoice {
		fmt.Fprintf(p.out, "\n%d. %s\n", i+1, mcq.Question)
		for j, opt := range mcq.Options {
			fmt.Fprintf(p.out, "   %d) %s\n", j+1, opt)
		}
		for {
			s, err := p.Line("Your choice: ")
			if err != nil {
				return err
			}
			if s == "" {
				break
			}
			n, err := strconv.Atoi(s)
			if err == nil {
				if err = a.Choose(i, n-1); err == nil {
					break
				}
			}
			fmt.Fprintf(p.out, "Enter a number between 1 and %d.\n", len(mcq.Options))
		}
	}
	for i, open := range q.OpenQuestions {
		fmt.Fprintf(p.out, "\nQ%d. %s\n", i+1, open.Question)
		s, err := p.Line("Your answer: ")
		if err != nil {
			return err
		}
		if s == "" {
			continue
		}
		if err := a.Answer(i, s); err != nil {
			return err
		}
	}
	return nil
}

var marks = map[quiz.OptionState]string{
	quiz.Neutral:   " ",
	quiz.Selected:  ">",
	quiz.Correct:   "+",
	quiz.Incorrect: "x",
}

// ShowResults prints every question with its options marked and, after
// reveal, the expected open answers and the local score.
func (p *Prompter) ShowResults(a *quiz.Attempt) {
	q := a.Quiz()
	for i, mcq := range q.MultipleChoice {
		fmt.Fprintf(p.out, "\n%d. %s\n", i+1, mcq.Question)
		for j, opt := range mcq.Options {
			fmt.Fprintf(p.out, " %s %d) %s\n", marks[a.OptionState(i, j)], j+1, opt)
		}
	}
	if !a.Revealed() {
		return
	}
	sub := a.Submission()
	for i, open := range q.OpenQuestions {
		fmt.Fprintf(p.out, "\nQ%d. %s\n", i+1, open.Question)
		fmt.Fprintf(p.out, "   yours:    %s\n", sub.AnswersOpen[i])
		fmt.Fprintf(p.out, "   expected: %s\n", open.Answer)
	}
	s := a.Score()
	fmt.Fprintf(p.out, "\nScore: %d/%d\n", s.Correct, s.Total)
}
