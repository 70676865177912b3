package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/WikiSmart/internal/client/api"
	"github.com/atinyakov/WikiSmart/internal/client/form"
	"github.com/atinyakov/WikiSmart/internal/client/prompt"
	"github.com/atinyakov/WikiSmart/internal/client/quiz"
	"github.com/atinyakov/WikiSmart/internal/client/session"
	"github.com/atinyakov/WikiSmart/internal/models"
)

const helpText = `Available commands:
  help                        show this list
  register                    create an account and log in
  login                       log in
  logout                      forget the saved session
  whoami                      show the logged-in user
  health                      check the backend
  ingest-url <url>            ingest a Wikipedia article
  ingest-pdf <path>           ingest a PDF file
  summary <url> [short|medium]
  translate <url> <language>
  quiz <url>                  generate and take a quiz
  stats                       global statistics (admin)
  exit`

// shell is the interactive front end. Each command owns one form.
type shell struct {
	api   *api.Client
	sess  *session.Store
	in    *prompt.Prompter
	out   io.Writer
	log   *zap.Logger
	forms map[string]*form.Form
}

func newShell(c *api.Client, s *session.Store, in *prompt.Prompter, out io.Writer, log *zap.Logger) *shell {
	return &shell{
		api:  c,
		sess: s,
		in:   in,
		out:  out,
		log:  log,
		forms: map[string]*form.Form{
			"login":     form.New("Login failed. Please check your credentials."),
			"register":  form.New("Registration failed. Please try again."),
			"health":    form.New("Backend is unreachable."),
			"ingest":    form.New("Failed to ingest the article."),
			"pdf":       form.New("Failed to ingest the PDF."),
			"summary":   form.New("Failed to summarize the article."),
			"translate": form.New("Failed to translate the article."),
			"quiz":      form.New("Failed to generate quiz. Please try again."),
			"attempt":   form.New("Failed to submit the quiz attempt."),
			"stats":     form.New("Failed to load statistics."),
		},
	}
}

// repl runs the interactive shell loop until exit or end of input.
func (s *shell) repl(ctx context.Context) {
	if u, ok := s.sess.User(); ok {
		fmt.Fprintf(s.out, "Logged in as %s.\n", u.Username)
	}
	for {
		line, err := s.in.Line("wikismart> ")
		if err != nil {
			return
		}
		if line == "exit" || line == "quit" {
			fmt.Fprintln(s.out, "Bye")
			return
		}
		s.exec(ctx, line)
	}
}

// exec runs one command line and reports whether it succeeded.
func (s *shell) exec(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return true
	}
	switch args[0] {
	case "help":
		fmt.Fprintln(s.out, helpText)
		return true
	case "register":
		return s.register(ctx)
	case "login":
		return s.login(ctx)
	case "logout":
		return s.logout()
	case "whoami":
		return s.whoami()
	case "health":
		return s.health(ctx)
	case "ingest-url":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: ingest-url <url>")
			return false
		}
		return s.ingestURL(ctx, args[1])
	case "ingest-pdf":
		return s.ingestPDF(ctx, strings.TrimSpace(strings.TrimPrefix(line, "ingest-pdf")))
	case "summary":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: summary <url> [short|medium]")
			return false
		}
		length := ""
		if len(args) > 2 {
			length = args[2]
		}
		return s.summary(ctx, args[1], length)
	case "translate":
		if len(args) < 3 {
			fmt.Fprintln(s.out, "Usage: translate <url> <language>")
			return false
		}
		return s.translate(ctx, args[1], args[2])
	case "quiz":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: quiz <url>")
			return false
		}
		return s.quiz(ctx, args[1])
	case "stats":
		return s.stats(ctx)
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
		return false
	}
}

// submit runs fn through the named form and prints the form's message on failure.
func (s *shell) submit(ctx context.Context, name string, fn func(ctx context.Context) error) bool {
	f := s.forms[name]
	err := f.Submit(ctx, fn)
	if err == nil {
		return true
	}
	s.log.Debug("command failed", zap.String("form", name), zap.Error(err))
	if errors.Is(err, form.ErrBusy) {
		fmt.Fprintln(s.out, "Please wait, a request is already in progress.")
		return false
	}
	fmt.Fprintln(s.out, "Error:", f.Message())
	return false
}

// startSession stores a login response. Only persistence failures are
// tolerated.
func (s *shell) startSession(res models.AuthenticatedUser) error {
	err := s.sess.Login(res.Token.AccessToken, res.User)
	if errors.Is(err, session.ErrNotPersisted) {
		s.persistWarning(err)
		return nil
	}
	return err
}

func (s *shell) persistWarning(err error) {
	if err != nil {
		s.log.Warn("session kept in memory only", zap.Error(err))
		fmt.Fprintln(s.out, "Warning: the session could not be saved and will be lost on exit.")
	}
}

func (s *shell) login(ctx context.Context) bool {
	username, password, err := s.in.Credentials()
	if err != nil {
		return false
	}
	return s.submit(ctx, "login", func(ctx context.Context) error {
		res, err := s.api.Login(ctx, username, password)
		if err != nil {
			return err
		}
		if err := s.startSession(res); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Welcome, %s.\n", res.User.Username)
		return nil
	})
}

func (s *shell) register(ctx context.Context) bool {
	u, err := s.in.Registration()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false
		}
		s.forms["register"].Fail(err.Error())
		fmt.Fprintln(s.out, "Error:", s.forms["register"].Message())
		return false
	}
	ok := s.submit(ctx, "register", func(ctx context.Context) error {
		_, err := s.api.Register(ctx, u)
		return err
	})
	if !ok {
		return false
	}
	fmt.Fprintf(s.out, "Account %s created.\n", u.Username)
	return s.submit(ctx, "login", func(ctx context.Context) error {
		res, err := s.api.Login(ctx, u.Username, u.Password)
		if err != nil {
			return err
		}
		if err := s.startSession(res); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Welcome, %s.\n", res.User.Username)
		return nil
	})
}

func (s *shell) logout() bool {
	s.persistWarning(s.sess.Logout())
	fmt.Fprintln(s.out, "Logged out.")
	return true
}

func (s *shell) whoami() bool {
	u, ok := s.sess.User()
	if !ok {
		fmt.Fprintln(s.out, "Not logged in.")
		return false
	}
	fmt.Fprintf(s.out, "%s <%s> role=%s id=%d\n", u.Username, u.Email, u.Role, u.ID)
	return true
}

func (s *shell) health(ctx context.Context) bool {
	return s.submit(ctx, "health", func(ctx context.Context) error {
		h, err := s.api.HealthCheck(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Backend status:", h.Status)
		return nil
	})
}

func (s *shell) ingestURL(ctx context.Context, url string) bool {
	return s.submit(ctx, "ingest", func(ctx context.Context) error {
		a, err := s.api.IngestArticleFromURL(ctx, url)
		if err != nil {
			return err
		}
		s.printArticle(a)
		return nil
	})
}

func (s *shell) ingestPDF(ctx context.Context, path string) bool {
	if path == "" {
		fmt.Fprintln(s.out, "Please select a PDF file: ingest-pdf <path>")
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(s.out, "Cannot open %q: %v\n", path, err)
		return false
	}
	defer f.Close()
	return s.submit(ctx, "pdf", func(ctx context.Context) error {
		a, err := s.api.IngestArticleFromPDF(ctx, path, f)
		if err != nil {
			return err
		}
		s.printArticle(a)
		return nil
	})
}

func (s *shell) printArticle(a models.Article) {
	fmt.Fprintf(s.out, "Article #%d: %s\n", a.ID, a.Title)
	if a.URL != "" {
		fmt.Fprintln(s.out, "  url:", a.URL)
	}
	if n, ok := a.Metadata["sections"]; ok {
		fmt.Fprintln(s.out, "  sections:", n)
	}
}

func (s *shell) summary(ctx context.Context, url, length string) bool {
	return s.submit(ctx, "summary", func(ctx context.Context) error {
		res, err := s.api.SummarizeArticleByURL(ctx, url, length)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s (%s)\n\n%s\n", res.Title, res.Length, res.Summary)
		return nil
	})
}

func (s *shell) translate(ctx context.Context, url, lang string) bool {
	return s.submit(ctx, "translate", func(ctx context.Context) error {
		res, err := s.api.TranslateArticleByURL(ctx, url, lang)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s [%s]\n\n%s\n", res.Title, res.TargetLanguage, res.TranslatedText)
		return nil
	})
}

func (s *shell) quiz(ctx context.Context, url string) bool {
	var q models.Quiz
	ok := s.submit(ctx, "quiz", func(ctx context.Context) error {
		var err error
		q, err = s.api.GenerateQuiz(ctx, url)
		return err
	})
	if !ok {
		return false
	}
	if len(q.MultipleChoice) == 0 && len(q.OpenQuestions) == 0 {
		fmt.Fprintln(s.out, "The generated quiz is empty.")
		return true
	}

	attempt := quiz.NewAttempt(q)
	if err := s.in.TakeQuiz(attempt); err != nil {
		return false
	}
	attempt.Reveal()
	s.in.ShowResults(attempt)

	return s.submit(ctx, "attempt", func(ctx context.Context) error {
		res, err := s.api.SubmitQuizAttempt(ctx, attempt.Submission())
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Attempt #%d recorded, score %.0f%%.\n", res.AttemptID, res.Score)
		return nil
	})
}

func (s *shell) stats(ctx context.Context) bool {
	return s.submit(ctx, "stats", func(ctx context.Context) error {
		st, err := s.api.GetGlobalStats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Users:            %d\n", st.TotalUsers)
		fmt.Fprintf(s.out, "Articles:         %d\n", st.TotalArticles)
		fmt.Fprintf(s.out, "Quizzes:          %d\n", st.TotalQuizzesGenerated)
		fmt.Fprintf(s.out, "Downloads:        %d\n", st.TotalDownloads)
		return nil
	})
}
