package service

import (
	"context"
	"sync"
	"time"

	"github.com/atinyakov/WikiSmart/internal/models"
	"github.com/atinyakov/WikiSmart/internal/repository"
	"github.com/atinyakov/WikiSmart/internal/wikipedia"
)

type mockUserRepo struct {
	CreateUserFunc    func(ctx context.Context, username, email, hash string, role models.Role) (models.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (models.User, string, error)
	GetByIDFunc       func(ctx context.Context, id int64) (models.User, error)
}

func (m *mockUserRepo) CreateUser(ctx context.Context, username, email, hash string, role models.Role) (models.User, error) {
	return m.CreateUserFunc(ctx, username, email, hash, role)
}
func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (models.User, string, error) {
	return m.GetByUsernameFunc(ctx, username)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	return m.GetByIDFunc(ctx, id)
}

type fakeFetcher struct {
	article *wikipedia.Article
	err     error
	calls   int
}

func (f *fakeFetcher) Fetch(_ context.Context, articleURL string) (*wikipedia.Article, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.article, nil
}

type fakeLLM struct {
	summary    string
	translated string
	quiz       models.Quiz
	err        error

	calls      int
	gotContent string
	gotArg     string
}

func (f *fakeLLM) Summarize(_ context.Context, content, length string) (string, error) {
	f.calls++
	f.gotContent, f.gotArg = content, length
	return f.summary, f.err
}

func (f *fakeLLM) Translate(_ context.Context, content, lang string) (string, error) {
	f.calls++
	f.gotContent, f.gotArg = content, lang
	return f.translated, f.err
}

func (f *fakeLLM) GenerateQuiz(_ context.Context, content string) (models.Quiz, error) {
	f.calls++
	f.gotContent = content
	return f.quiz, f.err
}

type fakeArticles struct {
	mu      sync.Mutex
	nextID  int64
	created []models.Article
	owners  []int64
	err     error
}

func (f *fakeArticles) CreateArticle(_ context.Context, userID int64, a models.Article) (models.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Article{}, f.err
	}
	f.nextID++
	a.ID = f.nextID
	f.created = append(f.created, a)
	f.owners = append(f.owners, userID)
	return a, nil
}

type memCache struct {
	data   map[string]string
	getErr error
	sets   int
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (m *memCache) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.sets++
	m.data[key] = value
	return nil
}

type fakeQuizzes struct {
	saved     []models.Quiz
	latest    map[int64]models.Quiz
	latestErr error
	attempts  []float64
	attemptBy []int64
}

func (f *fakeQuizzes) SaveQuiz(_ context.Context, q models.Quiz) (int64, error) {
	f.saved = append(f.saved, q)
	if f.latest == nil {
		f.latest = map[int64]models.Quiz{}
	}
	f.latest[q.ArticleID] = q
	return int64(len(f.saved)), nil
}

func (f *fakeQuizzes) LatestQuiz(_ context.Context, articleID int64) (int64, models.Quiz, error) {
	if f.latestErr != nil {
		return 0, models.Quiz{}, f.latestErr
	}
	q, ok := f.latest[articleID]
	if !ok {
		return 0, models.Quiz{}, repository.ErrNotFound
	}
	return 100 + articleID, q, nil
}

func (f *fakeQuizzes) SaveAttempt(_ context.Context, quizID, userID int64, _ models.QuizAttemptCreate, score float64) (int64, error) {
	f.attempts = append(f.attempts, score)
	f.attemptBy = append(f.attemptBy, userID)
	return int64(len(f.attempts)), nil
}

func sampleArticle() *wikipedia.Article {
	return &wikipedia.Article{
		Title: "Go (programming language)",
		URL:   "https://en.wikipedia.org/wiki/Go_(programming_language)",
		Lang:  "en",
		Sections: []wikipedia.Section{
			{Title: "Introduction", Text: "Go is a language.[1]"},
			{Title: "History", Text: "Designed at Google."},
		},
	}
}
