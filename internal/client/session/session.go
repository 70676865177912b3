// Package session holds the authenticated user's token and profile, persists
// them across restarts, and keeps the API client's bearer token in step.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/WikiSmart/internal/models"
)

// Storage keys.
const (
	tokenKey = "token"
	userKey  = "user"
)

// ErrNotPersisted is wrapped by Login and Logout errors when the in-memory
// session changed but durable storage could not be updated.
var ErrNotPersisted = errors.New("session not persisted")

// ErrEmptyToken is returned by Login when no token was issued.
var ErrEmptyToken = errors.New("empty session token")

// TokenSink receives the bearer token for outgoing requests.
// *api.Credentials implements it.
type TokenSink interface {
	SetToken(token string)
	ClearToken()
}

// Store is the session: a token and the user it belongs to, both present or
// both absent.
type Store struct {
	// persistMu serializes Login and Logout so storage ends in the same
	// state as memory. mu only guards the fields below.
	persistMu sync.Mutex

	mu      sync.RWMutex
	token   string
	user    *models.User
	backend Backend
	sink    TokenSink
	log     *zap.Logger
}

// Open rehydrates the session from backend. When a complete session is found,
// sink receives its token before Open returns, so no request can go out
// unauthenticated. A partial or unreadable session is discarded.
func Open(backend Backend, sink TokenSink, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{backend: backend, sink: sink, log: log}

	token, hasToken, err := backend.Get(tokenKey)
	if err != nil {
		return nil, fmt.Errorf("read session token: %w", err)
	}
	rawUser, hasUser, err := backend.Get(userKey)
	if err != nil {
		return nil, fmt.Errorf("read session user: %w", err)
	}
	if !hasToken && !hasUser {
		return s, nil
	}

	var user models.User
	valid := hasToken && hasUser && token != "" && json.Unmarshal([]byte(rawUser), &user) == nil
	if !valid {
		log.Warn("discarding incomplete stored session",
			zap.Bool("token", hasToken), zap.Bool("user", hasUser))
		if err := s.removePersisted(); err != nil {
			log.Warn("failed to clear stored session", zap.Error(err))
		}
		return s, nil
	}

	s.token = token
	s.user = &user
	sink.SetToken(token)
	log.Debug("session restored", zap.String("username", user.Username))
	return s, nil
}

// Login makes token and user the current session and points the sink at
// token. Persistence failures leave the session in memory only and are
// returned wrapped in ErrNotPersisted.
// An empty token is rejected with ErrEmptyToken and changes nothing.
func (s *Store) Login(token string, user models.User) error {
	if token == "" {
		return ErrEmptyToken
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	s.token = token
	u := user
	s.user = &u
	s.sink.SetToken(token)
	s.mu.Unlock()

	if err := s.backend.Set(tokenKey, token); err != nil {
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	if err := s.backend.Set(userKey, string(raw)); err != nil {
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

// Logout clears the session, the sink and the persisted entries. It is
// idempotent.
func (s *Store) Logout() error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.sink.ClearToken()
	s.mu.Unlock()

	if err := s.removePersisted(); err != nil {
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the current token, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current user and whether one is logged in.
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Session returns token and user as one consistent read; user is nil when
// logged out.
func (s *Store) Session() (string, *models.User) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return s.token, nil
	}
	u := *s.user
	return s.token, &u
}

func (s *Store) removePersisted() error {
	return errors.Join(s.backend.Remove(tokenKey), s.backend.Remove(userKey))
}
