package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atinyakov/WikiSmart/internal/models"
)

// dummyHandler is a placeholder that records if it was called and the context it received.
type dummyHandler struct {
	called bool
	ctx    context.Context
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	d.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

type fakeAuthenticator struct {
	users map[string]models.User
	got   string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (models.User, error) {
	f.got = token
	u, ok := f.users[token]
	if !ok {
		return models.User{}, errors.New("invalid token")
	}
	return u, nil
}

func TestBearerAuth(t *testing.T) {
	auth := &fakeAuthenticator{users: map[string]models.User{
		"good": {ID: 1, Username: "alice", Role: models.RoleUser},
	}}

	tests := []struct {
		name         string
		header       string
		expectedCode int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"basic scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dummy := &dummyHandler{}
			h := BearerAuth(auth, nil)(dummy)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/quiz/generate", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			h.ServeHTTP(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if tt.expectedCode != http.StatusOK {
				if dummy.called {
					t.Error("did not expect next handler to be called")
				}
				if got := rec.Header().Get("WWW-Authenticate"); got != "Bearer" {
					t.Errorf("expected WWW-Authenticate Bearer, got %q", got)
				}
				var body models.ErrorResponse
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}
				if body.Detail != "Could not validate credentials" {
					t.Errorf("unexpected detail %q", body.Detail)
				}
				return
			}
			user, ok := UserFromContext(dummy.ctx)
			if !ok || user.Username != "alice" {
				t.Errorf("expected alice in context, got %+v (ok=%v)", user, ok)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name         string
		ctx          context.Context
		expectedCode int
	}{
		{"no user", context.Background(), http.StatusForbidden},
		{"regular user", WithUser(context.Background(), models.User{ID: 1, Role: models.RoleUser}), http.StatusForbidden},
		{"admin", WithUser(context.Background(), models.User{ID: 2, Role: models.RoleAdmin}), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dummy := &dummyHandler{}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil).WithContext(tt.ctx)
			RequireAdmin(dummy).ServeHTTP(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if dummy.called != (tt.expectedCode == http.StatusOK) {
				t.Errorf("next called = %v", dummy.called)
			}
			if tt.expectedCode == http.StatusForbidden {
				var body models.ErrorResponse
				_ = json.NewDecoder(rec.Body).Decode(&body)
				if body.Detail != "Not enough permissions" {
					t.Errorf("unexpected detail %q", body.Detail)
				}
			}
		})
	}
}

func TestUserFromContext(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Error("expected no user in empty context")
	}
	u, ok := UserFromContext(WithUser(context.Background(), models.User{Username: "bob"}))
	if !ok || u.Username != "bob" {
		t.Errorf("expected bob, got %+v", u)
	}
}
