package form

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/WikiSmart/internal/client/api"
)

const loginFallback = "Login failed. Please check your credentials."

func loginBackend(t *testing.T, status int, body string) *api.Client {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return api.New(ts.URL+"/api/v1", nil)
}

func TestSubmit_LoginFailureShowsDetail(t *testing.T) {
	c := loginBackend(t, http.StatusUnauthorized, `{"detail":"Incorrect username or password"}`)
	f := New(loginFallback)

	err := f.Submit(context.Background(), func(ctx context.Context) error {
		assert.True(t, f.Loading())
		_, err := c.Login(ctx, "alice", "nope")
		return err
	})
	require.Error(t, err)
	assert.False(t, f.Loading())
	assert.Equal(t, "Incorrect username or password", f.Message())
}

func TestSubmit_LoginFailureFallsBack(t *testing.T) {
	c := loginBackend(t, http.StatusInternalServerError, `oops`)
	f := New(loginFallback)

	err := f.Submit(context.Background(), func(ctx context.Context) error {
		_, err := c.Login(ctx, "alice", "nope")
		return err
	})
	require.Error(t, err)
	assert.False(t, f.Loading())
	assert.Equal(t, loginFallback, f.Message())
}

func TestSubmit_SuccessClearsMessage(t *testing.T) {
	c := loginBackend(t, http.StatusOK, `{"user":{"id":1,"username":"alice","email":"a@b.io","role":"USER"},"token":{"access_token":"t","token_type":"bearer"}}`)
	f := New(loginFallback)
	f.Fail("Passwords do not match.")
	assert.Equal(t, "Passwords do not match.", f.Message())

	err := f.Submit(context.Background(), func(ctx context.Context) error {
		res, err := c.Login(ctx, "alice", "right")
		if err == nil {
			assert.Equal(t, "t", res.Token.AccessToken)
		}
		return err
	})
	require.NoError(t, err)
	assert.False(t, f.Loading())
	assert.Empty(t, f.Message())
}

func TestSubmit_RejectsWhileLoading(t *testing.T) {
	f := New("failed")
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- f.Submit(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	called := false
	err := f.Submit(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrBusy)
	assert.False(t, called)
	assert.True(t, f.Loading())

	close(release)
	require.NoError(t, <-done)
	assert.False(t, f.Loading())
}

func TestSubmit_ResetsLoadingOnPanic(t *testing.T) {
	f := New("failed")
	assert.Panics(t, func() {
		_ = f.Submit(context.Background(), func(context.Context) error {
			panic("boom")
		})
	})
	assert.False(t, f.Loading())
}

func TestSubmit_PlainErrorUsesFallback(t *testing.T) {
	f := New("Something went wrong")
	err := f.Submit(context.Background(), func(context.Context) error {
		return errors.New("local failure")
	})
	require.Error(t, err)
	assert.Equal(t, "Something went wrong", f.Message())
}
