// Package http provides the HTTP handlers and routing of the WikiSmart API.
package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/WikiSmart/internal/models"
)

// AuthService defines the authentication operations required by AuthHandler.
type AuthService interface {
	// Register creates a USER account.
	Register(ctx context.Context, in models.UserCreate) (models.User, error)
	// Login checks the password and issues an access token.
	Login(ctx context.Context, username, password string) (models.AuthenticatedUser, error)
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	AuthService AuthService
	Log         *zap.Logger
}

// Register handles POST /auth/register with a JSON UserCreate body.
// It answers 201 with the created user, 422 when the body is invalid and
// 400 when the username is taken.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreate
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.AuthService.Register(r.Context(), req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login with an OAuth2 password form
// (username, password).
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid form body")
		return
	}
	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")
	if username == "" || password == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}
	out, err := h.AuthService.Login(r.Context(), username, password)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
