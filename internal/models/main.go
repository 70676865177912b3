// Package models defines the wire structures exchanged between the
// WikiSmart client and the API: users, tokens, articles, quizzes and stats.
package models

// Role is the authorization level of a user.
type Role string

const (
	// RoleUser is the default role assigned on registration.
	RoleUser Role = "USER"
	// RoleAdmin may read global platform statistics.
	RoleAdmin Role = "ADMIN"
)

// User is the public profile of an account.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// Email is the contact address given at registration.
	Email string `json:"email"`
	// Role is USER or ADMIN.
	Role Role `json:"role"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserCreate is the registration payload.
// Passwords are capped at 72 bytes, the bcrypt input limit.
type UserCreate struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Token is a bearer access token as issued by /auth/login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthenticatedUser is the login response: the profile and its token.
type AuthenticatedUser struct {
	User  User  `json:"user"`
	Token Token `json:"token"`
}

// ErrorResponse is the error body returned by the API on any non-2xx status.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Health is the /health response.
type Health struct {
	Status string `json:"status"`
}
