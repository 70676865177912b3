// Package service provides the business logic of the WikiSmart API:
// accounts and tokens, article processing, quizzes and statistics.
// Persistence and external providers are reached through interfaces.
package service

import "errors"

var (
	// ErrInvalidInput is returned when a request fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUserExists is returned when registering a taken username.
	ErrUserExists = errors.New("username already registered")
	// ErrInvalidCredentials is returned by Login on a wrong username or password.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrInvalidToken is returned for missing, expired or forged tokens.
	ErrInvalidToken = errors.New("could not validate credentials")
	// ErrNotFound is returned when an article or quiz does not exist.
	ErrNotFound = errors.New("not found")
	// ErrIngestion is returned when article text cannot be obtained.
	ErrIngestion = errors.New("ingestion failed")
	// ErrUpstream is returned when a language model provider fails.
	ErrUpstream = errors.New("language model unavailable")
)
