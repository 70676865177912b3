// Package form runs one user-triggered submission at a time and keeps the
// state a form shows: whether a request is outstanding and the last error.
package form

import (
	"context"
	"errors"
	"sync"

	"github.com/atinyakov/WikiSmart/internal/client/api"
)

// ErrBusy is returned by Submit while a previous submission of the same form
// is still in flight.
var ErrBusy = errors.New("a submission is already in progress")

// Form is the state of one form instance. Different forms are independent.
type Form struct {
	fallback string

	mu      sync.Mutex
	loading bool
	message string
}

// New returns a form that shows fallback when a failure carries no
// backend-supplied detail.
func New(fallback string) *Form {
	return &Form{fallback: fallback}
}

// Submit runs fn unless the form is already loading. Loading is reset when fn
// returns, whatever the outcome, and Message is updated from fn's error.
// fn's error is returned unchanged.
func (f *Form) Submit(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return ErrBusy
	}
	f.loading = true
	f.message = ""
	f.mu.Unlock()

	var err error
	defer func() {
		f.mu.Lock()
		f.loading = false
		f.message = api.Message(err, f.fallback)
		f.mu.Unlock()
	}()

	err = fn(ctx)
	return err
}

// Fail records a client-side validation message without issuing a request.
func (f *Form) Fail(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.message = message
}

// Loading reports whether a submission is in flight.
func (f *Form) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Message returns the error to display, or "" after a successful submission.
func (f *Form) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}
