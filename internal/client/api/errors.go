package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoFile is returned by IngestArticleFromPDF when no file was supplied.
// No request is issued in that case.
var ErrNoFile = errors.New("no file selected")

// RequestError is a failed API call: either a non-2xx response, in which case
// StatusCode and Detail are set, or a transport failure with StatusCode 0.
type RequestError struct {
	// Op names the gateway operation, e.g. "login".
	Op string
	// StatusCode is the HTTP status, or 0 if no response was received.
	StatusCode int
	// Detail is the backend-supplied "detail" message, if any.
	Detail string
	// Err is the underlying transport error, if any.
	Err error
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s: %d %s: %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
	default:
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// AuthError is a rejected login (invalid credentials).
type AuthError struct{ RequestError }

// ValidationError is a rejected registration (duplicate username, weak password...).
type ValidationError struct{ RequestError }

// IngestionError is a failed ingestion (unreachable URL, unparsable PDF...).
type IngestionError struct{ RequestError }

// Detail returns the backend-supplied detail message carried by err, or "".
func Detail(err error) string {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Detail
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Detail
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Detail
	}
	var ie *IngestionError
	if errors.As(err, &ie) {
		return ie.Detail
	}
	return ""
}

// Message picks what to show the user for err: the backend detail when present,
// fallback otherwise. A nil err yields "".
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if d := Detail(err); d != "" {
		return d
	}
	return fallback
}

// errorKind decides which typed error a non-2xx response of an operation becomes.
type errorKind int

const (
	kindRequest errorKind = iota
	kindAuth
	kindValidation
	kindIngestion
)

func (k errorKind) wrap(re RequestError) error {
	switch k {
	case kindAuth:
		return &AuthError{re}
	case kindValidation:
		return &ValidationError{re}
	case kindIngestion:
		return &IngestionError{re}
	default:
		return &re
	}
}

// parseDetail extracts the "detail" field of an error body. The field is either
// a string or, for request validation failures, a list of objects with a "msg".
func parseDetail(body []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(env.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
