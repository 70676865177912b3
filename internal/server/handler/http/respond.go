package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/WikiSmart/internal/models"
	"github.com/atinyakov/WikiSmart/internal/service"
	"github.com/atinyakov/WikiSmart/pkg/validator"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, models.ErrorResponse{Detail: detail})
}

// decodeJSON reads and validates the request body into v.
// On failure it writes a 422 response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return false
	}
	if err := validator.ValidateStruct(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}

// writeError maps service errors onto status codes. Unknown errors are
// logged and reported as 500 without details.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch {
	case errors.Is(err, service.ErrUserExists):
		writeDetail(w, http.StatusBadRequest, "Username already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
	case errors.Is(err, service.ErrInvalidToken):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrIngestion):
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeDetail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUpstream):
		log.Warn("upstream failure", zap.Error(err))
		writeDetail(w, http.StatusBadGateway, service.ErrUpstream.Error())
	default:
		log.Error("request failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}
