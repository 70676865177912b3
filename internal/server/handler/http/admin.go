package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/WikiSmart/internal/models"
)

// StatsService defines the statistics operation required by AdminHandler.
type StatsService interface {
	GlobalStats(ctx context.Context) (models.GlobalStats, error)
}

// AdminHandler serves /admin. Routes require BearerAuth and RequireAdmin.
type AdminHandler struct {
	StatsService StatsService
	Log          *zap.Logger
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.StatsService.GlobalStats(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Health reports liveness.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.Health{Status: "ok"})
}
