package http

import (
	"log/slog"
	"net/http"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
)

type healthResponse struct {
	Status string `json:"status"`
}

type healthHandler struct {
	healthChecker db.HealthChecker
	logger        *slog.Logger
}

func newHealthHandler(healthChecker db.HealthChecker, logger *slog.Logger) *healthHandler {
	return &healthHandler{
		healthChecker: healthChecker,
		logger:        logger,
	}
}

// GetHealth reports 503 when the database cannot be reached.
func (h *healthHandler) GetHealth(w http.ResponseWriter, r *http.Request) error {
	healthy, err := h.healthChecker.IsHealthy(r.Context())
	if err != nil {
		return apperr.DatabaseUnhealthyErr.WrapParent(err)
	}
	if !healthy {
		return apperr.DatabaseUnhealthyErr
	}

	writeJSON(w, r, h.logger, http.StatusOK, healthResponse{Status: "ok"})
	return nil
}
