package handlers

import (
	"net/http"

	"github.com/caredispatch/backend/internal/infrastructure/clients/postgres"
)

// HealthHandler reports service liveness and database reachability
type HealthHandler struct {
	db *postgres.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *postgres.Client) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	statusCode := http.StatusOK

	if h.db != nil {
		if err := h.db.DB().PingContext(r.Context()); err != nil {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}
	}

	respondWithJSON(w, statusCode, map[string]string{"status": status})
}
