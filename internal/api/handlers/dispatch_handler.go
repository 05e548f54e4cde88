package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/caredispatch/backend/internal/api/middleware"
	"github.com/caredispatch/backend/internal/application/services"
	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/internal/infrastructure/observability"
)

// DispatchHandler handles emergency dispatch requests
type DispatchHandler struct {
	dispatch *services.DispatchService
	metrics  *observability.Metrics
}

// NewDispatchHandler creates a new dispatch handler
func NewDispatchHandler(dispatch *services.DispatchService, metrics *observability.Metrics) *DispatchHandler {
	return &DispatchHandler{dispatch: dispatch, metrics: metrics}
}

type dispatchRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// EmergencyDispatch handles POST /api/dispatch/emergency
func (h *DispatchHandler) EmergencyDispatch(w http.ResponseWriter, r *http.Request) {
	var payload dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	if principal.UserID == "" {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if !principal.IsPatient() {
		respondWithError(w, http.StatusForbidden, "patient account required")
		return
	}

	recommendation, err := h.dispatch.InstantDispatch(r.Context(), principal.UserID, principal.Name,
		entities.Location{Latitude: payload.Latitude, Longitude: payload.Longitude})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	observability.RecordDispatchMetric(r.Context(), h.metrics, "emergency")
	respondWithJSON(w, http.StatusOK, recommendation)
}
