package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/caredispatch/backend/internal/api/middleware"
	"github.com/caredispatch/backend/internal/application/services"
	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/internal/infrastructure/observability"
)

// AdmissionHandler handles admission request endpoints for patients and
// hospitals.
type AdmissionHandler struct {
	admissions *services.AdmissionService
	metrics    *observability.Metrics
}

// NewAdmissionHandler creates a new admission handler
func NewAdmissionHandler(admissions *services.AdmissionService, metrics *observability.Metrics) *AdmissionHandler {
	return &AdmissionHandler{admissions: admissions, metrics: metrics}
}

type admissionRequestPayload struct {
	ReasonForVisit string  `json:"reason_for_visit"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}

// RequestAdmission handles POST /api/admissions
func (h *AdmissionHandler) RequestAdmission(w http.ResponseWriter, r *http.Request) {
	var payload admissionRequestPayload
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

	request, err := h.admissions.RequestAdmission(r.Context(), principal.UserID, principal.Name,
		payload.ReasonForVisit, entities.Location{Latitude: payload.Latitude, Longitude: payload.Longitude})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	observability.RecordAdmissionCreation(r.Context(), h.metrics)
	respondWithJSON(w, http.StatusCreated, request)
}

// ListIncoming handles GET /api/admissions/incoming
func (h *AdmissionHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())

	requests, err := h.admissions.ListIncoming(r.Context(), principal)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"count":    len(requests),
	})
}

// Accept handles POST /api/admissions/{id}/accept
func (h *AdmissionHandler) Accept(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")
	if requestID == "" {
		respondWithError(w, http.StatusBadRequest, "request ID is required")
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())

	entry, err := h.admissions.Accept(r.Context(), principal, requestID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, entry)
}

// Reject handles POST /api/admissions/{id}/reject
func (h *AdmissionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")
	if requestID == "" {
		respondWithError(w, http.StatusBadRequest, "request ID is required")
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())

	if err := h.admissions.Reject(r.Context(), principal, requestID); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": entities.RequestStatusRejected})
}
