package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/caredispatch/backend/internal/api/middleware"
	"github.com/caredispatch/backend/internal/application/services"
)

// QueueHandler handles hospital queue endpoints
type QueueHandler struct {
	queue *services.QueueService
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(queue *services.QueueService) *QueueHandler {
	return &QueueHandler{queue: queue}
}

// ListQueue handles GET /api/queue
func (h *QueueHandler) ListQueue(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())

	entries, err := h.queue.ListQueue(r.Context(), principal)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

type admitPatientPayload struct {
	PatientID string `json:"patient_id"`
	Notes     string `json:"notes"`
}

// AdmitPatient handles POST /api/queue/admissions
func (h *QueueHandler) AdmitPatient(w http.ResponseWriter, r *http.Request) {
	var payload admitPatientPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())

	entry, err := h.queue.AdmitPatient(r.Context(), principal, payload.PatientID, payload.Notes)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, entry)
}

// UpdateEntry handles PATCH /api/queue/{id}
func (h *QueueHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	entryID := r.PathValue("id")
	if entryID == "" {
		respondWithError(w, http.StatusBadRequest, "entry ID is required")
		return
	}

	var update services.QueueEntryUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())

	entry, err := h.queue.UpdateEntry(r.Context(), principal, entryID, update)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, entry)
}
