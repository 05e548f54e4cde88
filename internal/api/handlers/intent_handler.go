package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/caredispatch/backend/internal/application/services"
)

// IntentHandler handles voice intent classification requests
type IntentHandler struct {
	classifier services.IntentClassifier
}

// NewIntentHandler creates a new intent handler
func NewIntentHandler(classifier services.IntentClassifier) *IntentHandler {
	return &IntentHandler{classifier: classifier}
}

type intentPayload struct {
	Transcript string `json:"transcript"`
}

// ClassifyIntent handles POST /api/voice/intent
func (h *IntentHandler) ClassifyIntent(w http.ResponseWriter, r *http.Request) {
	var payload intentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.classifier.Classify(r.Context(), payload.Transcript)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
