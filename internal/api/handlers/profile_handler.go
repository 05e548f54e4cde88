package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/caredispatch/backend/internal/api/middleware"
	"github.com/caredispatch/backend/internal/application/services"
	"github.com/caredispatch/backend/internal/domain/entities"
)

// ProfileHandler handles medical profile HTTP requests
type ProfileHandler struct {
	profiles *services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetProfile handles GET /api/profile/medical
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())

	profile, err := h.profiles.Get(r.Context(), principal)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// UpsertProfile handles PUT /api/profile/medical
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	var profile entities.MedicalProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())

	if err := h.profiles.Upsert(r.Context(), principal, &profile); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}
