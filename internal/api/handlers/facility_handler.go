package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/caredispatch/backend/internal/api/middleware"
	"github.com/caredispatch/backend/internal/application/services"
	"github.com/caredispatch/backend/internal/domain/entities"
)

// FacilityHandler handles facility directory HTTP requests
type FacilityHandler struct {
	facilities *services.FacilityService
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(facilities *services.FacilityService) *FacilityHandler {
	return &FacilityHandler{facilities: facilities}
}

// ListFacilities handles GET /api/facilities
func (h *FacilityHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.facilities.ListPublic(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

// GetFacility handles GET /api/facilities/{id}
func (h *FacilityHandler) GetFacility(w http.ResponseWriter, r *http.Request) {
	facilityID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "facility ID must be an integer")
		return
	}

	facility, err := h.facilities.GetByID(r.Context(), facilityID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, facility)
}

type facilityUpdatePayload struct {
	Name        string             `json:"name"`
	Address     string             `json:"address"`
	PhoneNumber string             `json:"phone_number"`
	Location    *entities.Location `json:"location"`
}

// RegisterFacility handles POST /api/facilities
func (h *FacilityHandler) RegisterFacility(w http.ResponseWriter, r *http.Request) {
	var payload facilityUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	if principal.UserID == "" {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if principal.Role != entities.RoleHospital {
		respondWithError(w, http.StatusForbidden, "hospital account required")
		return
	}

	facility := &entities.Facility{
		Name:        payload.Name,
		Address:     payload.Address,
		PhoneNumber: payload.PhoneNumber,
		Location:    payload.Location,
	}
	if err := h.facilities.Register(r.Context(), facility); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, facility)
}

// UpdateOwnFacility handles PUT /api/facilities/me
func (h *FacilityHandler) UpdateOwnFacility(w http.ResponseWriter, r *http.Request) {
	var payload facilityUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())

	facility, err := h.facilities.UpdateOwn(r.Context(), principal, &entities.Facility{
		Name:        payload.Name,
		Address:     payload.Address,
		PhoneNumber: payload.PhoneNumber,
		Location:    payload.Location,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, facility)
}
