package services

import (
	"context"
	"time"

	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/internal/domain/repositories"
	apperrors "github.com/caredispatch/backend/pkg/errors"
)

// FacilityService handles facility directory operations
type FacilityService struct {
	repo repositories.FacilityRepository
}

// NewFacilityService creates a new facility service
func NewFacilityService(repo repositories.FacilityRepository) *FacilityService {
	return &FacilityService{repo: repo}
}

// ListPublic returns verified facilities with their live wait minutes for
// the public map view.
func (s *FacilityService) ListPublic(ctx context.Context) ([]*entities.Facility, error) {
	return s.repo.ListPublic(ctx)
}

// GetByID retrieves a facility by ID
func (s *FacilityService) GetByID(ctx context.Context, id int64) (*entities.Facility, error) {
	return s.repo.GetByID(ctx, id)
}

// Register creates a new facility record. New facilities start
// unverified and are excluded from dispatch until verified.
func (s *FacilityService) Register(ctx context.Context, facility *entities.Facility) error {
	if facility.Name == "" {
		return apperrors.NewValidationError("facility name is required")
	}
	if facility.Location != nil && !facility.Location.Valid() {
		return apperrors.NewValidationError("coordinates out of range")
	}
	facility.Verified = false
	facility.CreatedAt = time.Now()
	facility.UpdatedAt = facility.CreatedAt
	return s.repo.Create(ctx, facility)
}

// UpdateOwn updates the acting hospital's facility profile. Verification
// status cannot be self-assigned.
func (s *FacilityService) UpdateOwn(ctx context.Context, principal entities.Principal, update *entities.Facility) (*entities.Facility, error) {
	if principal.FacilityID == 0 {
		return nil, apperrors.NewUnauthorizedError("hospital account required")
	}
	if update.Location != nil && !update.Location.Valid() {
		return nil, apperrors.NewValidationError("coordinates out of range")
	}

	facility, err := s.repo.GetByID(ctx, principal.FacilityID)
	if err != nil {
		return nil, err
	}

	if update.Name != "" {
		facility.Name = update.Name
	}
	if update.Address != "" {
		facility.Address = update.Address
	}
	if update.PhoneNumber != "" {
		facility.PhoneNumber = update.PhoneNumber
	}
	if update.Location != nil {
		facility.Location = update.Location
	}

	if err := s.repo.Update(ctx, facility); err != nil {
		return nil, err
	}
	return facility, nil
}
