package services

import (
	"context"

	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/internal/domain/repositories"
	apperrors "github.com/caredispatch/backend/pkg/errors"
)

// ProfileService handles patient medical profiles. The profile feeds the
// advice prompts; keeping it current improves recommendations but it is
// always optional.
type ProfileService struct {
	repo repositories.MedicalProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(repo repositories.MedicalProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Get retrieves the acting patient's medical profile
func (s *ProfileService) Get(ctx context.Context, principal entities.Principal) (*entities.MedicalProfile, error) {
	if principal.UserID == "" {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}
	return s.repo.GetByPatient(ctx, principal.UserID)
}

// Upsert creates or replaces the acting patient's medical profile
func (s *ProfileService) Upsert(ctx context.Context, principal entities.Principal, profile *entities.MedicalProfile) error {
	if principal.UserID == "" {
		return apperrors.NewUnauthorizedError("authentication required")
	}
	profile.PatientID = principal.UserID
	return s.repo.Upsert(ctx, profile)
}
