package repositories

import (
	"context"

	"github.com/caredispatch/backend/internal/domain/entities"
)

// MedicalProfileRepository defines the interface for medical profile data
// access.
type MedicalProfileRepository interface {
	// GetByPatient retrieves a patient's medical profile
	GetByPatient(ctx context.Context, patientID string) (*entities.MedicalProfile, error)

	// Upsert creates or replaces the patient's medical profile
	Upsert(ctx context.Context, profile *entities.MedicalProfile) error
}
