package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/internal/domain/repositories"
	"github.com/caredispatch/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/caredispatch/backend/pkg/errors"
)

// MedicalProfileAdapter implements the MedicalProfileRepository interface
type MedicalProfileAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewMedicalProfileAdapter creates a new medical profile adapter
func NewMedicalProfileAdapter(client *postgres.Client) repositories.MedicalProfileRepository {
	return &MedicalProfileAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByPatient retrieves a patient's medical profile
func (a *MedicalProfileAdapter) GetByPatient(ctx context.Context, patientID string) (*entities.MedicalProfile, error) {
	query, args, err := a.db.From("medical_profiles").
		Select("patient_id", "date_of_birth", "address", "allergies", "conditions", "emergency_notes", "updated_at").
		Where(goqu.Ex{"patient_id": patientID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	profile := &entities.MedicalProfile{}
	var dob sql.NullTime

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&profile.PatientID,
		&dob,
		&profile.Address,
		&profile.Allergies,
		&profile.Conditions,
		&profile.EmergencyNotes,
		&profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("medical profile for patient %s not found", patientID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get medical profile", err)
	}

	if dob.Valid {
		profile.DateOfBirth = &dob.Time
	}

	return profile, nil
}

// Upsert creates or replaces the patient's medical profile
func (a *MedicalProfileAdapter) Upsert(ctx context.Context, profile *entities.MedicalProfile) error {
	profile.UpdatedAt = time.Now()

	var dob sql.NullTime
	if profile.DateOfBirth != nil {
		dob = sql.NullTime{Time: *profile.DateOfBirth, Valid: true}
	}

	record := goqu.Record{
		"patient_id":      profile.PatientID,
		"date_of_birth":   dob,
		"address":         profile.Address,
		"allergies":       profile.Allergies,
		"conditions":      profile.Conditions,
		"emergency_notes": profile.EmergencyNotes,
		"updated_at":      profile.UpdatedAt,
	}

	query, args, err := a.db.Insert("medical_profiles").
		Rows(record).
		OnConflict(goqu.DoUpdate("patient_id", record)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert medical profile", err)
	}

	return nil
}
