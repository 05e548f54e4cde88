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

// AdmissionRequestAdapter implements the AdmissionRequestRepository interface
type AdmissionRequestAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAdmissionRequestAdapter creates a new admission request adapter
func NewAdmissionRequestAdapter(client *postgres.Client) repositories.AdmissionRequestRepository {
	return &AdmissionRequestAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a new admission request
func (a *AdmissionRequestAdapter) Create(ctx context.Context, request *entities.AdmissionRequest) error {
	record := goqu.Record{
		"id":                      request.ID,
		"patient_id":              request.PatientID,
		"reason_for_visit":        request.ReasonForVisit,
		"latitude":                request.Location.Latitude,
		"longitude":               request.Location.Longitude,
		"recommended_facility_id": request.RecommendedFacilityID,
		"reasoning":               request.Reasoning,
		"urgency_score":           request.UrgencyScore,
		"status":                  request.Status,
		"created_at":              request.CreatedAt,
		"updated_at":              request.UpdatedAt,
	}

	query, args, err := a.db.Insert("admission_requests").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create admission request", err)
	}

	return nil
}

// GetByID retrieves an admission request by ID
func (a *AdmissionRequestAdapter) GetByID(ctx context.Context, id string) (*entities.AdmissionRequest, error) {
	query, args, err := a.db.From("admission_requests").
		Select(requestColumns()...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	request := &entities.AdmissionRequest{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(requestFields(request)...)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("admission request %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get admission request", err)
	}

	return request, nil
}

// FindCreatedBetween returns the patient's most recent request created in
// [from, to), or nil when there is none.
func (a *AdmissionRequestAdapter) FindCreatedBetween(ctx context.Context, patientID string, from, to time.Time) (*entities.AdmissionRequest, error) {
	query, args, err := a.db.From("admission_requests").
		Select(requestColumns()...).
		Where(
			goqu.Ex{"patient_id": patientID},
			goqu.C("created_at").Gte(from),
			goqu.C("created_at").Lt(to),
		).
		Order(goqu.C("created_at").Desc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	request := &entities.AdmissionRequest{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(requestFields(request)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to find admission request", err)
	}

	return request, nil
}

// ListPendingByFacility returns pending requests addressed to a facility,
// newest first.
func (a *AdmissionRequestAdapter) ListPendingByFacility(ctx context.Context, facilityID int64) ([]*entities.AdmissionRequest, error) {
	query, args, err := a.db.From("admission_requests").
		Select(requestColumns()...).
		Where(goqu.Ex{
			"recommended_facility_id": facilityID,
			"status":                  entities.RequestStatusPending,
		}).
		Order(goqu.C("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list admission requests", err)
	}
	defer rows.Close()

	var requests []*entities.AdmissionRequest
	for rows.Next() {
		request := &entities.AdmissionRequest{}
		if err := rows.Scan(requestFields(request)...); err != nil {
			return nil, apperrors.NewInternalError("failed to scan admission request", err)
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate admission requests", err)
	}

	return requests, nil
}

// UpdateStatus moves a request from one status to another. The fromStatus
// guard makes concurrent accept/reject attempts resolve to exactly one
// winner; the loser gets a conflict.
func (a *AdmissionRequestAdapter) UpdateStatus(ctx context.Context, id string, fromStatus, toStatus string) error {
	query, args, err := a.db.Update("admission_requests").
		Set(goqu.Record{"status": toStatus, "updated_at": time.Now()}).
		Where(goqu.Ex{"id": id, "status": fromStatus}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update admission request", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check update result", err)
	}
	if rowsAffected == 0 {
		if _, getErr := a.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return apperrors.NewConflictError(fmt.Sprintf("admission request %s is no longer %s", id, fromStatus))
	}

	return nil
}

func requestColumns() []interface{} {
	return []interface{}{
		"id", "patient_id", "reason_for_visit", "latitude", "longitude",
		"recommended_facility_id", "reasoning", "urgency_score", "status",
		"created_at", "updated_at",
	}
}

func requestFields(request *entities.AdmissionRequest) []interface{} {
	return []interface{}{
		&request.ID,
		&request.PatientID,
		&request.ReasonForVisit,
		&request.Location.Latitude,
		&request.Location.Longitude,
		&request.RecommendedFacilityID,
		&request.Reasoning,
		&request.UrgencyScore,
		&request.Status,
		&request.CreatedAt,
		&request.UpdatedAt,
	}
}
