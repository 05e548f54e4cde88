package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/internal/domain/repositories"
	"github.com/caredispatch/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/caredispatch/backend/pkg/errors"
)

const pqUniqueViolation = "23505"

// QueueAdapter implements the QueueRepository interface
type QueueAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewQueueAdapter creates a new queue adapter
func NewQueueAdapter(client *postgres.Client) repositories.QueueRepository {
	return &QueueAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a new queue entry. A partial unique index on
// (facility_id, patient_id) over active statuses turns a concurrent
// duplicate admission into a conflict instead of a second entry.
func (a *QueueAdapter) Create(ctx context.Context, entry *entities.QueueEntry) error {
	record := goqu.Record{
		"id":                        entry.ID,
		"facility_id":               entry.FacilityID,
		"patient_id":                entry.PatientID,
		"priority_score":            entry.PriorityScore,
		"estimated_service_minutes": entry.EstimatedServiceMinutes,
		"status":                    entry.Status,
		"notes":                     entry.Notes,
		"admitted_at":               entry.AdmittedAt,
		"updated_at":                entry.UpdatedAt,
	}

	query, args, err := a.db.Insert("queue_entries").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return apperrors.NewConflictError("patient already has an active queue entry at this facility")
		}
		return apperrors.NewInternalError("failed to create queue entry", err)
	}

	return nil
}

// GetByID retrieves a queue entry by ID
func (a *QueueAdapter) GetByID(ctx context.Context, id string) (*entities.QueueEntry, error) {
	query, args, err := a.db.From("queue_entries").
		Select(queueColumns()...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	entry := &entities.QueueEntry{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(queueFields(entry)...)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("queue entry %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get queue entry", err)
	}

	return entry, nil
}

// ListByFacility returns a facility's queue, highest priority first and
// FIFO within equal priority.
func (a *QueueAdapter) ListByFacility(ctx context.Context, facilityID int64) ([]*entities.QueueEntry, error) {
	query, args, err := a.db.From("queue_entries").
		Select(queueColumns()...).
		Where(goqu.Ex{"facility_id": facilityID}).
		Order(goqu.C("priority_score").Desc(), goqu.C("admitted_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list queue entries", err)
	}
	defer rows.Close()

	var entries []*entities.QueueEntry
	for rows.Next() {
		entry := &entities.QueueEntry{}
		if err := rows.Scan(queueFields(entry)...); err != nil {
			return nil, apperrors.NewInternalError("failed to scan queue entry", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate queue entries", err)
	}

	return entries, nil
}

// Update persists the mutable fields of a queue entry
func (a *QueueAdapter) Update(ctx context.Context, entry *entities.QueueEntry) error {
	entry.UpdatedAt = time.Now()

	record := goqu.Record{
		"priority_score":            entry.PriorityScore,
		"estimated_service_minutes": entry.EstimatedServiceMinutes,
		"status":                    entry.Status,
		"notes":                     entry.Notes,
		"updated_at":                entry.UpdatedAt,
	}

	query, args, err := a.db.Update("queue_entries").
		Set(record).
		Where(goqu.Ex{"id": entry.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update queue entry", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check update result", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("queue entry %s not found", entry.ID))
	}

	return nil
}

// HasActiveEntry reports whether the patient is already waiting or being
// served at the facility.
func (a *QueueAdapter) HasActiveEntry(ctx context.Context, facilityID int64, patientID string) (bool, error) {
	query, args, err := a.db.From("queue_entries").
		Select(goqu.L("1")).
		Where(
			goqu.Ex{"facility_id": facilityID, "patient_id": patientID},
			goqu.C("status").In(entities.ActiveQueueStatuses),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build query", err)
	}

	var one int
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError("failed to check queue entry", err)
	}

	return true, nil
}

func queueColumns() []interface{} {
	return []interface{}{
		"id", "facility_id", "patient_id", "priority_score",
		"estimated_service_minutes", "status", "notes",
		"admitted_at", "updated_at",
	}
}

func queueFields(entry *entities.QueueEntry) []interface{} {
	return []interface{}{
		&entry.ID,
		&entry.FacilityID,
		&entry.PatientID,
		&entry.PriorityScore,
		&entry.EstimatedServiceMinutes,
		&entry.Status,
		&entry.Notes,
		&entry.AdmittedAt,
		&entry.UpdatedAt,
	}
}
