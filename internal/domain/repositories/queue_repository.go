package repositories

import (
	"context"

	"github.com/caredispatch/backend/internal/domain/entities"
)

// QueueRepository defines the interface for patient queue data access.
type QueueRepository interface {
	// Create inserts a new queue entry. It fails with a conflict error if
	// the patient already has an active entry at the facility.
	Create(ctx context.Context, entry *entities.QueueEntry) error

	// GetByID retrieves a queue entry by ID
	GetByID(ctx context.Context, id string) (*entities.QueueEntry, error)

	// ListByFacility returns a facility's queue ordered by priority
	// (highest first) then admission time.
	ListByFacility(ctx context.Context, facilityID int64) ([]*entities.QueueEntry, error)

	// Update persists mutable fields of an entry (status, priority,
	// service time, notes).
	Update(ctx context.Context, entry *entities.QueueEntry) error

	// HasActiveEntry reports whether the patient currently has a waiting
	// or in-progress entry at the facility.
	HasActiveEntry(ctx context.Context, facilityID int64, patientID string) (bool, error)
}
