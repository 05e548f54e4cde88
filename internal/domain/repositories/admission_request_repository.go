package repositories

import (
	"context"
	"time"

	"github.com/caredispatch/backend/internal/domain/entities"
)

// AdmissionRequestRepository defines the interface for admission request
// data access.
type AdmissionRequestRepository interface {
	// Create persists a new admission request
	Create(ctx context.Context, request *entities.AdmissionRequest) error

	// GetByID retrieves a request by ID
	GetByID(ctx context.Context, id string) (*entities.AdmissionRequest, error)

	// FindCreatedBetween returns the patient's most recent request created
	// in [from, to), or nil when there is none. Backs the daily rate limit.
	FindCreatedBetween(ctx context.Context, patientID string, from, to time.Time) (*entities.AdmissionRequest, error)

	// ListPendingByFacility returns pending requests addressed to the
	// facility, newest first.
	ListPendingByFacility(ctx context.Context, facilityID int64) ([]*entities.AdmissionRequest, error)

	// UpdateStatus moves a request from one status to another. It fails
	// with a conflict error when the request is no longer in fromStatus.
	UpdateStatus(ctx context.Context, id string, fromStatus, toStatus string) error
}
