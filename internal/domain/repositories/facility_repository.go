package repositories

import (
	"context"

	"github.com/caredispatch/backend/internal/domain/entities"
)

// FacilityRepository defines the interface for facility data access.
type FacilityRepository interface {
	// Create creates a new facility
	Create(ctx context.Context, facility *entities.Facility) error

	// GetByID retrieves a facility by ID
	GetByID(ctx context.Context, id int64) (*entities.Facility, error)

	// Update updates a facility's profile
	Update(ctx context.Context, facility *entities.Facility) error

	// ListEligible returns every verified facility with known coordinates,
	// annotated with its current queue wait in minutes. The wait is
	// recomputed on every call; queue state changes continuously so it is
	// never cached.
	ListEligible(ctx context.Context) ([]*entities.Facility, error)

	// ListPublic returns facilities for the public map view, annotated
	// with current wait minutes.
	ListPublic(ctx context.Context) ([]*entities.Facility, error)
}
