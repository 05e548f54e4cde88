package entities

import (
	"time"

	"github.com/caredispatch/backend/pkg/geo"
)

// Location represents geographical coordinates.
type Location = geo.Location

// Facility represents a hospital account that can receive dispatch and
// admission recommendations.
type Facility struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Address     string    `json:"address" db:"address"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
	Location    *Location `json:"location,omitempty" db:"-"`
	Verified    bool      `json:"verified" db:"verified"`

	// CurrentWaitMinutes is the sum of estimated service time across the
	// facility's active queue entries. Derived per query, never stored.
	CurrentWaitMinutes int `json:"current_wait_minutes" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Eligible reports whether the facility may appear in a dispatch ranking:
// it must be verified and have known coordinates.
func (f *Facility) Eligible() bool {
	return f.Verified && f.Location != nil
}
