package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Service is what a tenant sells: a duration, a price and the padding the
// scheduler must leave after each booking. Read-only to the booking engine.
type Service struct {
	ID                 uuid.UUID
	TenantID           uuid.UUID
	Name               string
	DurationMinutes    int
	BufferTimeMinutes  int
	Price              float64
	RequiresApproval   bool
	MaxBookingsPerSlot int
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Duration returns the service length as a time.Duration.
func (s Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// Buffer returns the post-booking padding as a time.Duration.
func (s Service) Buffer() time.Duration {
	return time.Duration(s.BufferTimeMinutes) * time.Minute
}

type Professional struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
