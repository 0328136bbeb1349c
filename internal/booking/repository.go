package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository contains all DB interactions needed by the booking service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// ListActiveForDay loads the bookings that still occupy windows on the
	// given calendar day. A nil professionalID returns every active booking
	// of the tenant; a concrete one returns that professional's bookings
	// plus unassigned ones, which block tenant-wide.
	ListActiveForDay(ctx context.Context, tenantID uuid.UUID, professionalID *uuid.UUID, day time.Time) ([]Booking, error)

	// CountActiveForDay counts the tenant's active bookings on the day,
	// regardless of professional. Used for the per-day cap.
	CountActiveForDay(ctx context.Context, tenantID uuid.UUID, day time.Time) (int, error)

	Insert(ctx context.Context, b Booking) (*Booking, error)

	// UpdateStatus performs a compare-and-set status change: the row is only
	// updated when it is still in the from status. ErrBookingNotFound is
	// returned when no row matched.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, reason *string, cancelledAt *time.Time) (*Booking, error)

	ListByTenantDay(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]Booking, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]Booking, error)
}
