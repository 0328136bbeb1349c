package schedule

import (
	"time"

	"github.com/google/uuid"
)

// Policy defaults applied when a tenant has no stored row.
const (
	DefaultSlotDurationMinutes     = 30
	DefaultIntervalMinutes         = 0
	DefaultAdvanceBookingDays      = 30
	DefaultMinBookingNoticeMinutes = 60
	DefaultCancellationNoticeHours = 24
)

// Policy holds the tenant-wide scheduling parameters. It is created with
// defaults when the tenant is created and only ever mutated by tenant staff.
type Policy struct {
	TenantID                    uuid.UUID
	SlotDurationMinutes         int
	IntervalBetweenSlotsMinutes int
	AdvanceBookingDays          int
	MinBookingNoticeMinutes     int
	MaxBookingsPerDay           *int // nil = uncapped
	AllowCancellation           bool
	CancellationNoticeHours     int
	AutoConfirmBookings         bool
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
}

func DefaultPolicy(tenantID uuid.UUID) Policy {
	return Policy{
		TenantID:                    tenantID,
		SlotDurationMinutes:         DefaultSlotDurationMinutes,
		IntervalBetweenSlotsMinutes: DefaultIntervalMinutes,
		AdvanceBookingDays:          DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes:     DefaultMinBookingNoticeMinutes,
		AllowCancellation:           true,
		CancellationNoticeHours:     DefaultCancellationNoticeHours,
		AutoConfirmBookings:         false,
	}
}

// MinNotice returns the minimum lead time as a duration.
func (p Policy) MinNotice() time.Duration {
	return time.Duration(p.MinBookingNoticeMinutes) * time.Minute
}

// CancellationNotice returns how long before start a customer may still cancel.
func (p Policy) CancellationNotice() time.Duration {
	return time.Duration(p.CancellationNoticeHours) * time.Hour
}

// HasAdvanceLimit reports whether bookings are limited to a forward horizon.
func (p Policy) HasAdvanceLimit() bool {
	return p.AdvanceBookingDays > 0
}
