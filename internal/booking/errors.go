package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrBookingNotFound = errors.New("booking not found")

	// ErrOutsideAvailability means no open availability window covers the
	// requested booking window.
	ErrOutsideAvailability = errors.New("requested time is outside availability")

	// ErrProfessionalMismatch means the named professional does not offer
	// the requested service.
	ErrProfessionalMismatch = errors.New("professional does not offer this service")

	// ErrSlotTaken means an active booking already overlaps the requested
	// window, including the race-losing case under concurrent writes.
	ErrSlotTaken = errors.New("slot is already booked")

	// ErrSlotContended means the booking lock for the slot's day is held by
	// another request; the caller should retry.
	ErrSlotContended = errors.New("slot is currently being booked, please retry")

	// ErrServiceInactive means the service is not currently bookable.
	ErrServiceInactive = errors.New("service is not active")

	// ErrDayFull means the tenant's max-bookings-per-day cap is reached.
	ErrDayFull = errors.New("no more bookings accepted for this day")

	// ErrCancellationDisabled means the tenant does not allow customer
	// self-service cancellation.
	ErrCancellationDisabled = errors.New("cancellation is not allowed")

	// ErrNotBookingOwner means a customer tried to act on someone else's
	// booking.
	ErrNotBookingOwner = errors.New("booking belongs to another customer")
)

// TooSoonError rejects a booking requested inside the minimum lead-time
// window. The message deliberately spells out the current time, the
// requested time and the requested date: it is shown to end users as-is.
type TooSoonError struct {
	Now            time.Time
	RequestedStart time.Time
	MinNotice      time.Duration
}

func (e *TooSoonError) Error() string {
	return fmt.Sprintf("booking requires at least %s notice: it is now %s and the requested slot starts at %s on %s",
		e.MinNotice,
		e.Now.Format("15:04"),
		e.RequestedStart.Format("15:04"),
		e.RequestedStart.Format("2006-01-02"),
	)
}

// CancellationTooLateError rejects a customer cancellation attempted inside
// the tenant's cancellation-notice window. Staff may always override.
type CancellationTooLateError struct {
	StartTime time.Time
	Notice    time.Duration
}

func (e *CancellationTooLateError) Error() string {
	return fmt.Sprintf("cancellation must happen at least %s before the booking starts at %s",
		e.Notice, e.StartTime.Format("2006-01-02 15:04"))
}

// InvalidTransitionError rejects a lifecycle transition the state machine
// does not permit.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition booking from %s to %s", e.From, e.To)
}
