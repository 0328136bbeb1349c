package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/agendly/booking-engine/internal/schedule"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// transitions is the full lifecycle: pending -> confirmed -> in_progress ->
// completed, cancellation from any non-terminal state, and no-show recorded
// post-hoc from pending or confirmed. Terminal states allow nothing.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusInProgress, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether the lifecycle permits moving to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// blocksSlot reports whether a booking in this status still occupies its
// window for conflict purposes. Cancelled and no-show bookings release it.
func (s Status) blocksSlot() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// Booking is one reservation of a service window. Bookings are soft-deleted
// only: cancellation keeps the row for audit history.
type Booking struct {
	ID                 uuid.UUID
	TenantID           uuid.UUID
	ServiceID          uuid.UUID
	ProfessionalID     *uuid.UUID
	CustomerID         uuid.UUID
	StartTime          time.Time
	DurationMinutes    int
	Price              float64 // snapshot of the service price at booking time
	Status             Status
	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// EndTime derives the end of the occupied window.
func (b *Booking) EndTime() time.Time {
	return b.StartTime.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// Window returns the booking's occupied [start, end) window.
func (b *Booking) Window() schedule.TimeWindow {
	return schedule.TimeWindow{Start: b.StartTime, End: b.EndTime()}
}

// IsActive reports whether the booking still occupies its slot.
func (b *Booking) IsActive() bool {
	return b.Status.blocksSlot()
}

type ActorRole string

const (
	ActorStaff    ActorRole = "staff"
	ActorCustomer ActorRole = "customer"
)

// Actor identifies who is driving a lifecycle transition. Staff may perform
// any allowed transition; customers may only cancel their own bookings, and
// only inside the tenant's cancellation-notice window.
type Actor struct {
	Role       ActorRole
	CustomerID uuid.UUID // set for customer actors
}
