package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendly/booking-engine/internal/catalog"
	redisclient "github.com/agendly/booking-engine/internal/redis"
	"github.com/agendly/booking-engine/internal/schedule"
)

// AvailabilityResolver is the slice of the scheduling service the booking
// engine needs: open windows for the booking-time availability check and the
// tenant's policy.
type AvailabilityResolver interface {
	OpenWindows(ctx context.Context, tenantID, serviceID uuid.UUID, date time.Time) ([]schedule.TimeWindow, error)
	PolicyFor(ctx context.Context, tenantID uuid.UUID) (schedule.Policy, error)
}

type Service struct {
	repo    Repository
	catalog catalog.Repository
	avail   AvailabilityResolver
	locker  redisclient.Locker
	clock   schedule.Clock
}

func NewService(repo Repository, cat catalog.Repository, avail AvailabilityResolver, locker redisclient.Locker) *Service {
	return &Service{
		repo:    repo,
		catalog: cat,
		avail:   avail,
		locker:  locker,
		clock:   schedule.SystemClock{},
	}
}

type CreateBookingInput struct {
	TenantID       uuid.UUID
	ServiceID      uuid.UUID
	ProfessionalID *uuid.UUID
	CustomerID     uuid.UUID
	StartTime      time.Time
	Notes          *string
}

// CreateBooking is the authoritative gate for accepting a booking. Slot
// listings are advisory and can go stale, so every check runs again here at
// write time. The overlap check and the insert execute under a distributed
// lock keyed by tenant, professional and day so two racing requests for the
// same slot cannot both succeed.
func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (*Booking, error) {
	svc, err := s.catalog.GetService(ctx, in.TenantID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, ErrServiceInactive
	}

	policy, err := s.avail.PolicyFor(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := checkLeadTime(now, in.StartTime, policy.MinNotice()); err != nil {
		return nil, err
	}

	if policy.HasAdvanceLimit() {
		horizon := dayOf(now).AddDate(0, 0, policy.AdvanceBookingDays)
		if dayOf(in.StartTime).After(horizon) {
			return nil, fmt.Errorf("%w: bookable up to %d days ahead", schedule.ErrDateTooFar, policy.AdvanceBookingDays)
		}
	}

	requested := schedule.TimeWindow{Start: in.StartTime, End: in.StartTime.Add(svc.Duration())}

	windows, err := s.avail.OpenWindows(ctx, in.TenantID, in.ServiceID, in.StartTime)
	if err != nil {
		return nil, err
	}
	if !coveredByAny(requested, windows) {
		return nil, ErrOutsideAvailability
	}

	if in.ProfessionalID != nil {
		if _, err := s.catalog.GetProfessional(ctx, in.TenantID, *in.ProfessionalID); err != nil {
			return nil, err
		}
		offers, err := s.catalog.ProfessionalOffersService(ctx, *in.ProfessionalID, in.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("check professional service link: %w", err)
		}
		if !offers {
			return nil, ErrProfessionalMismatch
		}
	}

	status := StatusPending
	if policy.AutoConfirmBookings && !svc.RequiresApproval {
		status = StatusConfirmed
	}

	var created *Booking

	err = s.locker.WithDayLock(ctx, in.TenantID, in.ProfessionalID, in.StartTime, func(lockCtx context.Context) error {
		// Re-check against current state inside the critical section.
		if policy.MaxBookingsPerDay != nil {
			count, err := s.repo.CountActiveForDay(lockCtx, in.TenantID, in.StartTime)
			if err != nil {
				return fmt.Errorf("count bookings: %w", err)
			}
			if count >= *policy.MaxBookingsPerDay {
				return ErrDayFull
			}
		}

		existing, err := s.repo.ListActiveForDay(lockCtx, in.TenantID, in.ProfessionalID, in.StartTime)
		if err != nil {
			return fmt.Errorf("load active bookings: %w", err)
		}
		for i := range existing {
			if requested.Overlaps(existing[i].Window()) {
				return ErrSlotTaken
			}
		}

		b := Booking{
			ID:              uuid.New(),
			TenantID:        in.TenantID,
			ServiceID:       in.ServiceID,
			ProfessionalID:  in.ProfessionalID,
			CustomerID:      in.CustomerID,
			StartTime:       in.StartTime,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price, // snapshot: later price edits never touch existing bookings
			Status:          status,
			Notes:           in.Notes,
		}

		inserted, err := s.repo.Insert(lockCtx, b)
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		created = inserted
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotContended
		}
		return nil, err
	}

	return created, nil
}

// checkLeadTime enforces the minimum booking notice. The notice only applies
// to same-day requests; any future date needs no notice beyond being in the
// future. The boundary is inclusive: exactly minNotice ahead is accepted.
func checkLeadTime(now, start time.Time, minNotice time.Duration) error {
	if !start.After(now) {
		return &TooSoonError{Now: now, RequestedStart: start, MinNotice: minNotice}
	}
	if sameDay(now, start) && start.Sub(now) < minNotice {
		return &TooSoonError{Now: now, RequestedStart: start, MinNotice: minNotice}
	}
	return nil
}

func coveredByAny(w schedule.TimeWindow, windows []schedule.TimeWindow) bool {
	for _, open := range windows {
		if open.Covers(w) {
			return true
		}
	}
	return false
}

// TransitionBooking moves a booking through its lifecycle. Staff may perform
// any allowed transition; customers may only cancel their own bookings,
// subject to the tenant's cancellation policy.
func (s *Service) TransitionBooking(ctx context.Context, bookingID uuid.UUID, target Status, actor Actor, reason *string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if actor.Role == ActorCustomer {
		if target != StatusCancelled {
			return nil, &InvalidTransitionError{From: b.Status, To: target}
		}
		if b.CustomerID != actor.CustomerID {
			return nil, ErrNotBookingOwner
		}

		policy, err := s.avail.PolicyFor(ctx, b.TenantID)
		if err != nil {
			return nil, err
		}
		if !policy.AllowCancellation {
			return nil, ErrCancellationDisabled
		}
		deadline := b.StartTime.Add(-policy.CancellationNotice())
		if s.clock.Now().After(deadline) {
			return nil, &CancellationTooLateError{StartTime: b.StartTime, Notice: policy.CancellationNotice()}
		}
	}

	if !b.Status.CanTransitionTo(target) {
		return nil, &InvalidTransitionError{From: b.Status, To: target}
	}

	var cancelledAt *time.Time
	if target == StatusCancelled {
		now := s.clock.Now()
		cancelledAt = &now
	}

	updated, err := s.repo.UpdateStatus(ctx, b.ID, b.Status, target, reason, cancelledAt)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			// The status moved under us between read and write.
			return nil, &InvalidTransitionError{From: b.Status, To: target}
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	return updated, nil
}

// CancelBooking is the customer self-service path.
func (s *Service) CancelBooking(ctx context.Context, bookingID uuid.UUID, actor Actor, reason *string) (*Booking, error) {
	return s.TransitionBooking(ctx, bookingID, StatusCancelled, actor, reason)
}

func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListTenantBookings(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]Booking, error) {
	return s.repo.ListByTenantDay(ctx, tenantID, day)
}

func (s *Service) ListCustomerBookings(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]Booking, error) {
	return s.repo.ListByCustomer(ctx, customerID, limit, offset)
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
