package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendly/booking-engine/internal/catalog"
	redisclient "github.com/agendly/booking-engine/internal/redis"
	"github.com/agendly/booking-engine/internal/schedule"
)

// monday is the reference day used throughout the booking tests.
var monday = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeRepo struct {
	bookings []Booking
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			b := f.bookings[i]
			return &b, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeRepo) ListActiveForDay(_ context.Context, tenantID uuid.UUID, professionalID *uuid.UUID, day time.Time) ([]Booking, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.TenantID != tenantID || !b.IsActive() || !sameDay(b.StartTime, day) {
			continue
		}
		// Unassigned bookings block tenant-wide; assigned ones only block
		// their own professional.
		if professionalID != nil && b.ProfessionalID != nil && *b.ProfessionalID != *professionalID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeRepo) CountActiveForDay(_ context.Context, tenantID uuid.UUID, day time.Time) (int, error) {
	n := 0
	for _, b := range f.bookings {
		if b.TenantID == tenantID && b.IsActive() && sameDay(b.StartTime, day) {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) Insert(_ context.Context, b Booking) (*Booking, error) {
	f.bookings = append(f.bookings, b)
	return &b, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to Status, reason *string, cancelledAt *time.Time) (*Booking, error) {
	for i := range f.bookings {
		if f.bookings[i].ID == id && f.bookings[i].Status == from {
			f.bookings[i].Status = to
			if reason != nil {
				f.bookings[i].CancellationReason = reason
			}
			if cancelledAt != nil {
				f.bookings[i].CancelledAt = cancelledAt
			}
			b := f.bookings[i]
			return &b, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeRepo) ListByTenantDay(_ context.Context, tenantID uuid.UUID, day time.Time) ([]Booking, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.TenantID == tenantID && sameDay(b.StartTime, day) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByCustomer(_ context.Context, customerID uuid.UUID, _, _ int) ([]Booking, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeCatalog struct {
	service      *catalog.Service
	professional *catalog.Professional
	offers       bool
}

func (f *fakeCatalog) GetService(_ context.Context, _, _ uuid.UUID) (*catalog.Service, error) {
	if f.service == nil {
		return nil, catalog.ErrServiceNotFound
	}
	return f.service, nil
}

func (f *fakeCatalog) GetProfessional(_ context.Context, _, _ uuid.UUID) (*catalog.Professional, error) {
	if f.professional == nil {
		return nil, catalog.ErrProfessionalNotFound
	}
	return f.professional, nil
}

func (f *fakeCatalog) ProfessionalOffersService(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return f.offers, nil
}

func (f *fakeCatalog) ServiceHasProfessionals(_ context.Context, _ uuid.UUID) (bool, error) {
	return f.professional != nil, nil
}

// fakeResolver reports the tenant open 09:00 to 18:00 on every requested day.
type fakeResolver struct {
	policy schedule.Policy
	closed bool
}

func (f *fakeResolver) OpenWindows(_ context.Context, _, _ uuid.UUID, date time.Time) ([]schedule.TimeWindow, error) {
	if f.closed {
		return nil, nil
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return []schedule.TimeWindow{{Start: day.Add(9 * time.Hour), End: day.Add(18 * time.Hour)}}, nil
}

func (f *fakeResolver) PolicyFor(_ context.Context, _ uuid.UUID) (schedule.Policy, error) {
	return f.policy, nil
}

type fakeLocker struct {
	contended bool
	acquired  int
}

func (f *fakeLocker) WithDayLock(ctx context.Context, _ uuid.UUID, _ *uuid.UUID, _ time.Time, fn func(context.Context) error) error {
	if f.contended {
		return redisclient.ErrLockNotAcquired
	}
	f.acquired++
	return fn(ctx)
}

type bookingFixture struct {
	tenantID  uuid.UUID
	serviceID uuid.UUID
	repo      *fakeRepo
	cat       *fakeCatalog
	resolver  *fakeResolver
	locker    *fakeLocker
	svc       *Service
}

func newBookingFixture(t *testing.T, now time.Time) *bookingFixture {
	t.Helper()

	tenantID := uuid.New()
	f := &bookingFixture{
		tenantID:  tenantID,
		serviceID: uuid.New(),
		repo:      &fakeRepo{},
		resolver:  &fakeResolver{policy: schedule.DefaultPolicy(tenantID)},
		locker:    &fakeLocker{},
	}
	f.cat = &fakeCatalog{
		service: &catalog.Service{
			ID:              f.serviceID,
			TenantID:        tenantID,
			DurationMinutes: 30,
			Price:           49.90,
			IsActive:        true,
		},
		offers: true,
	}

	f.svc = NewService(f.repo, f.cat, f.resolver, f.locker)
	f.svc.clock = fixedClock{now: now}
	return f
}

func (f *bookingFixture) input(start time.Time) CreateBookingInput {
	return CreateBookingInput{
		TenantID:   f.tenantID,
		ServiceID:  f.serviceID,
		CustomerID: uuid.New(),
		StartTime:  start,
	}
}

func (f *bookingFixture) existingBooking(start time.Time, status Status) Booking {
	b := Booking{
		ID:              uuid.New(),
		TenantID:        f.tenantID,
		ServiceID:       f.serviceID,
		CustomerID:      uuid.New(),
		StartTime:       start,
		DurationMinutes: 30,
		Status:          status,
	}
	f.repo.bookings = append(f.repo.bookings, b)
	return b
}

func TestCreateBooking_Accepts(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))

	b, err := f.svc.CreateBooking(context.Background(), f.input(monday.Add(10*time.Hour)))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, 30, b.DurationMinutes)
	assert.Equal(t, 49.90, b.Price, "price is snapshotted from the service")
	assert.Equal(t, 1, f.locker.acquired, "insert must run under the day lock")
}

func TestCreateBooking_AutoConfirm(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))
	f.resolver.policy.AutoConfirmBookings = true

	b, err := f.svc.CreateBooking(context.Background(), f.input(monday.Add(10*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)

	// A service that requires approval stays pending even with auto-confirm.
	f.cat.service.RequiresApproval = true
	b, err = f.svc.CreateBooking(context.Background(), f.input(monday.Add(11*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, b.Status)
}

func TestCreateBooking_SlotTaken(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))
	f.existingBooking(monday.Add(10*time.Hour), StatusConfirmed)

	_, err := f.svc.CreateBooking(context.Background(), f.input(monday.Add(10*time.Hour)))
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Partial overlap is just as taken.
	_, err = f.svc.CreateBooking(context.Background(), f.input(monday.Add(10*time.Hour+15*time.Minute)))
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Back to back is fine.
	_, err = f.svc.CreateBooking(context.Background(), f.input(monday.Add(10*time.Hour+30*time.Minute)))
	assert.NoError(t, err)
}

func TestCreateBooking_CancelledBookingFreesSlot(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))
	f.existingBooking(monday.Add(10*time.Hour), StatusCancelled)
	f.existingBooking(monday.Add(11*time.Hour), StatusNoShow)

	_, err := f.svc.CreateBooking(context.Background(), f.input(monday.Add(10*time.Hour)))
	assert.NoError(t, err)
	_, err = f.svc.CreateBooking(context.Background(), f.input(monday.Add(11*time.Hour)))
	assert.NoError(t, err)
}

func TestCreateBooking_LeadTimeBoundary(t *testing.T) {
	// It is Monday 09:50 with the default 60 minute notice.
	f := newBookingFixture(t, monday.Add(9*time.Hour+50*time.Minute))

	_, err := f.svc.CreateBooking(context.Background(), f.input(monday.Add(10*time.Hour+30*time.Minute)))
	var tooSoon *TooSoonError
	require.ErrorAs(t, err, &tooSoon, "40 minutes notice is not enough")
	assert.Contains(t, tooSoon.Error(), "09:50")
	assert.Contains(t, tooSoon.Error(), "10:30")
	assert.Contains(t, tooSoon.Error(), "2026-03-02")

	// Exactly 60 minutes ahead is accepted.
	_, err = f.svc.CreateBooking(context.Background(), f.input(monday.Add(10*time.Hour+50*time.Minute)))
	assert.NoError(t, err)
}

func TestCreateBooking_FutureDateNeedsNoNotice(t *testing.T) {
	f := newBookingFixture(t, monday.Add(23*time.Hour))

	// Tomorrow 09:00 is under 60 minutes away by clock but on another day.
	_, err := f.svc.CreateBooking(context.Background(), f.input(monday.AddDate(0, 0, 1).Add(9*time.Hour)))
	assert.NoError(t, err)
}

func TestCreateBooking_PastStartRejected(t *testing.T) {
	f := newBookingFixture(t, monday.Add(12*time.Hour))

	_, err := f.svc.CreateBooking(context.Background(), f.input(monday.Add(10*time.Hour)))
	var tooSoon *TooSoonError
	assert.ErrorAs(t, err, &tooSoon)
}

func TestCreateBooking_BeyondHorizon(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))

	start := monday.AddDate(0, 0, 40).Add(10 * time.Hour)
	_, err := f.svc.CreateBooking(context.Background(), f.input(start))
	assert.ErrorIs(t, err, schedule.ErrDateTooFar)
}

func TestCreateBooking_OutsideAvailability(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))

	// 17:45 start runs past the 18:00 close.
	_, err := f.svc.CreateBooking(context.Background(), f.input(monday.Add(17*time.Hour+45*time.Minute)))
	assert.ErrorIs(t, err, ErrOutsideAvailability)

	f.resolver.closed = true
	_, err = f.svc.CreateBooking(context.Background(), f.input(monday.Add(10*time.Hour)))
	assert.ErrorIs(t, err, ErrOutsideAvailability)
}

func TestCreateBooking_ServiceInactive(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))
	f.cat.service.IsActive = false

	_, err := f.svc.CreateBooking(context.Background(), f.input(monday.Add(10*time.Hour)))
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestCreateBooking_ProfessionalMismatch(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))
	profID := uuid.New()
	f.cat.professional = &catalog.Professional{ID: profID, TenantID: f.tenantID}
	f.cat.offers = false

	in := f.input(monday.Add(10 * time.Hour))
	in.ProfessionalID = &profID

	_, err := f.svc.CreateBooking(context.Background(), in)
	assert.ErrorIs(t, err, ErrProfessionalMismatch)
}

func TestCreateBooking_UnassignedBookingBlocksProfessional(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))
	profID := uuid.New()
	f.cat.professional = &catalog.Professional{ID: profID, TenantID: f.tenantID}

	// An existing booking with no professional occupies the slot tenant-wide.
	f.existingBooking(monday.Add(10*time.Hour), StatusConfirmed)

	in := f.input(monday.Add(10 * time.Hour))
	in.ProfessionalID = &profID

	_, err := f.svc.CreateBooking(context.Background(), in)
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestCreateBooking_OtherProfessionalDoesNotBlock(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))
	profID := uuid.New()
	otherProf := uuid.New()
	f.cat.professional = &catalog.Professional{ID: profID, TenantID: f.tenantID}

	taken := f.existingBooking(monday.Add(10*time.Hour), StatusConfirmed)
	for i := range f.repo.bookings {
		if f.repo.bookings[i].ID == taken.ID {
			f.repo.bookings[i].ProfessionalID = &otherProf
		}
	}

	in := f.input(monday.Add(10 * time.Hour))
	in.ProfessionalID = &profID

	_, err := f.svc.CreateBooking(context.Background(), in)
	assert.NoError(t, err)
}

func TestCreateBooking_DayFull(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))
	limit := 1
	f.resolver.policy.MaxBookingsPerDay = &limit
	f.existingBooking(monday.Add(9*time.Hour), StatusConfirmed)

	_, err := f.svc.CreateBooking(context.Background(), f.input(monday.Add(11*time.Hour)))
	assert.ErrorIs(t, err, ErrDayFull)
}

func TestCreateBooking_LockContended(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))
	f.locker.contended = true

	_, err := f.svc.CreateBooking(context.Background(), f.input(monday.Add(10*time.Hour)))
	assert.ErrorIs(t, err, ErrSlotContended)
	assert.Empty(t, f.repo.bookings, "nothing may be written without the lock")
}

func TestTransitionBooking_StaffFlow(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))
	b := f.existingBooking(monday.Add(10*time.Hour), StatusPending)

	updated, err := f.svc.TransitionBooking(context.Background(), b.ID, StatusConfirmed, Actor{Role: ActorStaff}, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, updated.Status)

	updated, err = f.svc.TransitionBooking(context.Background(), b.ID, StatusInProgress, Actor{Role: ActorStaff}, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, updated.Status)

	updated, err = f.svc.TransitionBooking(context.Background(), b.ID, StatusCompleted, Actor{Role: ActorStaff}, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)
}

func TestTransitionBooking_StaffCancelCompleted(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))
	b := f.existingBooking(monday.Add(10*time.Hour), StatusCompleted)

	_, err := f.svc.TransitionBooking(context.Background(), b.ID, StatusCancelled, Actor{Role: ActorStaff}, nil)

	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, StatusCompleted, invalid.From)
	assert.Equal(t, StatusCancelled, invalid.To)
}

func TestTransitionBooking_StaffCancelRecordsReason(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))
	b := f.existingBooking(monday.Add(10*time.Hour), StatusConfirmed)

	reason := "equipment failure"
	updated, err := f.svc.TransitionBooking(context.Background(), b.ID, StatusCancelled, Actor{Role: ActorStaff}, &reason)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, updated.Status)
	require.NotNil(t, updated.CancellationReason)
	assert.Equal(t, reason, *updated.CancellationReason)
	require.NotNil(t, updated.CancelledAt)
	assert.Equal(t, monday.Add(8*time.Hour), *updated.CancelledAt)
}

func TestCancelBooking_CustomerOwnBooking(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))
	// Start three days out so the 24 hour cancellation notice is met.
	b := f.existingBooking(monday.AddDate(0, 0, 3).Add(10*time.Hour), StatusConfirmed)

	updated, err := f.svc.CancelBooking(context.Background(), b.ID, Actor{Role: ActorCustomer, CustomerID: b.CustomerID}, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, updated.Status)
	assert.NotNil(t, updated.CancelledAt)
}

func TestCancelBooking_CustomerTooLate(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))
	// Today 10:00 is well inside the 24 hour notice window.
	b := f.existingBooking(monday.Add(10*time.Hour), StatusConfirmed)

	_, err := f.svc.CancelBooking(context.Background(), b.ID, Actor{Role: ActorCustomer, CustomerID: b.CustomerID}, nil)

	var late *CancellationTooLateError
	assert.ErrorAs(t, err, &late)
}

func TestCancelBooking_CustomerNotOwner(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))
	b := f.existingBooking(monday.AddDate(0, 0, 3).Add(10*time.Hour), StatusConfirmed)

	_, err := f.svc.CancelBooking(context.Background(), b.ID, Actor{Role: ActorCustomer, CustomerID: uuid.New()}, nil)
	assert.ErrorIs(t, err, ErrNotBookingOwner)
}

func TestCancelBooking_DisabledByPolicy(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))
	f.resolver.policy.AllowCancellation = false
	b := f.existingBooking(monday.AddDate(0, 0, 3).Add(10*time.Hour), StatusConfirmed)

	_, err := f.svc.CancelBooking(context.Background(), b.ID, Actor{Role: ActorCustomer, CustomerID: b.CustomerID}, nil)
	assert.ErrorIs(t, err, ErrCancellationDisabled)

	// Staff may still cancel.
	_, err = f.svc.TransitionBooking(context.Background(), b.ID, StatusCancelled, Actor{Role: ActorStaff}, nil)
	assert.NoError(t, err)
}

func TestTransitionBooking_CustomerCannotConfirm(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))
	b := f.existingBooking(monday.AddDate(0, 0, 3).Add(10*time.Hour), StatusPending)

	_, err := f.svc.TransitionBooking(context.Background(), b.ID, StatusConfirmed, Actor{Role: ActorCustomer, CustomerID: b.CustomerID}, nil)

	var invalid *InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)
}

func TestTransitionBooking_NotFound(t *testing.T) {
	f := newBookingFixture(t, monday.Add(8*time.Hour))

	_, err := f.svc.TransitionBooking(context.Background(), uuid.New(), StatusConfirmed, Actor{Role: ActorStaff}, nil)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
