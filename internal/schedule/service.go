package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendly/booking-engine/internal/catalog"
)

// Service resolves availability rules, applies tenant policy and generates
// bookable slots. Slot listing is read-only and advisory: booking creation
// re-validates everything against current state.
type Service struct {
	repo     Repository
	catalog  catalog.Repository
	bookings BookingSource
	clock    Clock
}

func NewService(repo Repository, cat catalog.Repository, bookings BookingSource) *Service {
	return &Service{
		repo:     repo,
		catalog:  cat,
		bookings: bookings,
		clock:    SystemClock{},
	}
}

// PolicyFor returns the tenant's stored policy, or the defaults when the
// tenant has none.
func (s *Service) PolicyFor(ctx context.Context, tenantID uuid.UUID) (Policy, error) {
	p, err := s.repo.GetPolicy(ctx, tenantID)
	if err != nil {
		if errors.Is(err, ErrPolicyNotFound) {
			return DefaultPolicy(tenantID), nil
		}
		return Policy{}, fmt.Errorf("load policy: %w", err)
	}
	return *p, nil
}

// RulesFor returns the rules governing one tenant+service+date after
// precedence resolution. Empty means the tenant is closed that day.
func (s *Service) RulesFor(ctx context.Context, tenantID, serviceID uuid.UUID, date time.Time) ([]Rule, error) {
	rules, err := s.repo.ListRulesForDay(ctx, tenantID, serviceID, date)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return resolveRules(rules, serviceID, date), nil
}

// OpenWindows returns the open availability windows for the date, already
// projected onto it. Used both by slot generation and by the booking-time
// availability check.
func (s *Service) OpenWindows(ctx context.Context, tenantID, serviceID uuid.UUID, date time.Time) ([]TimeWindow, error) {
	rules, err := s.RulesFor(ctx, tenantID, serviceID, date)
	if err != nil {
		return nil, err
	}
	return openWindows(rules, date)
}

// GetAvailableSlots produces the ordered candidate slots for one day, each
// marked available or not against the tenant's active bookings.
func (s *Service) GetAvailableSlots(ctx context.Context, tenantID, serviceID uuid.UUID, professionalID *uuid.UUID, date time.Time) ([]Slot, error) {
	now := s.clock.Now()

	if dayStart(date).Before(dayStart(now)) {
		return []Slot{}, nil
	}

	policy, err := s.PolicyFor(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if policy.HasAdvanceLimit() {
		horizon := dayStart(now).AddDate(0, 0, policy.AdvanceBookingDays)
		if dayStart(date).After(horizon) {
			return nil, fmt.Errorf("%w: bookable up to %d days ahead", ErrDateTooFar, policy.AdvanceBookingDays)
		}
	}

	svc, err := s.catalog.GetService(ctx, tenantID, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return []Slot{}, nil
	}

	// A professional filter against a service nobody offers yields nothing;
	// the caller rejects bookings to unlinked professionals before this.
	if professionalID != nil {
		offered, err := s.catalog.ServiceHasProfessionals(ctx, serviceID)
		if err != nil {
			return nil, fmt.Errorf("check service professionals: %w", err)
		}
		if !offered {
			return []Slot{}, nil
		}
	}

	windows, err := s.OpenWindows(ctx, tenantID, serviceID, date)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return []Slot{}, nil
	}

	duration := svc.Duration()
	if duration <= 0 {
		duration = time.Duration(policy.SlotDurationMinutes) * time.Minute
	}
	step := duration + svc.Buffer() + time.Duration(policy.IntervalBetweenSlotsMinutes)*time.Minute

	busy, err := s.bookings.ListBusyWindows(ctx, tenantID, professionalID, date)
	if err != nil {
		return nil, fmt.Errorf("load busy windows: %w", err)
	}

	slots := generateSlots(windows, duration, step, busy)
	slots = filterLeadTime(slots, date, now, policy.MinNotice())

	if slots == nil {
		slots = []Slot{}
	}
	return slots, nil
}

// ListRules returns every rule of the tenant for the management API.
func (s *Service) ListRules(ctx context.Context, tenantID uuid.UUID) ([]Rule, error) {
	return s.repo.ListRules(ctx, tenantID)
}

// CreateRule persists a new availability rule after validating it does not
// overlap an existing rule in the same scope.
func (s *Service) CreateRule(ctx context.Context, r Rule) (*Rule, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkRuleConflict(ctx, r); err != nil {
		return nil, err
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return s.repo.InsertRule(ctx, r)
}

// UpdateRule replaces an existing rule, re-running the overlap validation
// against every rule but itself.
func (s *Service) UpdateRule(ctx context.Context, r Rule) (*Rule, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetRule(ctx, r.TenantID, r.ID); err != nil {
		return nil, err
	}
	if err := s.checkRuleConflict(ctx, r); err != nil {
		return nil, err
	}
	return s.repo.UpdateRule(ctx, r)
}

func (s *Service) DeleteRule(ctx context.Context, tenantID, ruleID uuid.UUID) error {
	return s.repo.DeleteRule(ctx, tenantID, ruleID)
}

func (s *Service) checkRuleConflict(ctx context.Context, r Rule) error {
	existing, err := s.repo.ListRules(ctx, r.TenantID)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	conflict, err := findConflict(r, existing)
	if err != nil {
		return err
	}
	if conflict != nil {
		return &RuleConflictError{Conflicting: *conflict}
	}
	return nil
}

// UpdatePolicy validates and stores the tenant's scheduling policy.
func (s *Service) UpdatePolicy(ctx context.Context, p Policy) (*Policy, error) {
	if err := validatePolicy(p); err != nil {
		return nil, err
	}
	return s.repo.UpsertPolicy(ctx, p)
}

func validatePolicy(p Policy) error {
	if p.SlotDurationMinutes <= 0 {
		return errors.New("slot duration must be positive")
	}
	if p.IntervalBetweenSlotsMinutes < 0 {
		return errors.New("interval between slots cannot be negative")
	}
	if p.AdvanceBookingDays < 0 {
		return errors.New("advance booking days cannot be negative")
	}
	if p.MinBookingNoticeMinutes < 0 {
		return errors.New("min booking notice cannot be negative")
	}
	if p.CancellationNoticeHours < 0 {
		return errors.New("cancellation notice cannot be negative")
	}
	if p.MaxBookingsPerDay != nil && *p.MaxBookingsPerDay <= 0 {
		return errors.New("max bookings per day must be positive when set")
	}
	return nil
}
