package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RuleKind string

const (
	// RuleRegular recurs weekly on Weekday.
	RuleRegular RuleKind = "regular"
	// RuleException applies to a single calendar Date and fully overrides
	// any regular rules for that date.
	RuleException RuleKind = "exception"
)

const clockFormat = "15:04"

var (
	ErrRuleNotFound = errors.New("availability rule not found")
	ErrInvalidRule  = errors.New("invalid availability rule")
)

// Rule is one statement of open (or closed) hours for a tenant. A nil
// ServiceID means the rule applies to every service that has no
// service-specific rule for the same day.
type Rule struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	ServiceID   *uuid.UUID
	Kind        RuleKind
	Weekday     time.Weekday // regular rules only
	Date        *time.Time   // exception rules only, midnight in tenant's location
	StartClock  string       // "HH:MM"
	EndClock    string       // "HH:MM"
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the rule's internal consistency before it is persisted.
func (r Rule) Validate() error {
	switch r.Kind {
	case RuleRegular:
		if r.Date != nil {
			return fmt.Errorf("%w: regular rule must not carry a date", ErrInvalidRule)
		}
	case RuleException:
		if r.Date == nil {
			return fmt.Errorf("%w: exception rule requires a date", ErrInvalidRule)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, r.Kind)
	}

	start, err := parseClock(r.StartClock)
	if err != nil {
		return fmt.Errorf("%w: start %q: %v", ErrInvalidRule, r.StartClock, err)
	}
	end, err := parseClock(r.EndClock)
	if err != nil {
		return fmt.Errorf("%w: end %q: %v", ErrInvalidRule, r.EndClock, err)
	}
	if start >= end {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidRule, r.StartClock, r.EndClock)
	}
	return nil
}

// AppliesTo reports whether the rule is in effect on the given calendar date.
func (r Rule) AppliesTo(date time.Time) bool {
	if r.Kind == RuleException {
		return r.Date != nil && sameDay(*r.Date, date)
	}
	return r.Weekday == date.Weekday()
}

// Window projects the rule's clock range onto the given calendar date.
func (r Rule) Window(date time.Time) (TimeWindow, error) {
	start, err := clockOnDate(r.StartClock, date)
	if err != nil {
		return TimeWindow{}, err
	}
	end, err := clockOnDate(r.EndClock, date)
	if err != nil {
		return TimeWindow{}, err
	}
	return NewTimeWindow(start, end)
}

// SameScope reports whether two rules compete for the same tenant, service
// scope and day. Only rules in the same scope are checked for overlap on
// write.
func (r Rule) SameScope(o Rule) bool {
	if r.TenantID != o.TenantID || r.Kind != o.Kind {
		return false
	}
	if (r.ServiceID == nil) != (o.ServiceID == nil) {
		return false
	}
	if r.ServiceID != nil && *r.ServiceID != *o.ServiceID {
		return false
	}
	if r.Kind == RuleException {
		return r.Date != nil && o.Date != nil && sameDay(*r.Date, *o.Date)
	}
	return r.Weekday == o.Weekday
}

// parseClock returns minutes from midnight for an "HH:MM" string.
func parseClock(s string) (int, error) {
	t, err := time.Parse(clockFormat, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func clockOnDate(s string, date time.Time) (time.Time, error) {
	t, err := time.Parse(clockFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// dayStart truncates t to midnight in its location.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
