package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrDateTooFar is returned when the requested date exceeds the
	// tenant's advance-booking horizon.
	ErrDateTooFar = errors.New("date is beyond the advance booking horizon")
)

// RuleConflictError is returned when a new or edited rule overlaps an
// existing rule in the same tenant+service+day scope. It carries the
// conflicting rule so callers can show its window.
type RuleConflictError struct {
	Conflicting Rule
}

func (e *RuleConflictError) Error() string {
	return fmt.Sprintf("rule overlaps existing rule %s-%s",
		e.Conflicting.StartClock, e.Conflicting.EndClock)
}
