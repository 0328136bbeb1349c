package schedule

import (
	"time"

	"github.com/google/uuid"
)

// resolveRules picks the rules that govern one tenant+service+date out of
// everything loaded for that day. Precedence:
//
//  1. exception rules for the exact date, scoped to the service
//  2. exception rules for the exact date, scoped to no service
//  3. regular rules for the weekday, scoped to the service
//  4. regular rules for the weekday, scoped to no service
//
// The first non-empty tier wins outright: an exception is a full override of
// the weekly schedule, and a service-specific rule suppresses the general one
// for the same day. An empty result means the tenant is closed.
func resolveRules(rules []Rule, serviceID uuid.UUID, date time.Time) []Rule {
	var (
		exceptionService []Rule
		exceptionGeneral []Rule
		regularService   []Rule
		regularGeneral   []Rule
	)

	for _, r := range rules {
		if !r.AppliesTo(date) {
			continue
		}
		scoped := r.ServiceID != nil
		if scoped && *r.ServiceID != serviceID {
			continue
		}
		switch {
		case r.Kind == RuleException && scoped:
			exceptionService = append(exceptionService, r)
		case r.Kind == RuleException:
			exceptionGeneral = append(exceptionGeneral, r)
		case scoped:
			regularService = append(regularService, r)
		default:
			regularGeneral = append(regularGeneral, r)
		}
	}

	for _, tier := range [][]Rule{exceptionService, exceptionGeneral, regularService, regularGeneral} {
		if len(tier) > 0 {
			return tier
		}
	}
	return nil
}

// openWindows projects the applicable rules onto date and keeps only the
// open ones. A closed exception therefore yields no windows at all.
func openWindows(rules []Rule, date time.Time) ([]TimeWindow, error) {
	var windows []TimeWindow
	for _, r := range rules {
		if !r.IsAvailable {
			continue
		}
		w, err := r.Window(date)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// findConflict returns the first existing rule whose window overlaps the
// candidate within the same scope, or nil. Clock ranges are compared on a
// shared reference date so regular rules without a concrete date still go
// through the one TimeWindow overlap test.
func findConflict(candidate Rule, existing []Rule) (*Rule, error) {
	ref := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	cw, err := candidate.Window(ref)
	if err != nil {
		return nil, err
	}

	for i := range existing {
		r := existing[i]
		if r.ID == candidate.ID || !candidate.SameScope(r) {
			continue
		}
		rw, err := r.Window(ref)
		if err != nil {
			return nil, err
		}
		if cw.Overlaps(rw) {
			return &r, nil
		}
	}
	return nil, nil
}
