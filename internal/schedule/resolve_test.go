package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func regularRule(tenantID uuid.UUID, serviceID *uuid.UUID, wd time.Weekday, start, end string, open bool) Rule {
	return Rule{
		ID:          uuid.New(),
		TenantID:    tenantID,
		ServiceID:   serviceID,
		Kind:        RuleRegular,
		Weekday:     wd,
		StartClock:  start,
		EndClock:    end,
		IsAvailable: open,
	}
}

func exceptionRule(tenantID uuid.UUID, serviceID *uuid.UUID, date time.Time, start, end string, open bool) Rule {
	d := dayStart(date)
	return Rule{
		ID:          uuid.New(),
		TenantID:    tenantID,
		ServiceID:   serviceID,
		Kind:        RuleException,
		Date:        &d,
		StartClock:  start,
		EndClock:    end,
		IsAvailable: open,
	}
}

func TestResolveRules_Precedence(t *testing.T) {
	tenantID := uuid.New()
	serviceID := uuid.New()
	otherService := uuid.New()
	date := monday // a Monday

	general := regularRule(tenantID, nil, time.Monday, "09:00", "18:00", true)
	scoped := regularRule(tenantID, &serviceID, time.Monday, "10:00", "14:00", true)
	otherScoped := regularRule(tenantID, &otherService, time.Monday, "08:00", "09:00", true)
	generalException := exceptionRule(tenantID, nil, date, "12:00", "16:00", true)
	scopedException := exceptionRule(tenantID, &serviceID, date, "13:00", "15:00", true)

	t.Run("general regular only", func(t *testing.T) {
		got := resolveRules([]Rule{general, otherScoped}, serviceID, date)
		require.Len(t, got, 1)
		assert.Equal(t, general.ID, got[0].ID)
	})

	t.Run("service rule suppresses general", func(t *testing.T) {
		got := resolveRules([]Rule{general, scoped}, serviceID, date)
		require.Len(t, got, 1)
		assert.Equal(t, scoped.ID, got[0].ID)
	})

	t.Run("general exception overrides all regular", func(t *testing.T) {
		got := resolveRules([]Rule{general, scoped, generalException}, serviceID, date)
		require.Len(t, got, 1)
		assert.Equal(t, generalException.ID, got[0].ID)
	})

	t.Run("service exception wins over general exception", func(t *testing.T) {
		got := resolveRules([]Rule{general, scoped, generalException, scopedException}, serviceID, date)
		require.Len(t, got, 1)
		assert.Equal(t, scopedException.ID, got[0].ID)
	})

	t.Run("exception on another date is ignored", func(t *testing.T) {
		staleException := exceptionRule(tenantID, nil, date.AddDate(0, 0, 1), "12:00", "16:00", true)
		got := resolveRules([]Rule{general, staleException}, serviceID, date)
		require.Len(t, got, 1)
		assert.Equal(t, general.ID, got[0].ID)
	})

	t.Run("no rules means closed", func(t *testing.T) {
		got := resolveRules([]Rule{otherScoped}, serviceID, date.AddDate(0, 0, 1))
		assert.Empty(t, got)
	})
}

func TestOpenWindows_ClosedExceptionSuppressesDay(t *testing.T) {
	tenantID := uuid.New()
	serviceID := uuid.New()

	rules := resolveRules([]Rule{
		regularRule(tenantID, nil, time.Monday, "09:00", "18:00", true),
		exceptionRule(tenantID, nil, monday, "00:00", "23:59", false),
	}, serviceID, monday)

	windows, err := openWindows(rules, monday)
	require.NoError(t, err)
	assert.Empty(t, windows, "closed exception must suppress the weekly schedule")
}

func TestFindConflict(t *testing.T) {
	tenantID := uuid.New()
	serviceID := uuid.New()

	existing := []Rule{
		regularRule(tenantID, nil, time.Monday, "09:00", "12:00", true),
		regularRule(tenantID, nil, time.Tuesday, "09:00", "12:00", true),
		regularRule(tenantID, &serviceID, time.Monday, "13:00", "15:00", true),
	}

	t.Run("overlapping same scope", func(t *testing.T) {
		candidate := regularRule(tenantID, nil, time.Monday, "11:00", "14:00", true)
		conflict, err := findConflict(candidate, existing)
		require.NoError(t, err)
		require.NotNil(t, conflict)
		assert.Equal(t, "09:00", conflict.StartClock)
	})

	t.Run("exact duplicate", func(t *testing.T) {
		candidate := regularRule(tenantID, nil, time.Monday, "09:00", "12:00", true)
		conflict, err := findConflict(candidate, existing)
		require.NoError(t, err)
		assert.NotNil(t, conflict)
	})

	t.Run("adjacent is allowed", func(t *testing.T) {
		candidate := regularRule(tenantID, nil, time.Monday, "12:00", "14:00", true)
		conflict, err := findConflict(candidate, existing)
		require.NoError(t, err)
		assert.Nil(t, conflict)
	})

	t.Run("different weekday does not conflict", func(t *testing.T) {
		candidate := regularRule(tenantID, nil, time.Wednesday, "09:00", "12:00", true)
		conflict, err := findConflict(candidate, existing)
		require.NoError(t, err)
		assert.Nil(t, conflict)
	})

	t.Run("service scope is separate from general", func(t *testing.T) {
		candidate := regularRule(tenantID, &serviceID, time.Monday, "09:00", "12:00", true)
		conflict, err := findConflict(candidate, existing)
		require.NoError(t, err)
		assert.Nil(t, conflict)
	})

	t.Run("updating a rule skips itself", func(t *testing.T) {
		candidate := existing[0]
		candidate.EndClock = "11:00"
		conflict, err := findConflict(candidate, existing)
		require.NoError(t, err)
		assert.Nil(t, conflict)
	})
}

func TestRuleValidate(t *testing.T) {
	tenantID := uuid.New()

	t.Run("valid regular", func(t *testing.T) {
		assert.NoError(t, regularRule(tenantID, nil, time.Monday, "09:00", "18:00", true).Validate())
	})

	t.Run("inverted clocks", func(t *testing.T) {
		r := regularRule(tenantID, nil, time.Monday, "18:00", "09:00", true)
		assert.ErrorIs(t, r.Validate(), ErrInvalidRule)
	})

	t.Run("regular rule with a date", func(t *testing.T) {
		r := regularRule(tenantID, nil, time.Monday, "09:00", "18:00", true)
		d := monday
		r.Date = &d
		assert.ErrorIs(t, r.Validate(), ErrInvalidRule)
	})

	t.Run("exception without a date", func(t *testing.T) {
		r := exceptionRule(tenantID, nil, monday, "09:00", "18:00", true)
		r.Date = nil
		assert.ErrorIs(t, r.Validate(), ErrInvalidRule)
	})

	t.Run("garbage clock", func(t *testing.T) {
		r := regularRule(tenantID, nil, time.Monday, "9am", "18:00", true)
		assert.ErrorIs(t, r.Validate(), ErrInvalidRule)
	})
}
