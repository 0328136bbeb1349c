package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrPolicyNotFound = errors.New("policy not found")

// Repository contains all DB interactions needed by the scheduling service.
type Repository interface {
	// ListRulesForDay loads every rule of the tenant that could apply to the
	// given date and service: regular rules for the weekday and exception
	// rules for the exact date, both service-scoped and general. Resolution
	// precedence is applied in memory.
	ListRulesForDay(ctx context.Context, tenantID, serviceID uuid.UUID, date time.Time) ([]Rule, error)

	// ListRules loads all rules of a tenant, used by the write-side overlap
	// validation and the management API.
	ListRules(ctx context.Context, tenantID uuid.UUID) ([]Rule, error)

	GetRule(ctx context.Context, tenantID, ruleID uuid.UUID) (*Rule, error)
	InsertRule(ctx context.Context, r Rule) (*Rule, error)
	UpdateRule(ctx context.Context, r Rule) (*Rule, error)
	DeleteRule(ctx context.Context, tenantID, ruleID uuid.UUID) error

	GetPolicy(ctx context.Context, tenantID uuid.UUID) (*Policy, error)
	UpsertPolicy(ctx context.Context, p Policy) (*Policy, error)
}

// BookingSource supplies the occupied windows the slot generator marks
// availability against. Implemented by the booking repository.
type BookingSource interface {
	ListBusyWindows(ctx context.Context, tenantID uuid.UUID, professionalID *uuid.UUID, day time.Time) ([]TimeWindow, error)
}
