package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrServiceNotFound      = errors.New("service not found")
	ErrProfessionalNotFound = errors.New("professional not found")
)

// Repository is the read side of the tenant catalog consumed by the
// scheduling engine.
type Repository interface {
	GetService(ctx context.Context, tenantID, serviceID uuid.UUID) (*Service, error)
	GetProfessional(ctx context.Context, tenantID, professionalID uuid.UUID) (*Professional, error)

	// ProfessionalOffersService reports whether the professional is linked
	// to the service. Bookings naming a professional are rejected when the
	// link is missing.
	ProfessionalOffersService(ctx context.Context, professionalID, serviceID uuid.UUID) (bool, error)

	// ServiceHasProfessionals reports whether any professional is assigned
	// to the service at all.
	ServiceHasProfessionals(ctx context.Context, serviceID uuid.UUID) (bool, error)
}
