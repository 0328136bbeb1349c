package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanService(row pgx.Row) (*Service, error) {
	var s Service

	err := row.Scan(
		&s.ID,
		&s.TenantID,
		&s.Name,
		&s.DurationMinutes,
		&s.BufferTimeMinutes,
		&s.Price,
		&s.RequiresApproval,
		&s.MaxBookingsPerSlot,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *PgRepository) GetService(ctx context.Context, tenantID, serviceID uuid.UUID) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, name, duration_minutes, buffer_time_minutes,
		       price, requires_approval, max_bookings_per_slot, is_active,
		       created_at, updated_at
		FROM services
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, serviceID)
	return scanService(row)
}

func (r *PgRepository) GetProfessional(ctx context.Context, tenantID, professionalID uuid.UUID) (*Professional, error) {
	var p Professional

	err := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, name, is_active, created_at, updated_at
		FROM professionals
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, professionalID).Scan(
		&p.ID,
		&p.TenantID,
		&p.Name,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfessionalNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *PgRepository) ProfessionalOffersService(ctx context.Context, professionalID, serviceID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM professional_services
			WHERE professional_id = $1 AND service_id = $2
		)
	`, professionalID, serviceID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PgRepository) ServiceHasProfessionals(ctx context.Context, serviceID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM professional_services
			WHERE service_id = $1
		)
	`, serviceID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
