package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agendly/booking-engine/internal/schedule"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const bookingColumns = `id, tenant_id, service_id, professional_id, customer_id, start_time,
	duration_minutes, price, status, notes, cancellation_reason, cancelled_at, created_at, updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking

	err := row.Scan(
		&b.ID,
		&b.TenantID,
		&b.ServiceID,
		&b.ProfessionalID,
		&b.CustomerID,
		&b.StartTime,
		&b.DurationMinutes,
		&b.Price,
		&b.Status,
		&b.Notes,
		&b.CancellationReason,
		&b.CancelledAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
	defer rows.Close()

	var result []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1
	`, id)
	return scanBooking(row)
}

func (r *PgRepository) ListActiveForDay(ctx context.Context, tenantID uuid.UUID, professionalID *uuid.UUID, day time.Time) ([]Booking, error) {
	dayFrom, dayTo := dayBounds(day)

	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE tenant_id = $1
		  AND start_time >= $2 AND start_time < $3
		  AND status NOT IN ('cancelled', 'no_show')
		  AND ($4::uuid IS NULL OR professional_id = $4 OR professional_id IS NULL)
		ORDER BY start_time
	`, tenantID, dayFrom, dayTo, professionalID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PgRepository) CountActiveForDay(ctx context.Context, tenantID uuid.UUID, day time.Time) (int, error) {
	dayFrom, dayTo := dayBounds(day)

	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM bookings
		WHERE tenant_id = $1
		  AND start_time >= $2 AND start_time < $3
		  AND status NOT IN ('cancelled', 'no_show')
	`, tenantID, dayFrom, dayTo).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PgRepository) Insert(ctx context.Context, b Booking) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO bookings
			(id, tenant_id, service_id, professional_id, customer_id, start_time,
			 duration_minutes, price, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		RETURNING `+bookingColumns+`
	`, b.ID, b.TenantID, b.ServiceID, b.ProfessionalID, b.CustomerID, b.StartTime,
		b.DurationMinutes, b.Price, b.Status, b.Notes)
	return scanBooking(row)
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, reason *string, cancelledAt *time.Time) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE bookings
		SET status = $2,
		    cancellation_reason = COALESCE($4, cancellation_reason),
		    cancelled_at = COALESCE($5, cancelled_at),
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING `+bookingColumns+`
	`, id, to, from, reason, cancelledAt)
	return scanBooking(row)
}

func (r *PgRepository) ListByTenantDay(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]Booking, error) {
	dayFrom, dayTo := dayBounds(day)

	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE tenant_id = $1
		  AND start_time >= $2 AND start_time < $3
		ORDER BY start_time
	`, tenantID, dayFrom, dayTo)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PgRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE customer_id = $1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3
	`, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ListBusyWindows implements schedule.BookingSource for the slot generator.
func (r *PgRepository) ListBusyWindows(ctx context.Context, tenantID uuid.UUID, professionalID *uuid.UUID, day time.Time) ([]schedule.TimeWindow, error) {
	bookings, err := r.ListActiveForDay(ctx, tenantID, professionalID, day)
	if err != nil {
		return nil, err
	}

	windows := make([]schedule.TimeWindow, 0, len(bookings))
	for i := range bookings {
		windows = append(windows, bookings[i].Window())
	}
	return windows, nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return from, from.AddDate(0, 0, 1)
}
