package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

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

const ruleColumns = `id, tenant_id, service_id, kind, weekday, rule_date, start_clock, end_clock, is_available, created_at, updated_at`

func scanRule(row pgx.Row) (*Rule, error) {
	var (
		r       Rule
		weekday int
	)

	err := row.Scan(
		&r.ID,
		&r.TenantID,
		&r.ServiceID,
		&r.Kind,
		&weekday,
		&r.Date,
		&r.StartClock,
		&r.EndClock,
		&r.IsAvailable,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}

	r.Weekday = time.Weekday(weekday)
	return &r, nil
}

func collectRules(rows pgx.Rows) ([]Rule, error) {
	defer rows.Close()

	var result []Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PgRepository) ListRulesForDay(ctx context.Context, tenantID, serviceID uuid.UUID, date time.Time) ([]Rule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ruleColumns+`
		FROM availability_rules
		WHERE tenant_id = $1
		  AND (service_id IS NULL OR service_id = $2)
		  AND (
		        (kind = 'regular' AND weekday = $3)
		     OR (kind = 'exception' AND rule_date = $4)
		  )
		ORDER BY start_clock
	`, tenantID, serviceID, int(date.Weekday()), dayStart(date))
	if err != nil {
		return nil, err
	}
	return collectRules(rows)
}

func (r *PgRepository) ListRules(ctx context.Context, tenantID uuid.UUID) ([]Rule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ruleColumns+`
		FROM availability_rules
		WHERE tenant_id = $1
		ORDER BY kind, weekday, rule_date, start_clock
	`, tenantID)
	if err != nil {
		return nil, err
	}
	return collectRules(rows)
}

func (r *PgRepository) GetRule(ctx context.Context, tenantID, ruleID uuid.UUID) (*Rule, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+ruleColumns+`
		FROM availability_rules
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, ruleID)
	return scanRule(row)
}

func (r *PgRepository) InsertRule(ctx context.Context, rule Rule) (*Rule, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO availability_rules
			(id, tenant_id, service_id, kind, weekday, rule_date, start_clock, end_clock, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING `+ruleColumns+`
	`, rule.ID, rule.TenantID, rule.ServiceID, rule.Kind, int(rule.Weekday), nullableDay(rule.Date),
		rule.StartClock, rule.EndClock, rule.IsAvailable)
	return scanRule(row)
}

func (r *PgRepository) UpdateRule(ctx context.Context, rule Rule) (*Rule, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE availability_rules
		SET service_id = $3,
		    kind = $4,
		    weekday = $5,
		    rule_date = $6,
		    start_clock = $7,
		    end_clock = $8,
		    is_available = $9,
		    updated_at = now()
		WHERE tenant_id = $1 AND id = $2
		RETURNING `+ruleColumns+`
	`, rule.TenantID, rule.ID, rule.ServiceID, rule.Kind, int(rule.Weekday), nullableDay(rule.Date),
		rule.StartClock, rule.EndClock, rule.IsAvailable)
	return scanRule(row)
}

func (r *PgRepository) DeleteRule(ctx context.Context, tenantID, ruleID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM availability_rules
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, ruleID)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func (r *PgRepository) GetPolicy(ctx context.Context, tenantID uuid.UUID) (*Policy, error) {
	var p Policy

	err := r.pool.QueryRow(ctx, `
		SELECT tenant_id, slot_duration_minutes, interval_between_slots_minutes,
		       advance_booking_days, min_booking_notice_minutes, max_bookings_per_day,
		       allow_cancellation, cancellation_notice_hours, auto_confirm_bookings,
		       created_at, updated_at
		FROM tenant_policies
		WHERE tenant_id = $1
	`, tenantID).Scan(
		&p.TenantID,
		&p.SlotDurationMinutes,
		&p.IntervalBetweenSlotsMinutes,
		&p.AdvanceBookingDays,
		&p.MinBookingNoticeMinutes,
		&p.MaxBookingsPerDay,
		&p.AllowCancellation,
		&p.CancellationNoticeHours,
		&p.AutoConfirmBookings,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPolicyNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *PgRepository) UpsertPolicy(ctx context.Context, p Policy) (*Policy, error) {
	var out Policy

	err := r.pool.QueryRow(ctx, `
		INSERT INTO tenant_policies
			(tenant_id, slot_duration_minutes, interval_between_slots_minutes,
			 advance_booking_days, min_booking_notice_minutes, max_bookings_per_day,
			 allow_cancellation, cancellation_notice_hours, auto_confirm_bookings,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (tenant_id) DO UPDATE
		SET slot_duration_minutes = EXCLUDED.slot_duration_minutes,
		    interval_between_slots_minutes = EXCLUDED.interval_between_slots_minutes,
		    advance_booking_days = EXCLUDED.advance_booking_days,
		    min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
		    max_bookings_per_day = EXCLUDED.max_bookings_per_day,
		    allow_cancellation = EXCLUDED.allow_cancellation,
		    cancellation_notice_hours = EXCLUDED.cancellation_notice_hours,
		    auto_confirm_bookings = EXCLUDED.auto_confirm_bookings,
		    updated_at = now()
		RETURNING tenant_id, slot_duration_minutes, interval_between_slots_minutes,
		          advance_booking_days, min_booking_notice_minutes, max_bookings_per_day,
		          allow_cancellation, cancellation_notice_hours, auto_confirm_bookings,
		          created_at, updated_at
	`, p.TenantID, p.SlotDurationMinutes, p.IntervalBetweenSlotsMinutes,
		p.AdvanceBookingDays, p.MinBookingNoticeMinutes, p.MaxBookingsPerDay,
		p.AllowCancellation, p.CancellationNoticeHours, p.AutoConfirmBookings,
	).Scan(
		&out.TenantID,
		&out.SlotDurationMinutes,
		&out.IntervalBetweenSlotsMinutes,
		&out.AdvanceBookingDays,
		&out.MinBookingNoticeMinutes,
		&out.MaxBookingsPerDay,
		&out.AllowCancellation,
		&out.CancellationNoticeHours,
		&out.AutoConfirmBookings,
		&out.CreatedAt,
		&out.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert policy: %w", err)
	}

	return &out, nil
}

func nullableDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dayStart(*t)
	return &d
}
