package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agendly/booking-engine/internal/db"
	"github.com/agendly/booking-engine/internal/schedule"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedTenants(context.Background(), pool, 20); err != nil {
		log.Fatalf("seed tenants: %v", err)
	}

	log.Println("seed complete")
}

// seedTenants creates each tenant with a handful of services, professionals
// linked to them, a Monday-to-Saturday weekly schedule and a stored policy.
func seedTenants(ctx context.Context, pool *pgxpool.Pool, count int) error {
	serviceNames := []string{
		"Haircut",
		"Beard Trim",
		"Manicure",
		"Deep Tissue Massage",
		"Facial Treatment",
		"Color & Highlights",
		"Consultation",
		"Full Detail",
	}

	for i := 0; i < count; i++ {
		tenantID := uuid.New()

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		var serviceIDs []uuid.UUID
		for s := 0; s < gofakeit.Number(2, 5); s++ {
			id := uuid.New()
			name := serviceNames[gofakeit.Number(0, len(serviceNames)-1)]
			duration := []int{30, 45, 60}[gofakeit.Number(0, 2)]
			buffer := []int{0, 5, 10}[gofakeit.Number(0, 2)]
			price := gofakeit.Price(15, 250)

			_, err := tx.Exec(ctx, `
				INSERT INTO services
					(id, tenant_id, name, duration_minutes, buffer_time_minutes,
					 price, requires_approval, max_bookings_per_slot, is_active, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, 1, true, now(), now())
			`, id, tenantID, name, duration, buffer, price, gofakeit.Bool())
			if err != nil {
				_ = tx.Rollback(ctx)
				return fmt.Errorf("insert service: %w", err)
			}
			serviceIDs = append(serviceIDs, id)
		}

		for p := 0; p < gofakeit.Number(1, 4); p++ {
			profID := uuid.New()
			_, err := tx.Exec(ctx, `
				INSERT INTO professionals (id, tenant_id, name, is_active, created_at, updated_at)
				VALUES ($1, $2, $3, true, now(), now())
			`, profID, tenantID, gofakeit.Name())
			if err != nil {
				_ = tx.Rollback(ctx)
				return fmt.Errorf("insert professional: %w", err)
			}

			for _, svcID := range serviceIDs {
				if !gofakeit.Bool() {
					continue
				}
				_, err := tx.Exec(ctx, `
					INSERT INTO professional_services (professional_id, service_id)
					VALUES ($1, $2)
					ON CONFLICT DO NOTHING
				`, profID, svcID)
				if err != nil {
					_ = tx.Rollback(ctx)
					return fmt.Errorf("link professional: %w", err)
				}
			}
		}

		// Open Monday through Saturday, 09:00-18:00.
		for wd := int(time.Monday); wd <= int(time.Saturday); wd++ {
			_, err := tx.Exec(ctx, `
				INSERT INTO availability_rules
					(id, tenant_id, service_id, kind, weekday, rule_date,
					 start_clock, end_clock, is_available, created_at, updated_at)
				VALUES ($1, $2, NULL, 'regular', $3, NULL, '09:00', '18:00', true, now(), now())
			`, uuid.New(), tenantID, wd)
			if err != nil {
				_ = tx.Rollback(ctx)
				return fmt.Errorf("insert rule: %w", err)
			}
		}

		policy := schedule.DefaultPolicy(tenantID)
		_, err = tx.Exec(ctx, `
			INSERT INTO tenant_policies
				(tenant_id, slot_duration_minutes, interval_between_slots_minutes,
				 advance_booking_days, min_booking_notice_minutes, max_bookings_per_day,
				 allow_cancellation, cancellation_notice_hours, auto_confirm_bookings,
				 created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NULL, $6, $7, $8, now(), now())
		`, policy.TenantID, policy.SlotDurationMinutes, policy.IntervalBetweenSlotsMinutes,
			policy.AdvanceBookingDays, policy.MinBookingNoticeMinutes,
			policy.AllowCancellation, policy.CancellationNoticeHours, gofakeit.Bool())
		if err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("insert policy: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("tenants seeded: %d/%d", i+1, count)
	}

	return nil
}
