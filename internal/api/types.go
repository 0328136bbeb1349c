package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/agendly/booking-engine/internal/booking"
	"github.com/agendly/booking-engine/internal/schedule"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type SlotResponse struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

type GetSlotsResponse struct {
	TenantID       uuid.UUID      `json:"tenant_id"`
	ServiceID      uuid.UUID      `json:"service_id"`
	ProfessionalID *uuid.UUID     `json:"professional_id,omitempty"`
	Date           string         `json:"date"`
	Slots          []SlotResponse `json:"slots"`
}

type CreateBookingRequest struct {
	ServiceID      string  `json:"service_id"`
	ProfessionalID *string `json:"professional_id,omitempty"`
	CustomerID     string  `json:"customer_id"`
	StartTime      string  `json:"start_time"` // RFC 3339
	Notes          *string `json:"notes,omitempty"`
}

type TransitionBookingRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

type CancelBookingRequest struct {
	CustomerID string  `json:"customer_id"`
	Reason     *string `json:"reason,omitempty"`
}

type BookingResponse struct {
	ID                 uuid.UUID  `json:"id"`
	TenantID           uuid.UUID  `json:"tenant_id"`
	ServiceID          uuid.UUID  `json:"service_id"`
	ProfessionalID     *uuid.UUID `json:"professional_id,omitempty"`
	CustomerID         uuid.UUID  `json:"customer_id"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	DurationMinutes    int        `json:"duration_minutes"`
	Price              float64    `json:"price"`
	Status             string     `json:"status"`
	Notes              *string    `json:"notes,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:                 b.ID,
		TenantID:           b.TenantID,
		ServiceID:          b.ServiceID,
		ProfessionalID:     b.ProfessionalID,
		CustomerID:         b.CustomerID,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime(),
		DurationMinutes:    b.DurationMinutes,
		Price:              b.Price,
		Status:             string(b.Status),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
	}
}

type RuleRequest struct {
	ServiceID   *string `json:"service_id,omitempty"`
	Kind        string  `json:"kind"` // regular | exception
	Weekday     *int    `json:"weekday,omitempty"`
	Date        *string `json:"date,omitempty"` // YYYY-MM-DD, exception rules
	StartClock  string  `json:"start"`          // HH:MM
	EndClock    string  `json:"end"`            // HH:MM
	IsAvailable bool    `json:"is_available"`
}

type RuleResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	ServiceID   *uuid.UUID `json:"service_id,omitempty"`
	Kind        string     `json:"kind"`
	Weekday     int        `json:"weekday"`
	Date        *string    `json:"date,omitempty"`
	StartClock  string     `json:"start"`
	EndClock    string     `json:"end"`
	IsAvailable bool       `json:"is_available"`
}

func toRuleResponse(r schedule.Rule) RuleResponse {
	resp := RuleResponse{
		ID:          r.ID,
		TenantID:    r.TenantID,
		ServiceID:   r.ServiceID,
		Kind:        string(r.Kind),
		Weekday:     int(r.Weekday),
		StartClock:  r.StartClock,
		EndClock:    r.EndClock,
		IsAvailable: r.IsAvailable,
	}
	if r.Date != nil {
		d := r.Date.Format("2006-01-02")
		resp.Date = &d
	}
	return resp
}

type PolicyRequest struct {
	SlotDurationMinutes         int  `json:"slot_duration_minutes"`
	IntervalBetweenSlotsMinutes int  `json:"interval_between_slots_minutes"`
	AdvanceBookingDays          int  `json:"advance_booking_days"`
	MinBookingNoticeMinutes     int  `json:"min_booking_notice_minutes"`
	MaxBookingsPerDay           *int `json:"max_bookings_per_day,omitempty"`
	AllowCancellation           bool `json:"allow_cancellation"`
	CancellationNoticeHours     int  `json:"cancellation_notice_hours"`
	AutoConfirmBookings         bool `json:"auto_confirm_bookings"`
}

type PolicyResponse struct {
	TenantID                    uuid.UUID `json:"tenant_id"`
	SlotDurationMinutes         int       `json:"slot_duration_minutes"`
	IntervalBetweenSlotsMinutes int       `json:"interval_between_slots_minutes"`
	AdvanceBookingDays          int       `json:"advance_booking_days"`
	MinBookingNoticeMinutes     int       `json:"min_booking_notice_minutes"`
	MaxBookingsPerDay           *int      `json:"max_bookings_per_day,omitempty"`
	AllowCancellation           bool      `json:"allow_cancellation"`
	CancellationNoticeHours     int       `json:"cancellation_notice_hours"`
	AutoConfirmBookings         bool      `json:"auto_confirm_bookings"`
}

func toPolicyResponse(p schedule.Policy) PolicyResponse {
	return PolicyResponse{
		TenantID:                    p.TenantID,
		SlotDurationMinutes:         p.SlotDurationMinutes,
		IntervalBetweenSlotsMinutes: p.IntervalBetweenSlotsMinutes,
		AdvanceBookingDays:          p.AdvanceBookingDays,
		MinBookingNoticeMinutes:     p.MinBookingNoticeMinutes,
		MaxBookingsPerDay:           p.MaxBookingsPerDay,
		AllowCancellation:           p.AllowCancellation,
		CancellationNoticeHours:     p.CancellationNoticeHours,
		AutoConfirmBookings:         p.AutoConfirmBookings,
	}
}
