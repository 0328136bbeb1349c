package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agendly/booking-engine/internal/booking"
	"github.com/agendly/booking-engine/internal/catalog"
	"github.com/agendly/booking-engine/internal/schedule"
)

const dateFormat = "2006-01-02"

func getSlotsHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_tenant_id", "tenantID must be a valid UUID")
			return
		}
		serviceID, err := uuid.Parse(chi.URLParam(r, "serviceID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "serviceID must be a valid UUID")
			return
		}

		date, err := time.Parse(dateFormat, r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		var professionalID *uuid.UUID
		if raw := r.URL.Query().Get("professional_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_professional_id", "professional_id must be a valid UUID")
				return
			}
			professionalID = &id
		}

		slots, err := svc.GetAvailableSlots(r.Context(), tenantID, serviceID, professionalID, date)
		if err != nil {
			handleSlotsError(w, err)
			return
		}

		resp := GetSlotsResponse{
			TenantID:       tenantID,
			ServiceID:      serviceID,
			ProfessionalID: professionalID,
			Date:           date.Format(dateFormat),
			Slots:          make([]SlotResponse, 0, len(slots)),
		}
		for _, s := range slots {
			resp.Slots = append(resp.Slots, SlotResponse{Start: s.Start, End: s.End, Available: s.Available})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleSlotsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "service_not_found", err.Error())
	case errors.Is(err, schedule.ErrDateTooFar):
		writeError(w, http.StatusUnprocessableEntity, "date_too_far", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func createBookingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_tenant_id", "tenantID must be a valid UUID")
			return
		}

		var req CreateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		serviceID, err := uuid.Parse(req.ServiceID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "service_id must be a valid UUID")
			return
		}
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_customer_id", "customer_id must be a valid UUID")
			return
		}

		var professionalID *uuid.UUID
		if req.ProfessionalID != nil {
			id, err := uuid.Parse(*req.ProfessionalID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_professional_id", "professional_id must be a valid UUID")
				return
			}
			professionalID = &id
		}

		start, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_start_time", "start_time must be RFC 3339")
			return
		}

		b, err := svc.CreateBooking(r.Context(), booking.CreateBookingInput{
			TenantID:       tenantID,
			ServiceID:      serviceID,
			ProfessionalID: professionalID,
			CustomerID:     customerID,
			StartTime:      start,
			Notes:          req.Notes,
		})
		if err != nil {
			handleCreateBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toBookingResponse(b))
	}
}

func handleCreateBookingError(w http.ResponseWriter, err error) {
	var tooSoon *booking.TooSoonError

	switch {
	case errors.Is(err, catalog.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "service_not_found", err.Error())
	case errors.Is(err, catalog.ErrProfessionalNotFound):
		writeError(w, http.StatusNotFound, "professional_not_found", err.Error())
	case errors.As(err, &tooSoon):
		writeError(w, http.StatusUnprocessableEntity, "too_soon", err.Error())
	case errors.Is(err, schedule.ErrDateTooFar):
		writeError(w, http.StatusUnprocessableEntity, "date_too_far", err.Error())
	case errors.Is(err, booking.ErrOutsideAvailability):
		writeError(w, http.StatusUnprocessableEntity, "outside_availability", err.Error())
	case errors.Is(err, booking.ErrProfessionalMismatch):
		writeError(w, http.StatusUnprocessableEntity, "professional_service_mismatch", err.Error())
	case errors.Is(err, booking.ErrServiceInactive):
		writeError(w, http.StatusUnprocessableEntity, "service_inactive", err.Error())
	case errors.Is(err, booking.ErrDayFull):
		writeError(w, http.StatusConflict, "day_full", err.Error())
	case errors.Is(err, booking.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot_taken", err.Error())
	case errors.Is(err, booking.ErrSlotContended):
		writeError(w, http.StatusConflict, "slot_contended", "slot is currently being booked, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func getBookingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_booking_id", "id must be a valid UUID")
			return
		}

		b, err := svc.GetBooking(r.Context(), id)
		if err != nil {
			handleBookingLookupError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBookingResponse(b))
	}
}

func transitionBookingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_booking_id", "id must be a valid UUID")
			return
		}

		var req TransitionBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		b, err := svc.TransitionBooking(r.Context(), id, booking.Status(req.Status), booking.Actor{Role: booking.ActorStaff}, req.Reason)
		if err != nil {
			handleTransitionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBookingResponse(b))
	}
}

func cancelBookingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_booking_id", "id must be a valid UUID")
			return
		}

		var req CancelBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_customer_id", "customer_id must be a valid UUID")
			return
		}

		actor := booking.Actor{Role: booking.ActorCustomer, CustomerID: customerID}
		b, err := svc.CancelBooking(r.Context(), id, actor, req.Reason)
		if err != nil {
			handleTransitionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBookingResponse(b))
	}
}

func handleTransitionError(w http.ResponseWriter, err error) {
	var (
		invalid *booking.InvalidTransitionError
		tooLate *booking.CancellationTooLateError
	)

	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "booking_not_found", err.Error())
	case errors.Is(err, booking.ErrNotBookingOwner):
		writeError(w, http.StatusForbidden, "not_booking_owner", err.Error())
	case errors.Is(err, booking.ErrCancellationDisabled):
		writeError(w, http.StatusForbidden, "cancellation_disabled", err.Error())
	case errors.As(err, &tooLate):
		writeError(w, http.StatusConflict, "cancellation_too_late", err.Error())
	case errors.As(err, &invalid):
		writeError(w, http.StatusConflict, "invalid_transition", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleBookingLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "booking_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func listTenantBookingsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_tenant_id", "tenantID must be a valid UUID")
			return
		}

		day, err := time.Parse(dateFormat, r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		bookings, err := svc.ListTenantBookings(r.Context(), tenantID, day)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, bookingListResponse(bookings))
	}
}

func listCustomerBookingsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := uuid.Parse(chi.URLParam(r, "customerID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_customer_id", "customerID must be a valid UUID")
			return
		}

		limit := queryInt(r, "limit", 20)
		offset := queryInt(r, "offset", 0)

		bookings, err := svc.ListCustomerBookings(r.Context(), customerID, limit, offset)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, bookingListResponse(bookings))
	}
}

func bookingListResponse(bookings []booking.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	return out
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
