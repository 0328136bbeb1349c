package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agendly/booking-engine/internal/schedule"
)

// Rule and policy management. These are staff-only, low-frequency
// operations; authentication happens upstream of this service.

func listRulesHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_tenant_id", "tenantID must be a valid UUID")
			return
		}

		rules, err := svc.ListRules(r.Context(), tenantID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]RuleResponse, 0, len(rules))
		for _, rule := range rules {
			out = append(out, toRuleResponse(rule))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createRuleHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_tenant_id", "tenantID must be a valid UUID")
			return
		}

		rule, ok := decodeRule(w, r, tenantID, uuid.Nil)
		if !ok {
			return
		}

		created, err := svc.CreateRule(r.Context(), rule)
		if err != nil {
			handleRuleError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toRuleResponse(*created))
	}
}

func updateRuleHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_tenant_id", "tenantID must be a valid UUID")
			return
		}
		ruleID, err := uuid.Parse(chi.URLParam(r, "ruleID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_rule_id", "ruleID must be a valid UUID")
			return
		}

		rule, ok := decodeRule(w, r, tenantID, ruleID)
		if !ok {
			return
		}

		updated, err := svc.UpdateRule(r.Context(), rule)
		if err != nil {
			handleRuleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toRuleResponse(*updated))
	}
}

func deleteRuleHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_tenant_id", "tenantID must be a valid UUID")
			return
		}
		ruleID, err := uuid.Parse(chi.URLParam(r, "ruleID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_rule_id", "ruleID must be a valid UUID")
			return
		}

		if err := svc.DeleteRule(r.Context(), tenantID, ruleID); err != nil {
			handleRuleError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func decodeRule(w http.ResponseWriter, r *http.Request, tenantID, ruleID uuid.UUID) (schedule.Rule, bool) {
	var req RuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return schedule.Rule{}, false
	}

	rule := schedule.Rule{
		ID:          ruleID,
		TenantID:    tenantID,
		Kind:        schedule.RuleKind(req.Kind),
		StartClock:  req.StartClock,
		EndClock:    req.EndClock,
		IsAvailable: req.IsAvailable,
	}

	if req.ServiceID != nil {
		id, err := uuid.Parse(*req.ServiceID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "service_id must be a valid UUID")
			return schedule.Rule{}, false
		}
		rule.ServiceID = &id
	}

	if req.Weekday != nil {
		if *req.Weekday < 0 || *req.Weekday > 6 {
			writeError(w, http.StatusBadRequest, "invalid_weekday", "weekday must be 0 (Sunday) through 6 (Saturday)")
			return schedule.Rule{}, false
		}
		rule.Weekday = time.Weekday(*req.Weekday)
	}

	if req.Date != nil {
		d, err := time.Parse(dateFormat, *req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return schedule.Rule{}, false
		}
		rule.Date = &d
	}

	return rule, true
}

func handleRuleError(w http.ResponseWriter, err error) {
	var conflict *schedule.RuleConflictError

	switch {
	case errors.Is(err, schedule.ErrRuleNotFound):
		writeError(w, http.StatusNotFound, "rule_not_found", err.Error())
	case errors.Is(err, schedule.ErrInvalidRule):
		writeError(w, http.StatusBadRequest, "invalid_rule", err.Error())
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, "rule_conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func getPolicyHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_tenant_id", "tenantID must be a valid UUID")
			return
		}

		policy, err := svc.PolicyFor(r.Context(), tenantID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, toPolicyResponse(policy))
	}
}

func updatePolicyHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_tenant_id", "tenantID must be a valid UUID")
			return
		}

		var req PolicyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		updated, err := svc.UpdatePolicy(r.Context(), schedule.Policy{
			TenantID:                    tenantID,
			SlotDurationMinutes:         req.SlotDurationMinutes,
			IntervalBetweenSlotsMinutes: req.IntervalBetweenSlotsMinutes,
			AdvanceBookingDays:          req.AdvanceBookingDays,
			MinBookingNoticeMinutes:     req.MinBookingNoticeMinutes,
			MaxBookingsPerDay:           req.MaxBookingsPerDay,
			AllowCancellation:           req.AllowCancellation,
			CancellationNoticeHours:     req.CancellationNoticeHours,
			AutoConfirmBookings:         req.AutoConfirmBookings,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_policy", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, toPolicyResponse(*updated))
	}
}
