// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/money"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/pricing"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/revenue"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/service"
)

var validate = validator.New()

// EventHandler serves event, quote and refund-run endpoints.
type EventHandler struct {
	svc     *service.EventService
	refunds *service.RefundOrchestrator
	log     *slog.Logger
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService, refunds *service.RefundOrchestrator, log *slog.Logger) *EventHandler {
	return &EventHandler{svc: svc, refunds: refunds, log: log}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// decodeValid decodes the body and checks its validate tags. It writes the
// error response itself and reports whether the handler should continue.
func decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrNotWaitlisted):
		return http.StatusNotFound
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, pricing.ErrInvalidPricing),
		errors.Is(err, revenue.ErrNegativePayout),
		errors.Is(err, revenue.ErrInvalidRates),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrCurrencyMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrAlreadyRegistered),
		errors.Is(err, model.ErrAlreadyWaitlisted),
		errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrEventNotOpen),
		errors.Is(err, model.ErrEventNotCancelled),
		errors.Is(err, model.ErrCapacityUnavailable),
		errors.Is(err, model.ErrSeatsAvailable),
		errors.Is(err, service.ErrRefundRunClaimed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *EventHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeServiceError(w, r, h.log, err)
}

func writeServiceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.CreateEvent(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// ListEvents handles GET /events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListEvents(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if events == nil {
		events = []*model.Event{}
	}

	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Publish handles POST /events/{id}/publish
func (h *EventHandler) Publish(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.Publish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Cancel handles POST /events/{id}/cancel
// Refunds run in the background; see POST /events/{id}/refunds/run.
func (h *EventHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req model.CancelEventRequest
	if !decodeValid(w, r, &req) {
		return
	}
	event, err := h.svc.Cancel(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Quote handles POST /events/{id}/quote
func (h *EventHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req model.QuoteRequest
	if !decodeValid(w, r, &req) {
		return
	}
	attendees, err := service.BuildAttendees(req.Attendees)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q, err := h.svc.Quote(r.Context(), chi.URLParam(r, "id"), attendees)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// ListRegistrations handles GET /events/{id}/registrations
func (h *EventHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := h.svc.ListRegistrations(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if regs == nil {
		regs = []*model.Registration{}
	}

	writeJSON(w, http.StatusOK, regs)
}

// RunRefunds handles POST /events/{id}/refunds/run
// It runs the cancellation refunds synchronously and returns the summary.
// A commit failure still returns the summary so the organizer sees which
// refunds were issued.
func (h *EventHandler) RunRefunds(w http.ResponseWriter, r *http.Request) {
	sum, err := h.refunds.Run(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if sum.Refunded > 0 || sum.RefundFailures > 0 {
			h.log.Error("refund run incomplete",
				slog.String("event_id", sum.EventID),
				slog.String("error", err.Error()),
			)
			writeJSON(w, http.StatusInternalServerError, sum)
			return
		}
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
