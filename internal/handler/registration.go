package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/service"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/waitlist"
)

// RegistrationHandler serves registration and waitlist endpoints.
type RegistrationHandler struct {
	regs     *service.RegistrationService
	waitlist *service.WaitlistService
	log      *slog.Logger
}

func NewRegistrationHandler(regs *service.RegistrationService, wl *service.WaitlistService, log *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{regs: regs, waitlist: wl, log: log}
}

func (h *RegistrationHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeServiceError(w, r, h.log, err)
}

func submission(userID, email, phone, address string, attendees []model.AttendeeRequest) (model.Submission, error) {
	contact, err := model.NewContact(email, phone, address)
	if err != nil {
		return model.Submission{}, err
	}
	details, err := service.BuildAttendees(attendees)
	if err != nil {
		return model.Submission{}, err
	}
	return model.Submission{UserID: userID, Contact: contact, Attendees: details}, nil
}

// Register handles POST /events/{id}/register
// 201 when the registration was created, 202 when the caller was offered or
// placed on the waitlist.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeValid(w, r, &req) {
		return
	}
	sub, err := submission(req.UserID, req.Email, req.Phone, req.Address, req.Attendees)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.regs.Submit(r.Context(), chi.URLParam(r, "id"), sub, req.JoinWaitlist)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	status := http.StatusAccepted
	if res.Outcome == service.OutcomeConfirmed {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}

// GetRegistration handles GET /registrations/{id}
func (h *RegistrationHandler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	reg, err := h.regs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

// UpdateRegistration handles PUT /registrations/{id}
func (h *RegistrationHandler) UpdateRegistration(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateRegistrationRequest
	if !decodeValid(w, r, &req) {
		return
	}
	sub, err := submission("", req.Email, req.Phone, req.Address, req.Attendees)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.regs.UpdateDetails(r.Context(), chi.URLParam(r, "id"), sub.Contact, sub.Attendees)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CancelRegistration handles POST /registrations/{id}/cancel
func (h *RegistrationHandler) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	res, err := h.regs.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CompletePayment handles POST /registrations/{id}/payment
func (h *RegistrationHandler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	var req model.CompletePaymentRequest
	if !decodeValid(w, r, &req) {
		return
	}
	reg, err := h.regs.CompletePayment(r.Context(), chi.URLParam(r, "id"), req.PaymentReference)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

// FailPayment handles POST /registrations/{id}/payment/failure
func (h *RegistrationHandler) FailPayment(w http.ResponseWriter, r *http.Request) {
	res, err := h.regs.FailPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ─── Waitlist ─────────────────────────────────────────────────────────────────

// JoinWaitlist handles POST /events/{id}/waitlist
func (h *RegistrationHandler) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	var req model.JoinWaitlistRequest
	if !decodeValid(w, r, &req) {
		return
	}
	sub, err := submission(req.UserID, req.Email, req.Phone, req.Address, req.Attendees)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	entry, err := h.waitlist.Join(r.Context(), chi.URLParam(r, "id"), sub)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// ListWaitlist handles GET /events/{id}/waitlist
func (h *RegistrationHandler) ListWaitlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.waitlist.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []waitlist.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// LeaveWaitlist handles DELETE /events/{id}/waitlist/{userID}
func (h *RegistrationHandler) LeaveWaitlist(w http.ResponseWriter, r *http.Request) {
	if err := h.waitlist.Remove(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userID")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PromoteNext handles POST /events/{id}/waitlist/promote
// 204 when the queue is empty.
func (h *RegistrationHandler) PromoteNext(w http.ResponseWriter, r *http.Request) {
	p, ok, err := h.waitlist.PromoteNext(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
