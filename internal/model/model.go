// Package model defines the core domain types for event registration and
// monetization.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/pricing"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventActive    EventStatus = "active"
	EventPostponed EventStatus = "postponed"
	EventCancelled EventStatus = "cancelled"
	EventCompleted EventStatus = "completed"
	EventArchived  EventStatus = "archived"
)

// Event is a bookable event. Capacity nil means unlimited.
type Event struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	OrganizerID        string          `json:"organizer_id,omitempty"`
	StartsAt           time.Time       `json:"starts_at"`
	Capacity           *int            `json:"capacity"`
	ConfirmedCount     int             `json:"confirmed_count"`
	Status             EventStatus     `json:"status"`
	Pricing            *pricing.Scheme `json:"pricing,omitempty"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	CancellationReason string          `json:"cancellation_reason,omitempty"`
	RefundRunAt        *time.Time      `json:"refund_run_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Remaining returns the number of available seats, or -1 when unlimited.
func (e *Event) Remaining() int {
	if e.Capacity == nil {
		return -1
	}
	return *e.Capacity - e.ConfirmedCount
}

// IsFull returns true when no seats remain.
func (e *Event) IsFull() bool {
	return e.Capacity != nil && e.ConfirmedCount >= *e.Capacity
}

// HasCapacityFor reports whether n more attendees can be confirmed.
func (e *Event) HasCapacityFor(n int) bool {
	return e.Capacity == nil || e.ConfirmedCount+n <= *e.Capacity
}

// AcceptsRegistrations reports whether new attendees may be admitted.
func (e *Event) AcceptsRegistrations() bool {
	return e.Status == EventPublished || e.Status == EventActive
}

// IsFree reports whether the event never charges.
func (e *Event) IsFree() bool {
	return e.Pricing == nil || e.Pricing.IsFree()
}

// Admit counts n newly confirmed attendees.
func (e *Event) Admit(n int) error {
	if !e.HasCapacityFor(n) {
		return fmt.Errorf("%w: %d requested, %d remaining", ErrCapacityUnavailable, n, e.Remaining())
	}
	e.ConfirmedCount += n
	return nil
}

// Release returns n seats to the pool.
func (e *Event) Release(n int) {
	e.ConfirmedCount -= n
	if e.ConfirmedCount < 0 {
		e.ConfirmedCount = 0
	}
}

// Publish opens a draft event for registration.
func (e *Event) Publish(at time.Time) error {
	if e.Status != EventDraft {
		return fmt.Errorf("%w: only draft events can be published (status %s)", ErrInvalidTransition, e.Status)
	}
	e.Status = EventPublished
	e.UpdatedAt = at
	return nil
}

// Cancel closes the event. A reason is mandatory.
func (e *Event) Cancel(reason string, at time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("%w: cancellation reason is required", ErrValidation)
	}
	if e.Status != EventPublished && e.Status != EventActive && e.Status != EventPostponed {
		return fmt.Errorf("%w: cannot cancel an event in status %s", ErrInvalidTransition, e.Status)
	}
	e.Status = EventCancelled
	e.CancellationReason = reason
	e.UpdatedAt = at
	return nil
}

// CreateEventRequest is the payload for creating a new event.
type CreateEventRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	OrganizerID string          `json:"organizer_id"`
	StartsAt    time.Time       `json:"starts_at" validate:"required"`
	Capacity    *int            `json:"capacity" validate:"omitempty,min=1,max=100000"`
	TaxRate     *string         `json:"tax_rate"`
	Pricing     *PricingRequest `json:"pricing"`
}

// PricingRequest describes a pricing scheme on the wire.
type PricingRequest struct {
	Kind          pricing.Kind  `json:"kind" validate:"required,oneof=single dual tiered"`
	Currency      string        `json:"currency" validate:"required,len=3"`
	AdultPrice    string        `json:"adult_price"`
	ChildPrice    string        `json:"child_price"`
	ChildAgeLimit int           `json:"child_age_limit"`
	Tiers         []TierRequest `json:"tiers" validate:"dive"`
}

// TierRequest is one group tier; a nil max is "N+".
type TierRequest struct {
	Min            int    `json:"min" validate:"min=1"`
	Max            *int   `json:"max"`
	PricePerPerson string `json:"price_per_person" validate:"required"`
}

// CancelEventRequest is the payload for cancelling an event.
type CancelEventRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// AttendeeRequest is one attendee on the wire.
type AttendeeRequest struct {
	Name        string              `json:"name" validate:"required"`
	AgeCategory pricing.AgeCategory `json:"age_category" validate:"required,oneof=adult child"`
	Gender      string              `json:"gender"`
}

// RegisterRequest is the payload for registering for an event.
type RegisterRequest struct {
	UserID       string            `json:"user_id"`
	Email        string            `json:"email" validate:"required,email"`
	Phone        string            `json:"phone" validate:"required"`
	Address      string            `json:"address"`
	Attendees    []AttendeeRequest `json:"attendees" validate:"required,min=1,max=10,dive"`
	JoinWaitlist bool              `json:"join_waitlist"`
}

// UpdateRegistrationRequest replaces the contact and attendee list.
type UpdateRegistrationRequest struct {
	Email     string            `json:"email" validate:"required,email"`
	Phone     string            `json:"phone" validate:"required"`
	Address   string            `json:"address"`
	Attendees []AttendeeRequest `json:"attendees" validate:"required,min=1,max=10,dive"`
}

// JoinWaitlistRequest enrolls a signed-in user.
type JoinWaitlistRequest struct {
	UserID    string            `json:"user_id" validate:"required"`
	Email     string            `json:"email" validate:"required,email"`
	Phone     string            `json:"phone" validate:"required"`
	Address   string            `json:"address"`
	Attendees []AttendeeRequest `json:"attendees" validate:"required,min=1,max=10,dive"`
}

// QuoteRequest previews the price of an attendee list.
type QuoteRequest struct {
	Attendees []AttendeeRequest `json:"attendees" validate:"required,min=1,dive"`
}

// CompletePaymentRequest records a captured payment.
type CompletePaymentRequest struct {
	PaymentReference string `json:"payment_reference" validate:"required"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
