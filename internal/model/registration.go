package model

import (
	"fmt"
	"time"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/money"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/revenue"
)

const (
	MinAttendees = 1
	MaxAttendees = 10
)

// RegistrationStatus is the admission state of a registration.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

// PaymentStatus tracks money movement for a registration.
type PaymentStatus string

const (
	PaymentNotApplicable PaymentStatus = "not_applicable"
	PaymentPending       PaymentStatus = "pending"
	PaymentCompleted     PaymentStatus = "completed"
	PaymentFailed        PaymentStatus = "failed"
	PaymentRefunded      PaymentStatus = "refunded"
)

// Registration is one submission covering one or more attendees. Rows are
// never deleted; they only move through statuses.
type Registration struct {
	ID               string             `json:"id"`
	EventID          string             `json:"event_id"`
	UserID           string             `json:"user_id,omitempty"`
	Contact          Contact            `json:"contact"`
	Attendees        []AttendeeDetails  `json:"attendees"`
	Total            money.Money        `json:"total"`
	Breakdown        *revenue.Breakdown `json:"breakdown,omitempty"`
	Status           RegistrationStatus `json:"status"`
	PaymentStatus    PaymentStatus      `json:"payment_status"`
	PaymentReference string             `json:"payment_reference,omitempty"`
	RefundReference  string             `json:"refund_reference,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// NewConfirmedRegistration builds an admitted registration. Zero totals need
// no payment.
func NewConfirmedRegistration(id, eventID string, sub Submission, total money.Money, breakdown *revenue.Breakdown, at time.Time) (*Registration, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	payment := PaymentPending
	if total.IsZero() {
		payment = PaymentNotApplicable
	}
	attendees := make([]AttendeeDetails, len(sub.Attendees))
	copy(attendees, sub.Attendees)
	return &Registration{
		ID:            id,
		EventID:       eventID,
		UserID:        sub.UserID,
		Contact:       sub.Contact,
		Attendees:     attendees,
		Total:         total,
		Breakdown:     breakdown,
		Status:        RegistrationConfirmed,
		PaymentStatus: payment,
		CreatedAt:     at,
		UpdatedAt:     at,
	}, nil
}

func (r *Registration) AttendeeCount() int { return len(r.Attendees) }

// IsActive reports whether the registration still holds seats.
func (r *Registration) IsActive() bool { return r.Status != RegistrationCancelled }

// HoldsSeats reports whether the attendees count toward event capacity.
func (r *Registration) HoldsSeats() bool { return r.Status == RegistrationConfirmed }

// IsPaid reports whether money was captured for the registration.
func (r *Registration) IsPaid() bool { return r.PaymentStatus == PaymentCompleted }

func (r *Registration) transitionErr(to RegistrationStatus) error {
	return fmt.Errorf("%w: registration %s cannot move from %s to %s", ErrInvalidTransition, r.ID, r.Status, to)
}

// Confirm admits a pending registration.
func (r *Registration) Confirm(at time.Time) error {
	if r.Status != RegistrationPending {
		return r.transitionErr(RegistrationConfirmed)
	}
	r.Status = RegistrationConfirmed
	r.UpdatedAt = at
	return nil
}

// Cancel moves a pending or confirmed registration to cancelled.
func (r *Registration) Cancel(at time.Time) error {
	if r.Status == RegistrationCancelled {
		return r.transitionErr(RegistrationCancelled)
	}
	r.Status = RegistrationCancelled
	r.UpdatedAt = at
	return nil
}

// CompletePayment records a captured payment.
func (r *Registration) CompletePayment(reference string, at time.Time) error {
	if reference == "" {
		return fmt.Errorf("%w: payment reference is required", ErrValidation)
	}
	if r.Status != RegistrationConfirmed || r.PaymentStatus != PaymentPending {
		return fmt.Errorf("%w: cannot complete payment for %s registration with %s payment",
			ErrInvalidTransition, r.Status, r.PaymentStatus)
	}
	r.PaymentStatus = PaymentCompleted
	r.PaymentReference = reference
	r.UpdatedAt = at
	return nil
}

// FailPayment marks the payment failed and releases the registration.
func (r *Registration) FailPayment(at time.Time) error {
	if r.PaymentStatus != PaymentPending || r.Status == RegistrationCancelled {
		return fmt.Errorf("%w: cannot fail payment for %s registration with %s payment",
			ErrInvalidTransition, r.Status, r.PaymentStatus)
	}
	r.PaymentStatus = PaymentFailed
	r.Status = RegistrationCancelled
	r.UpdatedAt = at
	return nil
}

// MarkRefunded records a successful refund and cancels the registration.
func (r *Registration) MarkRefunded(refundReference string, at time.Time) error {
	if r.PaymentStatus != PaymentCompleted {
		return fmt.Errorf("%w: cannot refund %s payment", ErrInvalidTransition, r.PaymentStatus)
	}
	r.PaymentStatus = PaymentRefunded
	r.RefundReference = refundReference
	r.Status = RegistrationCancelled
	r.UpdatedAt = at
	return nil
}

// UpdateDetails replaces contact and attendees. Paid registrations keep their
// attendee count; callers handle capacity for count changes.
func (r *Registration) UpdateDetails(contact Contact, attendees []AttendeeDetails, at time.Time) error {
	if r.Status == RegistrationCancelled {
		return fmt.Errorf("%w: cancelled registrations cannot be edited", ErrInvalidTransition)
	}
	sub := Submission{UserID: r.UserID, Contact: contact, Attendees: attendees}
	if err := sub.Validate(); err != nil {
		return err
	}
	if r.IsPaid() && len(attendees) != len(r.Attendees) {
		return fmt.Errorf("%w: attendee count of a paid registration cannot change", ErrInvalidTransition)
	}
	r.Contact = contact
	r.Attendees = make([]AttendeeDetails, len(attendees))
	copy(r.Attendees, attendees)
	r.UpdatedAt = at
	return nil
}

// Reprice stores a new total and breakdown. Paid registrations keep the
// amount that was charged.
func (r *Registration) Reprice(total money.Money, breakdown *revenue.Breakdown) {
	if r.IsPaid() || r.PaymentStatus == PaymentRefunded {
		return
	}
	r.Total = total
	r.Breakdown = breakdown
	if total.IsZero() {
		r.PaymentStatus = PaymentNotApplicable
	} else if r.PaymentStatus == PaymentNotApplicable {
		r.PaymentStatus = PaymentPending
	}
}

// Submission returns the registration as a replayable request.
func (r *Registration) Submission() Submission {
	return Submission{UserID: r.UserID, Contact: r.Contact, Attendees: r.Attendees}
}
