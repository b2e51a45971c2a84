package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/money"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/pricing"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func capacity(n int) *int { return &n }

func attendees(t *testing.T, n int) []AttendeeDetails {
	t.Helper()
	out := make([]AttendeeDetails, n)
	for i := range out {
		a, err := NewAttendee("Guest", pricing.Adult, "")
		require.NoError(t, err)
		out[i] = a
	}
	return out
}

func submission(t *testing.T, n int) Submission {
	t.Helper()
	c, err := NewContact("Guest@Example.com ", "+94 77 000 0000", "")
	require.NoError(t, err)
	return Submission{UserID: "u1", Contact: c, Attendees: attendees(t, n)}
}

func TestNewAttendee(t *testing.T) {
	a, err := NewAttendee("  Nimal  ", pricing.Child, "male")
	require.NoError(t, err)
	assert.Equal(t, "Nimal", a.Name())
	assert.Equal(t, pricing.Child, a.AgeCategory())

	_, err = NewAttendee(" ", pricing.Adult, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewAttendee("Kamal", pricing.AgeCategory("senior"), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewContact(t *testing.T) {
	c, err := NewContact(" Guest@Example.com", "123", "")
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", c.Email)

	_, err = NewContact("not-an-email", "123", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewContact("a@b.com", "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmission_AttendeeBounds(t *testing.T) {
	assert.NoError(t, submission(t, 10).Validate())
	assert.ErrorIs(t, submission(t, 11).Validate(), ErrValidation)
	assert.ErrorIs(t, submission(t, 0).Validate(), ErrValidation)
}

func TestEvent_Capacity(t *testing.T) {
	e := &Event{Capacity: capacity(100), ConfirmedCount: 100}
	assert.True(t, e.IsFull())
	assert.False(t, e.HasCapacityFor(1))
	assert.ErrorIs(t, e.Admit(1), ErrCapacityUnavailable)

	e.Release(3)
	assert.Equal(t, 97, e.ConfirmedCount)
	require.NoError(t, e.Admit(3))
	assert.Equal(t, 100, e.ConfirmedCount)

	unlimited := &Event{}
	assert.True(t, unlimited.HasCapacityFor(10_000))
	assert.Equal(t, -1, unlimited.Remaining())
}

func TestEvent_Lifecycle(t *testing.T) {
	e := &Event{Status: EventDraft}
	assert.False(t, e.AcceptsRegistrations())

	require.NoError(t, e.Publish(now))
	assert.True(t, e.AcceptsRegistrations())
	assert.ErrorIs(t, e.Publish(now), ErrInvalidTransition)

	assert.ErrorIs(t, e.Cancel("  ", now), ErrValidation)
	require.NoError(t, e.Cancel("venue flooded", now))
	assert.Equal(t, EventCancelled, e.Status)
	assert.ErrorIs(t, e.Cancel("again", now), ErrInvalidTransition)

	draft := &Event{Status: EventDraft}
	assert.ErrorIs(t, draft.Cancel("no", now), ErrInvalidTransition)
}

func TestRegistration_PaymentLifecycle(t *testing.T) {
	reg, err := NewConfirmedRegistration("r1", "e1", submission(t, 2), money.MustParse("30", money.USD), nil, now)
	require.NoError(t, err)
	assert.Equal(t, RegistrationConfirmed, reg.Status)
	assert.Equal(t, PaymentPending, reg.PaymentStatus)

	assert.ErrorIs(t, reg.MarkRefunded("rf", now), ErrInvalidTransition)
	assert.ErrorIs(t, reg.CompletePayment("", now), ErrValidation)

	require.NoError(t, reg.CompletePayment("pi_123", now))
	assert.True(t, reg.IsPaid())
	assert.ErrorIs(t, reg.FailPayment(now), ErrInvalidTransition)

	require.NoError(t, reg.MarkRefunded("rf_1", now))
	assert.Equal(t, PaymentRefunded, reg.PaymentStatus)
	assert.Equal(t, RegistrationCancelled, reg.Status)
	assert.Equal(t, "rf_1", reg.RefundReference)
}

func TestRegistration_FreeNeedsNoPayment(t *testing.T) {
	reg, err := NewConfirmedRegistration("r1", "e1", submission(t, 1), money.Zero(money.USD), nil, now)
	require.NoError(t, err)
	assert.Equal(t, PaymentNotApplicable, reg.PaymentStatus)
}

func TestRegistration_FailPaymentCancels(t *testing.T) {
	reg, err := NewConfirmedRegistration("r1", "e1", submission(t, 1), money.MustParse("5", money.USD), nil, now)
	require.NoError(t, err)

	require.NoError(t, reg.FailPayment(now))
	assert.Equal(t, PaymentFailed, reg.PaymentStatus)
	assert.False(t, reg.IsActive())
}

func TestRegistration_CancelIsTerminal(t *testing.T) {
	reg := &Registration{ID: "r1", Status: RegistrationPending}
	require.NoError(t, reg.Cancel(now))
	assert.ErrorIs(t, reg.Cancel(now), ErrInvalidTransition)
	assert.ErrorIs(t, reg.Confirm(now), ErrInvalidTransition)
}

func TestRegistration_UpdateDetails(t *testing.T) {
	sub := submission(t, 2)
	reg, err := NewConfirmedRegistration("r1", "e1", sub, money.MustParse("30", money.USD), nil, now)
	require.NoError(t, err)

	require.NoError(t, reg.UpdateDetails(sub.Contact, attendees(t, 3), now))
	assert.Equal(t, 3, reg.AttendeeCount())

	require.NoError(t, reg.CompletePayment("pi_1", now))
	err = reg.UpdateDetails(sub.Contact, attendees(t, 4), now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	require.NoError(t, reg.UpdateDetails(sub.Contact, attendees(t, 3), now))

	require.NoError(t, reg.Cancel(now))
	assert.ErrorIs(t, reg.UpdateDetails(sub.Contact, attendees(t, 3), now), ErrInvalidTransition)
}

func TestRegistration_RepriceKeepsChargedAmount(t *testing.T) {
	reg, err := NewConfirmedRegistration("r1", "e1", submission(t, 1), money.MustParse("10", money.USD), nil, now)
	require.NoError(t, err)

	reg.Reprice(money.MustParse("20", money.USD), nil)
	assert.True(t, reg.Total.Equal(money.MustParse("20", money.USD)))

	require.NoError(t, reg.CompletePayment("pi_1", now))
	reg.Reprice(money.MustParse("99", money.USD), nil)
	assert.True(t, reg.Total.Equal(money.MustParse("20", money.USD)))
}
