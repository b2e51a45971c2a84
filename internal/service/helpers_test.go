package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/metrics"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/repository/memory"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/revenue"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/service/ports/mocks"
)

func newTestLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store      *memory.Store
	events     *memory.EventRepository
	regs       *memory.RegistrationRepository
	admissions *memory.Admissions
	gateway    *mocks.MockPaymentGateway
	notifier   *mocks.MockNotifier

	eventSvc *EventService
	regSvc   *RegistrationService
	waitSvc  *WaitlistService
	refunds  *RefundOrchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := newTestLogger(t)
	m := metrics.New(prometheus.NewRegistry())

	store := memory.NewStore()
	events := memory.NewEventRepository(store)
	regs := memory.NewRegistrationRepository(store)
	admissions := memory.NewAdmissions(store)
	gateway := mocks.NewMockPaymentGateway(t)
	notifier := mocks.NewMockNotifier(t)

	pricer := NewPricer(revenue.DefaultRates(decimal.Zero))
	regSvc := NewRegistrationService(admissions, regs, pricer, notifier, m, log)

	return &fixture{
		store:      store,
		events:     events,
		regs:       regs,
		admissions: admissions,
		gateway:    gateway,
		notifier:   notifier,
		eventSvc:   NewEventService(events, regs, admissions, pricer, decimal.Zero, nil, log),
		regSvc:     regSvc,
		waitSvc:    NewWaitlistService(admissions, regSvc, log),
		refunds:    NewRefundOrchestrator(events, admissions, gateway, notifier, m, log),
	}
}

var eventStart = time.Date(2026, 4, 14, 18, 0, 0, 0, time.UTC)

func intp(n int) *int { return &n }

func strp(s string) *string { return &s }

// publishedEvent creates and publishes an event.
func (f *fixture) publishedEvent(t *testing.T, req model.CreateEventRequest) *model.Event {
	t.Helper()
	ctx := context.Background()
	if req.Title == "" {
		req.Title = "Sinhala New Year Festival"
	}
	if req.StartsAt.IsZero() {
		req.StartsAt = eventStart
	}
	ev, err := f.eventSvc.CreateEvent(ctx, req)
	require.NoError(t, err)
	ev, err = f.eventSvc.Publish(ctx, ev.ID)
	require.NoError(t, err)
	return ev
}

func singlePrice(amount string) *model.PricingRequest {
	return &model.PricingRequest{Kind: "single", Currency: "USD", AdultPrice: amount}
}

func adults(t *testing.T, n int) []model.AttendeeDetails {
	t.Helper()
	req := make([]model.AttendeeRequest, n)
	for i := range req {
		req[i] = model.AttendeeRequest{Name: fmt.Sprintf("Guest %d", i+1), AgeCategory: "adult"}
	}
	out, err := BuildAttendees(req)
	require.NoError(t, err)
	return out
}

func sub(t *testing.T, userID string, n int) model.Submission {
	t.Helper()
	email := "guest@example.com"
	if userID != "" {
		email = userID + "@example.com"
	}
	c, err := model.NewContact(email, "+94770000000", "")
	require.NoError(t, err)
	return model.Submission{UserID: userID, Contact: c, Attendees: adults(t, n)}
}

func (f *fixture) confirmed(t *testing.T, eventID, userID string, n int) *model.Registration {
	t.Helper()
	res, err := f.regSvc.Submit(context.Background(), eventID, sub(t, userID, n), false)
	require.NoError(t, err)
	require.Equal(t, OutcomeConfirmed, res.Outcome)
	return res.Registration
}

func (f *fixture) confirmedCount(t *testing.T, eventID string) int {
	t.Helper()
	ev, err := f.events.GetByID(context.Background(), eventID)
	require.NoError(t, err)
	return ev.ConfirmedCount
}
