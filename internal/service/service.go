// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository ports.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/service/ports"
)

var validate = validator.New()

// RefundQueue accepts cancelled events for background refund processing.
type RefundQueue interface {
	Enqueue(eventID string) bool
}

// EventService orchestrates event-related business operations.
type EventService struct {
	events         ports.EventRepo
	registrations  ports.RegistrationRepo
	admissions     ports.Admissions
	pricer         *Pricer
	defaultTaxRate decimal.Decimal
	refunds        RefundQueue
	log            *slog.Logger
	now            func() time.Time
}

// NewEventService constructs an EventService with its dependencies. refunds
// may be nil, in which case cancelled events wait for the sweep.
func NewEventService(
	events ports.EventRepo,
	registrations ports.RegistrationRepo,
	admissions ports.Admissions,
	pricer *Pricer,
	defaultTaxRate decimal.Decimal,
	refunds RefundQueue,
	log *slog.Logger,
) *EventService {
	return &EventService{
		events:         events,
		registrations:  registrations,
		admissions:     admissions,
		pricer:         pricer,
		defaultTaxRate: defaultTaxRate,
		refunds:        refunds,
		log:            log,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// CreateEvent validates the request and stores a draft event.
func (s *EventService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}

	taxRate := s.defaultTaxRate
	if req.TaxRate != nil {
		d, err := decimal.NewFromString(*req.TaxRate)
		if err != nil {
			return nil, fmt.Errorf("%w: tax_rate %q is not a number", model.ErrValidation, *req.TaxRate)
		}
		taxRate = d
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.RequireFromString("0.5")) {
		return nil, fmt.Errorf("%w: tax_rate must be between 0 and 0.5", model.ErrValidation)
	}

	scheme, err := BuildScheme(req.Pricing)
	if err != nil {
		return nil, err
	}

	now := s.now()
	event := &model.Event{
		ID:          uuid.New().String(),
		Title:       req.Title,
		OrganizerID: req.OrganizerID,
		StartsAt:    req.StartsAt.UTC(),
		Capacity:    req.Capacity,
		Status:      model.EventDraft,
		Pricing:     scheme,
		TaxRate:     taxRate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.log.Info("event created", slog.String("event_id", event.ID), slog.String("title", event.Title))
	return event, nil
}

// ListEvents returns all events.
func (s *EventService) ListEvents(ctx context.Context) ([]*model.Event, error) {
	return s.events.List(ctx)
}

// GetEvent returns a single event by ID.
func (s *EventService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: event id is required", model.ErrValidation)
	}
	return s.events.GetByID(ctx, id)
}

// Publish opens a draft event for registration.
func (s *EventService) Publish(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := event.Publish(s.now()); err != nil {
		return nil, err
	}
	if err := s.events.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("save event: %w", err)
	}
	return event, nil
}

// Cancel closes the event under its lock, so no admission commits after it,
// and hands it to the refund queue.
func (s *EventService) Cancel(ctx context.Context, id, reason string) (*model.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: event id is required", model.ErrValidation)
	}
	var event *model.Event
	err := s.admissions.WithEventLock(ctx, id, func(tx ports.EventTx) error {
		event = tx.Event()
		return event.Cancel(reason, s.now())
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("event cancelled", slog.String("event_id", id), slog.String("reason", event.CancellationReason))

	if s.refunds != nil && !s.refunds.Enqueue(id) {
		s.log.Warn("refund queue full, leaving event for the sweep", slog.String("event_id", id))
	}
	return event, nil
}

// Quote prices an attendee list without registering it.
func (s *EventService) Quote(ctx context.Context, id string, attendees []model.AttendeeDetails) (Quote, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return Quote{}, err
	}
	return s.pricer.Quote(event, attendees)
}

// ListRegistrations returns all registrations for an event.
func (s *EventService) ListRegistrations(ctx context.Context, eventID string) ([]*model.Registration, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.registrations.GetByEvent(ctx, eventID)
}
