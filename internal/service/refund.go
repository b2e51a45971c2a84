package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/metrics"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/service/ports"
)

// ErrRefundRunClaimed is returned when the event's refunds were already run.
var ErrRefundRunClaimed = errors.New("refund run already claimed for this event")

const (
	ReasonEventCancelled   = "event_cancelled"
	templateEventCancelled = "event_cancelled"
)

// Summary is the organizer-facing tally of one refund run.
type Summary struct {
	EventID              string `json:"event_id"`
	RefundsAttempted     int    `json:"refunds_attempted"`
	Refunded             int    `json:"refunded"`
	RefundFailures       int    `json:"refund_failures"`
	StatusOnlyCancelled  int    `json:"status_only_cancelled"`
	Skipped              int    `json:"skipped"`
	ValidationFailures   int    `json:"validation_failures"`
	NotificationsSent    int    `json:"notifications_sent"`
	NotificationFailures int    `json:"notification_failures"`
	Committed            bool   `json:"committed"`
}

// RefundOrchestrator refunds and cancels every registration of a cancelled
// event, tolerating failure of individual gateway calls.
type RefundOrchestrator struct {
	events     ports.EventRepo
	admissions ports.Admissions
	gateway    ports.PaymentGateway
	notifier   ports.Notifier
	metrics    *metrics.Metrics
	log        *slog.Logger
	now        func() time.Time
}

func NewRefundOrchestrator(
	events ports.EventRepo,
	admissions ports.Admissions,
	gateway ports.PaymentGateway,
	notifier ports.Notifier,
	m *metrics.Metrics,
	log *slog.Logger,
) *RefundOrchestrator {
	return &RefundOrchestrator{
		events:     events,
		admissions: admissions,
		gateway:    gateway,
		notifier:   notifier,
		metrics:    m,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Run processes the event once. Registrations are handled in retrieval order
// with at most one refund call each, all under the event's lock so no
// registration changes between being read and being written. The updates
// are committed together when the lock is released. A commit error is
// returned with the summary, and refunds already issued stay issued.
func (o *RefundOrchestrator) Run(ctx context.Context, eventID string) (Summary, error) {
	sum := Summary{EventID: eventID}

	ev, err := o.events.GetByID(ctx, eventID)
	if err != nil {
		return sum, err
	}
	if ev.Status != model.EventCancelled {
		return sum, fmt.Errorf("%w: event %s is %s", model.ErrEventNotCancelled, eventID, ev.Status)
	}
	claimed, err := o.events.ClaimRefundRun(ctx, eventID, o.now())
	if err != nil {
		return sum, fmt.Errorf("claim refund run: %w", err)
	}
	if !claimed {
		o.metrics.RefundRun("claimed")
		return sum, ErrRefundRunClaimed
	}

	log := o.log.With(slog.String("event_id", eventID))
	recipients := make(map[string]struct{})

	err = o.admissions.WithEventLock(ctx, eventID, func(tx ports.EventTx) error {
		ev = tx.Event()
		regs, err := tx.Registrations(ctx)
		if err != nil {
			return fmt.Errorf("load registrations: %w", err)
		}
		for _, reg := range regs {
			if err := o.process(ctx, tx, ev, reg, recipients, &sum, log); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		o.metrics.RefundRun("error")
		// The run stays claimed, so the sweep will not pick the event up again.
		log.Error("refund run claimed but not committed, manual follow-up required",
			slog.Int("refunds_issued", sum.Refunded),
			slog.String("error", err.Error()),
		)
		return sum, fmt.Errorf("refund run %s: %w", eventID, err)
	}
	sum.Committed = true

	o.notify(ctx, ev, recipients, &sum)

	result := "completed"
	if sum.RefundFailures > 0 || sum.ValidationFailures > 0 {
		result = "partial"
	}
	o.metrics.RefundRun(result)
	log.Info("refund run finished",
		slog.Int("attempted", sum.RefundsAttempted),
		slog.Int("refunded", sum.Refunded),
		slog.Int("failed", sum.RefundFailures),
		slog.Int("status_only", sum.StatusOnlyCancelled),
		slog.Int("skipped", sum.Skipped),
	)
	return sum, nil
}

// process refunds or cancels one registration. Per-item failures are counted
// and logged; only a failed write is returned.
func (o *RefundOrchestrator) process(
	ctx context.Context,
	tx ports.EventTx,
	ev *model.Event,
	reg *model.Registration,
	recipients map[string]struct{},
	sum *Summary,
	log *slog.Logger,
) error {
	if !reg.IsActive() {
		sum.Skipped++
		return nil
	}
	recipients[reg.Contact.Email] = struct{}{}
	free := ev.IsFree()

	if !free && reg.HoldsSeats() && reg.IsPaid() && reg.PaymentReference != "" {
		sum.RefundsAttempted++
		res, err := o.gateway.CreateRefund(ctx, refundRequest(ev, reg))
		o.metrics.RefundAttempt(err == nil)
		if err != nil {
			sum.RefundFailures++
			log.Error("refund failed, left for manual follow-up",
				slog.String("registration_id", reg.ID),
				slog.String("payment_reference", reg.PaymentReference),
				slog.String("error", err.Error()),
			)
			return nil
		}
		if err := reg.MarkRefunded(res.RefundID, o.now()); err != nil {
			sum.ValidationFailures++
			log.Error("refund issued but registration could not be updated",
				slog.String("registration_id", reg.ID),
				slog.String("refund_id", res.RefundID),
				slog.String("error", err.Error()),
			)
			return nil
		}
		sum.Refunded++
		return o.save(ctx, tx, reg)
	}

	if reg.IsPaid() && !free {
		// Paid without a reference: nothing to refund against.
		log.Warn("paid registration has no payment reference",
			slog.String("registration_id", reg.ID))
	}
	if err := reg.Cancel(o.now()); err != nil {
		sum.ValidationFailures++
		log.Error("cancel registration",
			slog.String("registration_id", reg.ID),
			slog.String("error", err.Error()),
		)
		return nil
	}
	sum.StatusOnlyCancelled++
	return o.save(ctx, tx, reg)
}

func (o *RefundOrchestrator) save(ctx context.Context, tx ports.EventTx, reg *model.Registration) error {
	if err := tx.Save(ctx, reg); err != nil {
		return fmt.Errorf("save registration %s: %w", reg.ID, err)
	}
	return nil
}

func refundRequest(ev *model.Event, reg *model.Registration) ports.RefundRequest {
	return ports.RefundRequest{
		PaymentReference: reg.PaymentReference,
		AmountMinor:      reg.Total.MinorUnits(),
		Currency:         reg.Total.Currency(),
		ReasonCode:       ReasonEventCancelled,
		IdempotencyKey:   ReasonEventCancelled + ":" + reg.ID,
		Metadata: map[string]string{
			"event_id":        ev.ID,
			"event_title":     ev.Title,
			"registration_id": reg.ID,
			"reason":          ReasonEventCancelled,
		},
	}
}

// notify sends one message per distinct contact. Failures are counted and
// never retried.
func (o *RefundOrchestrator) notify(ctx context.Context, ev *model.Event, recipients map[string]struct{}, sum *Summary) {
	refundInfo := "Refunds will be processed within 5-7 business days."
	if ev.IsFree() {
		refundInfo = "No refund applicable for free events."
	}
	vars := map[string]string{
		"event_id":            ev.ID,
		"event_title":         ev.Title,
		"event_start":         ev.StartsAt.Format(time.RFC1123),
		"cancellation_reason": ev.CancellationReason,
		"refund_info":         refundInfo,
	}

	emails := make([]string, 0, len(recipients))
	for email := range recipients {
		emails = append(emails, email)
	}
	sort.Strings(emails)

	for _, email := range emails {
		err := o.notifier.SendTemplatedMessage(ctx, templateEventCancelled, email, vars)
		o.metrics.Notification(err == nil)
		if err != nil {
			sum.NotificationFailures++
			o.log.Warn("cancellation notification failed",
				slog.String("event_id", ev.ID),
				slog.String("recipient", email),
				slog.String("error", err.Error()),
			)
			continue
		}
		sum.NotificationsSent++
	}
}
