package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/service/ports"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/waitlist"
)

// WaitlistService exposes the per-event queue. Every operation runs under
// the event lock so positions and capacity change together.
type WaitlistService struct {
	admissions ports.Admissions
	regs       *RegistrationService
	log        *slog.Logger
}

func NewWaitlistService(admissions ports.Admissions, regs *RegistrationService, log *slog.Logger) *WaitlistService {
	return &WaitlistService{admissions: admissions, regs: regs, log: log}
}

// Join enrolls a signed-in user. The event must be unable to admit the
// request and the user must hold no active registration.
func (s *WaitlistService) Join(ctx context.Context, eventID string, sub model.Submission) (waitlist.Entry, error) {
	if err := sub.Validate(); err != nil {
		return waitlist.Entry{}, err
	}
	if sub.UserID == "" {
		return waitlist.Entry{}, fmt.Errorf("%w: user id is required", model.ErrValidation)
	}

	var entry waitlist.Entry
	err := s.admissions.WithEventLock(ctx, eventID, func(tx ports.EventTx) error {
		ev := tx.Event()
		if !ev.AcceptsRegistrations() {
			return fmt.Errorf("%w: event status is %s", model.ErrEventNotOpen, ev.Status)
		}
		if ev.HasCapacityFor(len(sub.Attendees)) {
			return model.ErrSeatsAvailable
		}
		active, err := tx.HasActiveRegistration(ctx, sub.UserID)
		if err != nil {
			return fmt.Errorf("check existing registration: %w", err)
		}
		if active {
			return model.ErrAlreadyRegistered
		}
		entry, err = tx.Waitlist().Join(sub.UserID, sub, s.regs.now())
		return err
	})
	if err != nil {
		return waitlist.Entry{}, err
	}
	s.log.Info("joined waitlist",
		slog.String("event_id", eventID),
		slog.String("user_id", sub.UserID),
		slog.Int("position", entry.Position),
	)
	return entry, nil
}

// Remove takes the user off the queue; later positions move up by one.
func (s *WaitlistService) Remove(ctx context.Context, eventID, userID string) error {
	return s.admissions.WithEventLock(ctx, eventID, func(tx ports.EventTx) error {
		return tx.Waitlist().Remove(userID)
	})
}

// List returns the queue in position order.
func (s *WaitlistService) List(ctx context.Context, eventID string) ([]waitlist.Entry, error) {
	var entries []waitlist.Entry
	err := s.admissions.WithEventLock(ctx, eventID, func(tx ports.EventTx) error {
		entries = tx.Waitlist().Entries()
		return nil
	})
	return entries, err
}

// PromoteNext pops position 1 and re-runs admission for it. The bool is
// false when the queue was empty. A failed admission is reported in the
// Promotion and the entry stays off the queue.
func (s *WaitlistService) PromoteNext(ctx context.Context, eventID string) (Promotion, bool, error) {
	var (
		p     Promotion
		found bool
	)
	err := s.admissions.WithEventLock(ctx, eventID, func(tx ports.EventTx) error {
		entry, ok := tx.Waitlist().PromoteNext()
		if !ok {
			return nil
		}
		found = true
		p.UserID = entry.UserID
		res, err := s.regs.admit(ctx, tx, entry.Submission, false)
		switch {
		case err != nil:
			p.Error = err.Error()
		case res.Outcome != OutcomeConfirmed:
			p.Error = "not enough seats for the requested attendees"
		default:
			p.Registration = res.Registration
		}
		return nil
	})
	if err != nil {
		return Promotion{}, false, err
	}
	if found {
		s.regs.notifyPromotions(ctx, eventID, []Promotion{p})
	}
	return p, found, nil
}
