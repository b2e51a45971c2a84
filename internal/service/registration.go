package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/metrics"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/service/ports"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/waitlist"
)

// Outcome is how a submission was handled.
type Outcome string

const (
	OutcomeConfirmed       Outcome = "confirmed"
	OutcomeWaitlistOffered Outcome = "waitlist_offered"
	OutcomeWaitlisted      Outcome = "waitlisted"
)

const templateWaitlistPromoted = "waitlist_promoted"

type SubmitResult struct {
	Outcome       Outcome             `json:"outcome"`
	Registration  *model.Registration `json:"registration,omitempty"`
	WaitlistEntry *waitlist.Entry     `json:"waitlist_entry,omitempty"`
}

// Promotion reports one waitlist entry that was offered a freed seat. A
// failed promotion is not re-queued.
type Promotion struct {
	UserID       string              `json:"user_id"`
	Registration *model.Registration `json:"registration,omitempty"`
	Error        string              `json:"error,omitempty"`
}

type RegistrationResult struct {
	Registration *model.Registration `json:"registration"`
	Promotions   []Promotion         `json:"promotions,omitempty"`
}

// RegistrationService owns admission and the registration lifecycle.
type RegistrationService struct {
	admissions ports.Admissions
	regs       ports.RegistrationRepo
	pricer     *Pricer
	notifier   ports.Notifier
	metrics    *metrics.Metrics
	log        *slog.Logger
	now        func() time.Time
}

func NewRegistrationService(
	admissions ports.Admissions,
	regs ports.RegistrationRepo,
	pricer *Pricer,
	notifier ports.Notifier,
	m *metrics.Metrics,
	log *slog.Logger,
) *RegistrationService {
	return &RegistrationService{
		admissions: admissions,
		regs:       regs,
		pricer:     pricer,
		notifier:   notifier,
		metrics:    m,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Submit admits the submission if it fits. Otherwise nothing is created and
// the caller is offered the waitlist; with joinWaitlist and a user id the
// user is enrolled under the same lock.
func (s *RegistrationService) Submit(ctx context.Context, eventID string, sub model.Submission, joinWaitlist bool) (SubmitResult, error) {
	if err := sub.Validate(); err != nil {
		return SubmitResult{}, err
	}

	var res SubmitResult
	err := s.admissions.WithEventLock(ctx, eventID, func(tx ports.EventTx) error {
		var err error
		res, err = s.admit(ctx, tx, sub, joinWaitlist)
		return err
	})
	if err != nil {
		s.metrics.Registration("rejected")
		return SubmitResult{}, err
	}
	s.metrics.Registration(string(res.Outcome))
	return res, nil
}

func (s *RegistrationService) admit(ctx context.Context, tx ports.EventTx, sub model.Submission, joinWaitlist bool) (SubmitResult, error) {
	ev := tx.Event()
	if !ev.AcceptsRegistrations() {
		return SubmitResult{}, fmt.Errorf("%w: event status is %s", model.ErrEventNotOpen, ev.Status)
	}
	if sub.UserID != "" {
		active, err := tx.HasActiveRegistration(ctx, sub.UserID)
		if err != nil {
			return SubmitResult{}, fmt.Errorf("check existing registration: %w", err)
		}
		if active {
			return SubmitResult{}, model.ErrAlreadyRegistered
		}
	}

	n := len(sub.Attendees)
	if !ev.HasCapacityFor(n) {
		if !joinWaitlist || sub.UserID == "" {
			return SubmitResult{Outcome: OutcomeWaitlistOffered}, nil
		}
		entry, err := tx.Waitlist().Join(sub.UserID, sub, s.now())
		if err != nil {
			return SubmitResult{}, err
		}
		return SubmitResult{Outcome: OutcomeWaitlisted, WaitlistEntry: &entry}, nil
	}

	q, err := s.pricer.Quote(ev, sub.Attendees)
	if err != nil {
		return SubmitResult{}, err
	}
	reg, err := model.NewConfirmedRegistration(uuid.New().String(), ev.ID, sub, q.Total, q.Breakdown, s.now())
	if err != nil {
		return SubmitResult{}, err
	}
	if err := ev.Admit(n); err != nil {
		return SubmitResult{}, err
	}
	if err := tx.Insert(ctx, reg); err != nil {
		return SubmitResult{}, err
	}
	if sub.UserID != "" && tx.Waitlist().Contains(sub.UserID) {
		_ = tx.Waitlist().Remove(sub.UserID)
	}
	return SubmitResult{Outcome: OutcomeConfirmed, Registration: reg}, nil
}

// promote offers freed seats to the head of the queue until an admission
// does not confirm or no seats remain.
func (s *RegistrationService) promote(ctx context.Context, tx ports.EventTx) []Promotion {
	var out []Promotion
	ev := tx.Event()
	for ev.HasCapacityFor(1) && ev.AcceptsRegistrations() {
		entry, ok := tx.Waitlist().PromoteNext()
		if !ok {
			break
		}
		p := Promotion{UserID: entry.UserID}
		res, err := s.admit(ctx, tx, entry.Submission, false)
		switch {
		case err != nil:
			p.Error = err.Error()
		case res.Outcome != OutcomeConfirmed:
			p.Error = "not enough seats for the requested attendees"
		default:
			p.Registration = res.Registration
		}
		out = append(out, p)
		if p.Registration == nil {
			s.log.Warn("waitlist promotion failed",
				slog.String("event_id", ev.ID),
				slog.String("user_id", entry.UserID),
				slog.String("reason", p.Error),
			)
			if res.Outcome == OutcomeWaitlistOffered {
				break
			}
		}
	}
	return out
}

func (s *RegistrationService) notifyPromotions(ctx context.Context, eventID string, promotions []Promotion) {
	for _, p := range promotions {
		if p.Registration == nil {
			continue
		}
		err := s.notifier.SendTemplatedMessage(ctx, templateWaitlistPromoted, p.Registration.Contact.Email, map[string]string{
			"event_id":        eventID,
			"registration_id": p.Registration.ID,
		})
		s.metrics.Notification(err == nil)
		if err != nil {
			s.log.Warn("promotion notification failed",
				slog.String("registration_id", p.Registration.ID),
				slog.String("error", err.Error()),
			)
		}
		s.metrics.Registration("promoted")
	}
}

// Get returns a single registration.
func (s *RegistrationService) Get(ctx context.Context, id string) (*model.Registration, error) {
	return s.regs.GetByID(ctx, id)
}

// mutate locks the registration's event and hands fn a fresh copy of it.
// Seats freed by fn are offered to the waitlist before the lock is released.
func (s *RegistrationService) mutate(ctx context.Context, id string, fn func(tx ports.EventTx, reg *model.Registration) (freed bool, err error)) (RegistrationResult, error) {
	current, err := s.regs.GetByID(ctx, id)
	if err != nil {
		return RegistrationResult{}, err
	}

	var res RegistrationResult
	err = s.admissions.WithEventLock(ctx, current.EventID, func(tx ports.EventTx) error {
		reg, err := tx.Registration(ctx, id)
		if err != nil {
			return err
		}
		freed, err := fn(tx, reg)
		if err != nil {
			return err
		}
		if err := tx.Save(ctx, reg); err != nil {
			return err
		}
		res.Registration = reg
		if freed {
			res.Promotions = s.promote(ctx, tx)
		}
		return nil
	})
	if err != nil {
		return RegistrationResult{}, err
	}
	s.notifyPromotions(ctx, current.EventID, res.Promotions)
	return res, nil
}

// Cancel cancels the registration, releases its seats and promotes from the
// waitlist when seats were freed.
func (s *RegistrationService) Cancel(ctx context.Context, id string) (RegistrationResult, error) {
	return s.mutate(ctx, id, func(tx ports.EventTx, reg *model.Registration) (bool, error) {
		held := reg.HoldsSeats()
		if err := reg.Cancel(s.now()); err != nil {
			return false, err
		}
		if held {
			tx.Event().Release(reg.AttendeeCount())
		}
		return held, nil
	})
}

// UpdateDetails replaces contact and attendees. Capacity is only touched when
// the attendee count changes; more attendees need the event to still be open.
// Unpaid registrations are repriced on every edit.
func (s *RegistrationService) UpdateDetails(ctx context.Context, id string, contact model.Contact, attendees []model.AttendeeDetails) (RegistrationResult, error) {
	return s.mutate(ctx, id, func(tx ports.EventTx, reg *model.Registration) (bool, error) {
		ev := tx.Event()
		before := reg.AttendeeCount()
		if err := reg.UpdateDetails(contact, attendees, s.now()); err != nil {
			return false, err
		}
		delta := reg.AttendeeCount() - before
		if delta > 0 && !ev.AcceptsRegistrations() {
			return false, fmt.Errorf("%w: event status is %s", model.ErrEventNotOpen, ev.Status)
		}

		if reg.HoldsSeats() {
			if delta > 0 && !ev.HasCapacityFor(delta) {
				return false, fmt.Errorf("%w: %d more attendees requested, %d remaining",
					model.ErrCapacityUnavailable, delta, ev.Remaining())
			}
			if delta > 0 {
				if err := ev.Admit(delta); err != nil {
					return false, err
				}
			}
			if delta < 0 {
				ev.Release(-delta)
			}
		}

		if !reg.IsPaid() {
			q, err := s.pricer.Quote(ev, reg.Attendees)
			if err != nil {
				return false, err
			}
			reg.Reprice(q.Total, q.Breakdown)
		}
		return delta < 0 && reg.HoldsSeats(), nil
	})
}

// CompletePayment records the captured payment reference.
func (s *RegistrationService) CompletePayment(ctx context.Context, id, reference string) (*model.Registration, error) {
	res, err := s.mutate(ctx, id, func(_ ports.EventTx, reg *model.Registration) (bool, error) {
		return false, reg.CompletePayment(reference, s.now())
	})
	return res.Registration, err
}

// FailPayment cancels an unpaid registration and frees its seats.
func (s *RegistrationService) FailPayment(ctx context.Context, id string) (RegistrationResult, error) {
	return s.mutate(ctx, id, func(tx ports.EventTx, reg *model.Registration) (bool, error) {
		held := reg.HoldsSeats()
		if err := reg.FailPayment(s.now()); err != nil {
			return false, err
		}
		if held {
			tx.Event().Release(reg.AttendeeCount())
		}
		return held, nil
	})
}
