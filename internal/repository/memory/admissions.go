package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/service/ports"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/waitlist"
)

// Admissions serializes work per event with one mutex per event id.
type Admissions struct{ s *Store }

func NewAdmissions(s *Store) *Admissions { return &Admissions{s: s} }

func (a *Admissions) lockFor(eventID string) *sync.Mutex {
	a.s.locksMu.Lock()
	defer a.s.locksMu.Unlock()
	l, ok := a.s.locks[eventID]
	if !ok {
		l = &sync.Mutex{}
		a.s.locks[eventID] = l
	}
	return l
}

func (a *Admissions) WithEventLock(ctx context.Context, eventID string, fn func(tx ports.EventTx) error) error {
	l := a.lockFor(eventID)
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	a.s.mu.RLock()
	e, ok := a.s.events[eventID]
	if !ok {
		a.s.mu.RUnlock()
		return model.ErrNotFound
	}
	event := cloneEvent(e)
	queue, err := waitlist.Restore(eventID, a.s.waitlists[eventID])
	a.s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("load waitlist: %w", err)
	}

	tx := &eventTx{
		s:      a.s,
		event:  event,
		status: event.Status,
		reason: event.CancellationReason,
		queue:  queue,
		writes: make(map[string]*model.Registration),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type eventTx struct {
	s      *Store
	event  *model.Event
	status model.EventStatus
	reason string
	queue  *waitlist.Queue
	writes map[string]*model.Registration
	order  []string
}

func (t *eventTx) Event() *model.Event        { return t.event }
func (t *eventTx) Waitlist() *waitlist.Queue { return t.queue }

func (t *eventTx) Registration(_ context.Context, id string) (*model.Registration, error) {
	if reg, ok := t.writes[id]; ok {
		return cloneRegistration(reg), nil
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	reg, ok := t.s.regs[id]
	if !ok || reg.EventID != t.event.ID {
		return nil, model.ErrNotFound
	}
	return cloneRegistration(reg), nil
}

func (t *eventTx) Registrations(_ context.Context) ([]*model.Registration, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	var out []*model.Registration
	for _, id := range t.s.regOrder {
		reg := t.s.regs[id]
		if reg.EventID != t.event.ID {
			continue
		}
		if w, ok := t.writes[id]; ok {
			reg = w
		}
		out = append(out, cloneRegistration(reg))
	}
	for _, id := range t.order {
		if _, existed := t.s.regs[id]; !existed {
			out = append(out, cloneRegistration(t.writes[id]))
		}
	}
	return out, nil
}

func (t *eventTx) HasActiveRegistration(_ context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	for _, reg := range t.writes {
		if reg.UserID == userID && reg.IsActive() {
			return true, nil
		}
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	for _, reg := range t.s.regs {
		if _, shadowed := t.writes[reg.ID]; shadowed {
			continue
		}
		if reg.EventID == t.event.ID && reg.UserID == userID && reg.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (t *eventTx) Insert(_ context.Context, reg *model.Registration) error {
	if _, ok := t.writes[reg.ID]; ok {
		return fmt.Errorf("insert registration: duplicate id %s", reg.ID)
	}
	t.s.mu.RLock()
	_, exists := t.s.regs[reg.ID]
	t.s.mu.RUnlock()
	if exists {
		return fmt.Errorf("insert registration: duplicate id %s", reg.ID)
	}
	t.writes[reg.ID] = cloneRegistration(reg)
	t.order = append(t.order, reg.ID)
	return nil
}

func (t *eventTx) Save(ctx context.Context, reg *model.Registration) error {
	if _, err := t.Registration(ctx, reg.ID); err != nil {
		return err
	}
	if _, ok := t.writes[reg.ID]; !ok {
		t.order = append(t.order, reg.ID)
	}
	t.writes[reg.ID] = cloneRegistration(reg)
	return nil
}

func (t *eventTx) commit() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if e, ok := t.s.events[t.event.ID]; ok {
		e.ConfirmedCount = t.event.ConfirmedCount
		if t.event.Status != t.status || t.event.CancellationReason != t.reason {
			e.Status = t.event.Status
			e.CancellationReason = t.event.CancellationReason
			e.UpdatedAt = t.event.UpdatedAt
		}
	}
	t.s.waitlists[t.event.ID] = t.queue.Entries()
	for _, id := range t.order {
		if _, existed := t.s.regs[id]; !existed {
			t.s.regOrder = append(t.s.regOrder, id)
		}
		t.s.regs[id] = t.writes[id]
	}
}
