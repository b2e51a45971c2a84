// Package memory is an in-process implementation of the repository ports.
// It backs STORAGE=memory and the service and handler tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/service/ports"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/waitlist"
)

// Store holds the shared state. Values handed out are copies, so callers
// only change stored state through the repositories.
type Store struct {
	mu        sync.RWMutex
	events    map[string]*model.Event
	regs      map[string]*model.Registration
	regOrder  []string
	waitlists map[string][]waitlist.Entry

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		events:    make(map[string]*model.Event),
		regs:      make(map[string]*model.Registration),
		waitlists: make(map[string][]waitlist.Entry),
		locks:     make(map[string]*sync.Mutex),
	}
}

func cloneEvent(e *model.Event) *model.Event {
	c := *e
	if e.Capacity != nil {
		v := *e.Capacity
		c.Capacity = &v
	}
	if e.RefundRunAt != nil {
		v := *e.RefundRunAt
		c.RefundRunAt = &v
	}
	return &c
}

func cloneRegistration(r *model.Registration) *model.Registration {
	c := *r
	c.Attendees = make([]model.AttendeeDetails, len(r.Attendees))
	copy(c.Attendees, r.Attendees)
	return &c
}

// EventRepository implements ports.EventRepo.
type EventRepository struct{ s *Store }

func NewEventRepository(s *Store) *EventRepository { return &EventRepository{s: s} }

func (r *EventRepository) Create(_ context.Context, e *model.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[e.ID]; ok {
		return fmt.Errorf("insert event: duplicate id %s", e.ID)
	}
	r.s.events[e.ID] = cloneEvent(e)
	return nil
}

func (r *EventRepository) GetByID(_ context.Context, id string) (*model.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneEvent(e), nil
}

// List returns all events ordered by creation time descending.
func (r *EventRepository) List(_ context.Context) ([]*model.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*model.Event, 0, len(r.s.events))
	for _, e := range r.s.events {
		out = append(out, cloneEvent(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *EventRepository) Save(_ context.Context, e *model.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.events[e.ID]
	if !ok {
		return model.ErrNotFound
	}
	next := cloneEvent(e)
	next.ConfirmedCount = cur.ConfirmedCount
	next.RefundRunAt = cur.RefundRunAt
	r.s.events[e.ID] = next
	return nil
}

func (r *EventRepository) ClaimRefundRun(_ context.Context, eventID string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[eventID]
	if !ok {
		return false, model.ErrNotFound
	}
	if e.RefundRunAt != nil {
		return false, nil
	}
	e.RefundRunAt = &at
	return true, nil
}

func (r *EventRepository) ListUnclaimedCancelled(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, e := range r.s.events {
		if e.Status == model.EventCancelled && e.RefundRunAt == nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// RegistrationRepository implements ports.RegistrationRepo.
type RegistrationRepository struct{ s *Store }

func NewRegistrationRepository(s *Store) *RegistrationRepository {
	return &RegistrationRepository{s: s}
}

func (r *RegistrationRepository) GetByID(_ context.Context, id string) (*model.Registration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	reg, ok := r.s.regs[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneRegistration(reg), nil
}

func (r *RegistrationRepository) GetByEvent(_ context.Context, eventID string) ([]*model.Registration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*model.Registration
	for _, id := range r.s.regOrder {
		if reg := r.s.regs[id]; reg.EventID == eventID {
			out = append(out, cloneRegistration(reg))
		}
	}
	return out, nil
}

var (
	_ ports.EventRepo        = (*EventRepository)(nil)
	_ ports.RegistrationRepo = (*RegistrationRepository)(nil)
	_ ports.Admissions       = (*Admissions)(nil)
)
