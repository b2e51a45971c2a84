package ports

import (
	"context"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/waitlist"
)

// Admissions serializes capacity changes per event.
type Admissions interface {
	// WithEventLock runs fn while holding the event's lock. The event's
	// confirmed count and lifecycle fields (status, cancellation reason), the
	// waitlist and every registration written through tx are committed
	// together when fn returns nil and discarded otherwise.
	WithEventLock(ctx context.Context, eventID string, fn func(tx EventTx) error) error
}

// EventTx is the view of one locked event.
type EventTx interface {
	Event() *model.Event
	Waitlist() *waitlist.Queue
	Registration(ctx context.Context, id string) (*model.Registration, error)
	// Registrations returns the event's registrations in creation order,
	// including writes made through tx.
	Registrations(ctx context.Context) ([]*model.Registration, error)
	HasActiveRegistration(ctx context.Context, userID string) (bool, error)
	Insert(ctx context.Context, r *model.Registration) error
	Save(ctx context.Context, r *model.Registration) error
}
