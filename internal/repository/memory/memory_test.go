package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/money"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/pricing"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/service/ports"
)

var t0 = time.Date(2026, 4, 14, 9, 0, 0, 0, time.UTC)

func newEvent(id string, capacity int, created time.Time) *model.Event {
	return &model.Event{
		ID:        id,
		Title:     "Kandy Esala Perahera viewing",
		StartsAt:  t0.Add(72 * time.Hour),
		Capacity:  &capacity,
		Status:    model.EventPublished,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func submission(t *testing.T, userID string) model.Submission {
	t.Helper()
	c, err := model.NewContact(userID+"@example.com", "+94770000000", "")
	require.NoError(t, err)
	a, err := model.NewAttendee("Guest", pricing.Adult, "")
	require.NoError(t, err)
	return model.Submission{UserID: userID, Contact: c, Attendees: []model.AttendeeDetails{a}}
}

func registration(t *testing.T, id, eventID, userID string) *model.Registration {
	t.Helper()
	reg, err := model.NewConfirmedRegistration(id, eventID, submission(t, userID), money.Zero(money.USD), nil, t0)
	require.NoError(t, err)
	return reg
}

func TestEventRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	events := NewEventRepository(NewStore())
	require.NoError(t, events.Create(ctx, newEvent("e1", 10, t0)))

	got, err := events.GetByID(ctx, "e1")
	require.NoError(t, err)
	*got.Capacity = 999
	got.Title = "changed"

	again, err := events.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 10, *again.Capacity)
	assert.Equal(t, "Kandy Esala Perahera viewing", again.Title)

	_, err = events.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Error(t, events.Create(ctx, newEvent("e1", 1, t0)))
}

func TestEventRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	events := NewEventRepository(NewStore())
	require.NoError(t, events.Create(ctx, newEvent("old", 1, t0)))
	require.NoError(t, events.Create(ctx, newEvent("new", 1, t0.Add(time.Hour))))

	list, err := events.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
}

func TestEventRepository_SaveKeepsAdmissionFields(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	events := NewEventRepository(store)
	require.NoError(t, events.Create(ctx, newEvent("e1", 10, t0)))

	err := NewAdmissions(store).WithEventLock(ctx, "e1", func(tx ports.EventTx) error {
		return tx.Event().Admit(4)
	})
	require.NoError(t, err)

	stale := newEvent("e1", 10, t0)
	stale.Status = model.EventCancelled
	stale.ConfirmedCount = 0
	require.NoError(t, events.Save(ctx, stale))

	got, err := events.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, model.EventCancelled, got.Status)
	assert.Equal(t, 4, got.ConfirmedCount)

	assert.ErrorIs(t, events.Save(ctx, newEvent("missing", 1, t0)), model.ErrNotFound)
}

func TestEventRepository_ClaimRefundRun(t *testing.T) {
	ctx := context.Background()
	events := NewEventRepository(NewStore())
	for _, id := range []string{"b", "a", "open"} {
		e := newEvent(id, 1, t0)
		if id != "open" {
			e.Status = model.EventCancelled
		}
		require.NoError(t, events.Create(ctx, e))
	}

	ids, err := events.ListUnclaimedCancelled(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := events.ClaimRefundRun(ctx, "a", t0)
			if err == nil && ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)

	ids, err = events.ListUnclaimedCancelled(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)

	_, err = events.ClaimRefundRun(ctx, "missing", t0)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAdmissions_CommitsOnlyOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	events := NewEventRepository(store)
	regs := NewRegistrationRepository(store)
	admissions := NewAdmissions(store)
	require.NoError(t, events.Create(ctx, newEvent("e1", 2, t0)))

	boom := errors.New("boom")
	err := admissions.WithEventLock(ctx, "e1", func(tx ports.EventTx) error {
		require.NoError(t, tx.Event().Admit(1))
		require.NoError(t, tx.Insert(ctx, registration(t, "r1", "e1", "u1")))
		_, err := tx.Waitlist().Join("u2", submission(t, "u2"), t0)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := events.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Zero(t, got.ConfirmedCount)
	_, err = regs.GetByID(ctx, "r1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = admissions.WithEventLock(ctx, "e1", func(tx ports.EventTx) error {
		assert.Zero(t, tx.Waitlist().Len())
		require.NoError(t, tx.Event().Admit(1))
		require.NoError(t, tx.Insert(ctx, registration(t, "r1", "e1", "u1")))

		// Reads inside the transaction see pending writes.
		active, err := tx.HasActiveRegistration(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, active)
		_, err = tx.Registration(ctx, "r1")
		require.NoError(t, err)

		_, err = tx.Waitlist().Join("u2", submission(t, "u2"), t0)
		return err
	})
	require.NoError(t, err)

	got, err = events.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.ConfirmedCount)
	list, err := regs.GetByEvent(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r1", list[0].ID)

	err = admissions.WithEventLock(ctx, "e1", func(tx ports.EventTx) error {
		assert.Equal(t, 1, tx.Waitlist().Position("u2"))
		assert.Error(t, tx.Insert(ctx, registration(t, "r1", "e1", "u9")))
		return nil
	})
	require.NoError(t, err)

	err = admissions.WithEventLock(ctx, "missing", func(ports.EventTx) error { return nil })
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAdmissions_ScopesRegistrationsToEvent(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	events := NewEventRepository(store)
	admissions := NewAdmissions(store)
	require.NoError(t, events.Create(ctx, newEvent("e1", 5, t0)))
	require.NoError(t, events.Create(ctx, newEvent("e2", 5, t0)))

	require.NoError(t, admissions.WithEventLock(ctx, "e1", func(tx ports.EventTx) error {
		return tx.Insert(ctx, registration(t, "r1", "e1", "u1"))
	}))

	require.NoError(t, admissions.WithEventLock(ctx, "e2", func(tx ports.EventTx) error {
		_, err := tx.Registration(ctx, "r1")
		assert.ErrorIs(t, err, model.ErrNotFound)
		active, err := tx.HasActiveRegistration(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, active)
		return nil
	}))
}

func TestEventTx_Registrations(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	events := NewEventRepository(store)
	admissions := NewAdmissions(store)
	require.NoError(t, events.Create(ctx, newEvent("e1", 5, t0)))
	require.NoError(t, events.Create(ctx, newEvent("e2", 5, t0)))
	require.NoError(t, admissions.WithEventLock(ctx, "e1", func(tx ports.EventTx) error {
		for _, id := range []string{"r1", "r2"} {
			if err := tx.Insert(ctx, registration(t, id, "e1", id)); err != nil {
				return err
			}
		}
		return nil
	}))
	require.NoError(t, admissions.WithEventLock(ctx, "e2", func(tx ports.EventTx) error {
		return tx.Insert(ctx, registration(t, "other", "e2", "other"))
	}))

	require.NoError(t, admissions.WithEventLock(ctx, "e1", func(tx ports.EventTx) error {
		r1, err := tx.Registration(ctx, "r1")
		require.NoError(t, err)
		require.NoError(t, r1.Cancel(t0))
		require.NoError(t, tx.Save(ctx, r1))
		require.NoError(t, tx.Insert(ctx, registration(t, "r3", "e1", "u3")))

		list, err := tx.Registrations(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"r1", "r2", "r3"}, []string{list[0].ID, list[1].ID, list[2].ID})
		assert.Equal(t, model.RegistrationCancelled, list[0].Status)
		return nil
	}))

	list, err := NewRegistrationRepository(store).GetByEvent(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, model.RegistrationCancelled, list[0].Status)
	assert.Equal(t, "r3", list[2].ID)
}

func TestAdmissions_CommitsLifecycleWithWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	events := NewEventRepository(store)
	regs := NewRegistrationRepository(store)
	admissions := NewAdmissions(store)
	require.NoError(t, events.Create(ctx, newEvent("e1", 5, t0)))
	require.NoError(t, admissions.WithEventLock(ctx, "e1", func(tx ports.EventTx) error {
		return tx.Insert(ctx, registration(t, "r1", "e1", "u1"))
	}))

	err := admissions.WithEventLock(ctx, "e1", func(tx ports.EventTx) error {
		require.NoError(t, tx.Event().Cancel("flooding", t0))
		r1, err := tx.Registration(ctx, "r1")
		require.NoError(t, err)
		require.NoError(t, r1.Cancel(t0))
		require.NoError(t, tx.Save(ctx, r1))
		return errors.New("abort")
	})
	require.Error(t, err)

	ev, err := events.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, model.EventPublished, ev.Status)
	got, err := regs.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationConfirmed, got.Status)

	require.NoError(t, admissions.WithEventLock(ctx, "e1", func(tx ports.EventTx) error {
		return tx.Event().Cancel("flooding", t0)
	}))
	ev, err = events.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, model.EventCancelled, ev.Status)
	assert.Equal(t, "flooding", ev.CancellationReason)
}
