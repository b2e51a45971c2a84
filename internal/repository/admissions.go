package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/service/ports"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/waitlist"
)

// Admissions serialises work on one event with SELECT … FOR UPDATE on the
// event row. Concurrent admissions, cancellations and refund runs for the
// same event block on the row lock until the holder commits or rolls back, so
// the read-check-write of confirmed_count and registration rows never
// interleaves.
type Admissions struct {
	db *pgxpool.Pool
}

func NewAdmissions(db *pgxpool.Pool) *Admissions {
	return &Admissions{db: db}
}

func (a *Admissions) WithEventLock(ctx context.Context, eventID string, fn func(tx ports.EventTx) error) error {
	if !validID(eventID) {
		return model.ErrNotFound
	}
	return pgx.BeginFunc(ctx, a.db, func(tx pgx.Tx) error {
		event, err := scanEvent(tx.QueryRow(ctx,
			`SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, eventID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrNotFound
			}
			return fmt.Errorf("lock event row: %w", err)
		}

		before, err := loadWaitlist(ctx, tx, eventID)
		if err != nil {
			return err
		}
		queue, err := waitlist.Restore(eventID, before)
		if err != nil {
			return fmt.Errorf("load waitlist: %w", err)
		}
		counted, status, reason := event.ConfirmedCount, event.Status, event.CancellationReason

		etx := &eventTx{tx: tx, event: event, queue: queue}
		if err := fn(etx); err != nil {
			return err
		}

		if event.ConfirmedCount != counted {
			if _, err := tx.Exec(ctx,
				`UPDATE events SET confirmed_count = $2 WHERE id = $1`,
				eventID, event.ConfirmedCount,
			); err != nil {
				return fmt.Errorf("update confirmed_count: %w", err)
			}
		}
		if event.Status != status || event.CancellationReason != reason {
			if _, err := tx.Exec(ctx,
				`UPDATE events SET status = $2, cancellation_reason = $3, updated_at = $4 WHERE id = $1`,
				eventID, event.Status, event.CancellationReason, event.UpdatedAt,
			); err != nil {
				return fmt.Errorf("update event status: %w", err)
			}
		}
		if after := queue.Entries(); !sameQueue(before, after) {
			if err := storeWaitlist(ctx, tx, eventID, after); err != nil {
				return err
			}
		}
		return nil
	})
}

func loadWaitlist(ctx context.Context, q querier, eventID string) ([]waitlist.Entry, error) {
	rows, err := q.Query(ctx,
		`SELECT user_id, position, joined_at, submission
		 FROM waitlist_entries
		 WHERE event_id = $1
		 ORDER BY position ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("load waitlist: %w", err)
	}
	defer rows.Close()

	var entries []waitlist.Entry
	for rows.Next() {
		var (
			e   = waitlist.Entry{EventID: eventID}
			raw []byte
		)
		if err := rows.Scan(&e.UserID, &e.Position, &e.JoinedAt, &raw); err != nil {
			return nil, fmt.Errorf("scan waitlist entry: %w", err)
		}
		if e.Submission, err = decodeSubmission(raw); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// storeWaitlist replaces the event's queue. Positions are renumbered on
// every removal, so a rewrite is simpler than shifting rows in place.
func storeWaitlist(ctx context.Context, tx pgx.Tx, eventID string, entries []waitlist.Entry) error {
	if _, err := tx.Exec(ctx, `DELETE FROM waitlist_entries WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("clear waitlist: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"waitlist_entries"},
		[]string{"event_id", "user_id", "position", "joined_at", "submission"},
		pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
			e := entries[i]
			raw, err := encodeSubmission(e.Submission)
			if err != nil {
				return nil, fmt.Errorf("encode submission: %w", err)
			}
			return []any{eventID, e.UserID, e.Position, e.JoinedAt, raw}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy waitlist: %w", err)
	}
	return nil
}

// eventTx runs every statement on the locked transaction, so reads see the
// transaction's own writes.
type eventTx struct {
	tx    pgx.Tx
	event *model.Event
	queue *waitlist.Queue
}

func (t *eventTx) Event() *model.Event        { return t.event }
func (t *eventTx) Waitlist() *waitlist.Queue { return t.queue }

func (t *eventTx) Registration(ctx context.Context, id string) (*model.Registration, error) {
	if !validID(id) {
		return nil, model.ErrNotFound
	}
	reg, err := scanRegistration(t.tx.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1 AND event_id = $2`,
		id, t.event.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

func (t *eventTx) Registrations(ctx context.Context) ([]*model.Registration, error) {
	return listRegistrations(ctx, t.tx, t.event.ID)
}

func (t *eventTx) HasActiveRegistration(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	var active bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE event_id = $1 AND user_id = $2 AND status <> $3
		)`,
		t.event.ID, userID, model.RegistrationCancelled,
	).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("check active registration: %w", err)
	}
	return active, nil
}

func (t *eventTx) Insert(ctx context.Context, reg *model.Registration) error {
	return insertRegistration(ctx, t.tx, reg)
}

func (t *eventTx) Save(ctx context.Context, reg *model.Registration) error {
	args, err := updateRegistrationArgs(reg)
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, updateRegistrationSQL+` AND event_id = $14`, append(args, t.event.ID)...)
	if err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
