// Package waitlist keeps the ordered queue of users waiting for seats at a
// full event. Positions are always 1..N in join order.
package waitlist

import (
	"fmt"
	"time"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
)

// Entry is one queued user. Submission is replayed when the entry is promoted.
type Entry struct {
	EventID    string           `json:"event_id"`
	UserID     string           `json:"user_id"`
	JoinedAt   time.Time        `json:"joined_at"`
	Position   int              `json:"position"`
	Submission model.Submission `json:"submission"`
}

// Queue is one event's waitlist. It is not safe for concurrent use; callers
// hold the event lock.
type Queue struct {
	eventID string
	entries []Entry
}

// New returns an empty queue.
func New(eventID string) *Queue {
	return &Queue{eventID: eventID}
}

// Restore rebuilds a stored queue. Entries must already be numbered 1..N.
func Restore(eventID string, entries []Entry) (*Queue, error) {
	q := &Queue{eventID: eventID, entries: make([]Entry, 0, len(entries))}
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.Position != i+1 {
			return nil, fmt.Errorf("waitlist %s: entry %s has position %d, want %d", eventID, e.UserID, e.Position, i+1)
		}
		if _, dup := seen[e.UserID]; dup {
			return nil, fmt.Errorf("waitlist %s: user %s queued twice", eventID, e.UserID)
		}
		seen[e.UserID] = struct{}{}
		q.entries = append(q.entries, e)
	}
	return q, nil
}

func (q *Queue) EventID() string { return q.eventID }
func (q *Queue) Len() int        { return len(q.entries) }

// Entries returns a copy of the queue in position order.
func (q *Queue) Entries() []Entry {
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// Position returns the user's position, or 0 when not queued.
func (q *Queue) Position(userID string) int {
	if i := q.index(userID); i >= 0 {
		return q.entries[i].Position
	}
	return 0
}

func (q *Queue) Contains(userID string) bool { return q.index(userID) >= 0 }

func (q *Queue) index(userID string) int {
	for i, e := range q.entries {
		if e.UserID == userID {
			return i
		}
	}
	return -1
}

// Join appends the user at position N+1.
func (q *Queue) Join(userID string, sub model.Submission, at time.Time) (Entry, error) {
	if userID == "" {
		return Entry{}, fmt.Errorf("%w: a user id is required to join the waitlist", model.ErrValidation)
	}
	if q.Contains(userID) {
		return Entry{}, model.ErrAlreadyWaitlisted
	}
	e := Entry{
		EventID:    q.eventID,
		UserID:     userID,
		JoinedAt:   at,
		Position:   len(q.entries) + 1,
		Submission: sub,
	}
	q.entries = append(q.entries, e)
	return e, nil
}

// Remove deletes the user's entry and shifts every later entry up by one.
func (q *Queue) Remove(userID string) error {
	i := q.index(userID)
	if i < 0 {
		return model.ErrNotWaitlisted
	}
	q.removeAt(i)
	return nil
}

// PromoteNext pops the entry at position 1. The caller re-runs admission; a
// failed admission must not silently re-queue the entry.
func (q *Queue) PromoteNext() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	head := q.entries[0]
	q.removeAt(0)
	return head, true
}

func (q *Queue) removeAt(i int) {
	q.entries = append(q.entries[:i], q.entries[i+1:]...)
	for j := i; j < len(q.entries); j++ {
		q.entries[j].Position--
	}
}
