// Package repository implements the service ports on PostgreSQL.
// It uses pgx directly (no ORM); JSONB columns hold pricing, attendees,
// breakdowns and waitlist submissions.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/money"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/service/ports"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

const eventColumns = `id::text, title, organizer_id, starts_at, capacity, confirmed_count, status,
	pricing, tax_rate::text, cancellation_reason, refund_run_at, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var (
		e       model.Event
		pricing []byte
		taxRate string
	)
	err := row.Scan(&e.ID, &e.Title, &e.OrganizerID, &e.StartsAt, &e.Capacity, &e.ConfirmedCount, &e.Status,
		&pricing, &taxRate, &e.CancellationReason, &e.RefundRunAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if e.Pricing, err = decodePricing(pricing); err != nil {
		return nil, err
	}
	if e.TaxRate, err = parseRate(taxRate); err != nil {
		return nil, err
	}
	return &e, nil
}

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	pricing, err := encodePricing(e.Pricing)
	if err != nil {
		return fmt.Errorf("encode pricing: %w", err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO events (id, title, organizer_id, starts_at, capacity, confirmed_count, status,
			pricing, tax_rate, cancellation_reason, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::numeric, $10, $11, $12)`,
		e.ID, e.Title, e.OrganizerID, e.StartsAt, e.Capacity, e.ConfirmedCount, e.Status,
		pricing, e.TaxRate.String(), e.CancellationReason, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// List returns all events ordered by creation time descending.
func (r *EventRepository) List(ctx context.Context) ([]*model.Event, error) {
	rows, err := r.db.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetByID returns a single event or model.ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if !validID(id) {
		return nil, model.ErrNotFound
	}
	e, err := scanEvent(r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) Save(ctx context.Context, e *model.Event) error {
	pricing, err := encodePricing(e.Pricing)
	if err != nil {
		return fmt.Errorf("encode pricing: %w", err)
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE events
		 SET title = $2, organizer_id = $3, starts_at = $4, capacity = $5, status = $6,
		     pricing = $7, tax_rate = $8::numeric, cancellation_reason = $9, updated_at = $10
		 WHERE id = $1`,
		e.ID, e.Title, e.OrganizerID, e.StartsAt, e.Capacity, e.Status,
		pricing, e.TaxRate.String(), e.CancellationReason, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ClaimRefundRun sets refund_run_at only when it is still NULL, so exactly
// one caller wins.
func (r *EventRepository) ClaimRefundRun(ctx context.Context, eventID string, at time.Time) (bool, error) {
	if !validID(eventID) {
		return false, model.ErrNotFound
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE events SET refund_run_at = $2 WHERE id = $1 AND refund_run_at IS NULL`,
		eventID, at,
	)
	if err != nil {
		return false, fmt.Errorf("claim refund run: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		return false, fmt.Errorf("claim refund run: %w", err)
	}
	if !exists {
		return false, model.ErrNotFound
	}
	return false, nil
}

func (r *EventRepository) ListUnclaimedCancelled(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id::text FROM events
		 WHERE status = $1 AND refund_run_at IS NULL
		 ORDER BY id`,
		model.EventCancelled,
	)
	if err != nil {
		return nil, fmt.Errorf("list unclaimed cancelled events: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan event id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const registrationColumns = `id::text, event_id::text, user_id, email, phone, address, attendees,
	total_minor, currency, breakdown, status, payment_status, payment_reference, refund_reference,
	created_at, updated_at`

func scanRegistration(row pgx.Row) (*model.Registration, error) {
	var (
		reg        model.Registration
		attendees  []byte
		breakdown  []byte
		totalMinor int64
		currency   string
	)
	err := row.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Contact.Email, &reg.Contact.Phone, &reg.Contact.Address,
		&attendees, &totalMinor, &currency, &breakdown, &reg.Status, &reg.PaymentStatus,
		&reg.PaymentReference, &reg.RefundReference, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if reg.Attendees, err = decodeAttendees(attendees); err != nil {
		return nil, err
	}
	if reg.Total, err = money.FromMinor(totalMinor, money.Currency(currency)); err != nil {
		return nil, fmt.Errorf("decode total: %w", err)
	}
	if reg.Breakdown, err = decodeBreakdown(breakdown); err != nil {
		return nil, err
	}
	return &reg, nil
}

func insertRegistration(ctx context.Context, q querier, reg *model.Registration) error {
	attendees, err := encodeAttendees(reg.Attendees)
	if err != nil {
		return fmt.Errorf("encode attendees: %w", err)
	}
	breakdown, err := encodeBreakdown(reg.Breakdown)
	if err != nil {
		return fmt.Errorf("encode breakdown: %w", err)
	}
	_, err = q.Exec(ctx,
		`INSERT INTO registrations (id, event_id, user_id, email, phone, address, attendees,
			total_minor, currency, breakdown, status, payment_status, payment_reference, refund_reference,
			created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		reg.ID, reg.EventID, reg.UserID, reg.Contact.Email, reg.Contact.Phone, reg.Contact.Address, attendees,
		reg.Total.MinorUnits(), string(reg.Total.Currency()), breakdown, reg.Status, reg.PaymentStatus,
		reg.PaymentReference, reg.RefundReference, reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

const updateRegistrationSQL = `UPDATE registrations
	SET email = $2, phone = $3, address = $4, attendees = $5, total_minor = $6, currency = $7,
	    breakdown = $8, status = $9, payment_status = $10, payment_reference = $11,
	    refund_reference = $12, updated_at = $13
	WHERE id = $1`

func updateRegistrationArgs(reg *model.Registration) ([]any, error) {
	attendees, err := encodeAttendees(reg.Attendees)
	if err != nil {
		return nil, fmt.Errorf("encode attendees: %w", err)
	}
	breakdown, err := encodeBreakdown(reg.Breakdown)
	if err != nil {
		return nil, fmt.Errorf("encode breakdown: %w", err)
	}
	return []any{
		reg.ID, reg.Contact.Email, reg.Contact.Phone, reg.Contact.Address, attendees,
		reg.Total.MinorUnits(), string(reg.Total.Currency()), breakdown, reg.Status, reg.PaymentStatus,
		reg.PaymentReference, reg.RefundReference, reg.UpdatedAt,
	}, nil
}

// RegistrationRepository handles persistence for registrations.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*model.Registration, error) {
	if !validID(id) {
		return nil, model.ErrNotFound
	}
	reg, err := scanRegistration(r.db.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

// GetByEvent returns all registrations for a given event in creation order.
func (r *RegistrationRepository) GetByEvent(ctx context.Context, eventID string) ([]*model.Registration, error) {
	if !validID(eventID) {
		return nil, nil
	}
	return listRegistrations(ctx, r.db, eventID)
}

func listRegistrations(ctx context.Context, q querier, eventID string) ([]*model.Registration, error) {
	rows, err := q.Query(ctx,
		`SELECT `+registrationColumns+`
		 FROM registrations
		 WHERE event_id = $1
		 ORDER BY created_at ASC, id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []*model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

var (
	_ ports.EventRepo        = (*EventRepository)(nil)
	_ ports.RegistrationRepo = (*RegistrationRepository)(nil)
	_ ports.Admissions       = (*Admissions)(nil)
)
