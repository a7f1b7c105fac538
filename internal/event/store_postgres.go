package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

// PostgresStore persists events in PostgreSQL. Pure I/O; lifecycle rules
// live in the service.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, ev *Event) error {
	query := `
		INSERT INTO events (id, name, event_date, check_in_anchor_minutes, check_out_anchor_minutes,
			check_in_window_minutes, check_out_window_minutes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(ev.ID),
		ev.Name,
		ev.Date,
		int(ev.CheckInAnchor/time.Minute),
		int(ev.CheckOutAnchor/time.Minute),
		int(ev.CheckInWindow/time.Minute),
		int(ev.CheckOutWindow/time.Minute),
		ev.Status.String(),
		ev.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, eventID id.EventID) (*Event, error) {
	query := `
		SELECT id, name, event_date, check_in_anchor_minutes, check_out_anchor_minutes,
			check_in_window_minutes, check_out_window_minutes, status, created_at
		FROM events
		WHERE id = $1
	`
	ev, err := scanEvent(s.db.QueryRowContext(ctx, query, uuid.UUID(eventID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return ev, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Event, error) {
	query := `
		SELECT id, name, event_date, check_in_anchor_minutes, check_out_anchor_minutes,
			check_in_window_minutes, check_out_window_minutes, status, created_at
		FROM events
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []*Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SetStatus(ctx context.Context, eventID id.EventID, status id.EventStatus) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE events SET status = $2 WHERE id = $1`,
		uuid.UUID(eventID), status.String(),
	)
	if err != nil {
		return fmt.Errorf("set event status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set event status rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, eventID id.EventID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, uuid.UUID(eventID))
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*Event, error) {
	var (
		ev            Event
		rawID         uuid.UUID
		inAnchorMin   int
		outAnchorMin  int
		inWindowMin   int
		outWindowMin  int
		rawStatus     string
	)
	err := row.Scan(&rawID, &ev.Name, &ev.Date, &inAnchorMin, &outAnchorMin,
		&inWindowMin, &outWindowMin, &rawStatus, &ev.CreatedAt)
	if err != nil {
		return nil, err
	}
	ev.ID = id.EventID(rawID)
	ev.Date = ev.Date.UTC()
	ev.CheckInAnchor = time.Duration(inAnchorMin) * time.Minute
	ev.CheckOutAnchor = time.Duration(outAnchorMin) * time.Minute
	ev.CheckInWindow = time.Duration(inWindowMin) * time.Minute
	ev.CheckOutWindow = time.Duration(outWindowMin) * time.Minute
	status, err := id.ParseEventStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	ev.Status = status
	return &ev, nil
}
