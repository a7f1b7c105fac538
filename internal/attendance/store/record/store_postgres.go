package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rollcall/internal/attendance/models"
	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

// PostgresStore persists attendance records. Pure I/O: reconciliation rules
// live in the engine; this store only guarantees the atomicity of the two
// conditional writes.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateIfAbsent is a single conditional insert keyed on (event_id,
// member_id). Two concurrent calls for the same pair cannot both succeed:
// the unique constraint serializes them and the loser sees ErrConflict.
func (s *PostgresStore) CreateIfAbsent(ctx context.Context, rec *models.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_records (id, event_id, member_id, check_in_at, check_out_at, status, media_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (event_id, member_id) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query,
		uuid.UUID(rec.ID),
		uuid.UUID(rec.EventID),
		uuid.UUID(rec.MemberID),
		rec.CheckInAt,
		rec.CheckOutAt,
		rec.Status.String(),
		nullIfEmpty(rec.MediaRef),
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create attendance record: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create attendance record rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

// SetCheckOutIfUnset is a single conditional update with the precondition
// in the WHERE clause; the status recomputation rides in the same
// statement so there is no read-then-write window.
func (s *PostgresStore) SetCheckOutIfUnset(ctx context.Context, eventID id.EventID, memberID id.MemberID, at time.Time) (*models.AttendanceRecord, error) {
	query := `
		UPDATE attendance_records
		SET check_out_at = $3,
		    status = CASE WHEN check_in_at IS NULL THEN 'late' ELSE 'present' END
		WHERE event_id = $1 AND member_id = $2 AND check_out_at IS NULL
		RETURNING id, event_id, member_id, check_in_at, check_out_at, status, media_ref, created_at
	`
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, uuid.UUID(eventID), uuid.UUID(memberID), at))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrPreconditionFailed
		}
		return nil, fmt.Errorf("set check-out: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Find(ctx context.Context, eventID id.EventID, memberID id.MemberID) (*models.AttendanceRecord, error) {
	query := `
		SELECT id, event_id, member_id, check_in_at, check_out_at, status, media_ref, created_at
		FROM attendance_records
		WHERE event_id = $1 AND member_id = $2
	`
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, uuid.UUID(eventID), uuid.UUID(memberID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find attendance record: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListByEvent(ctx context.Context, eventID id.EventID) ([]*models.AttendanceRecord, error) {
	query := `
		SELECT id, event_id, member_id, check_in_at, check_out_at, status, media_ref, created_at
		FROM attendance_records
		WHERE event_id = $1
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(eventID))
	if err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	defer rows.Close()

	var out []*models.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteByEvent(ctx context.Context, eventID id.EventID) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM attendance_records WHERE event_id = $1`, uuid.UUID(eventID))
	if err != nil {
		return 0, fmt.Errorf("delete attendance records: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete attendance records rows affected: %w", err)
	}
	return int(rows), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.AttendanceRecord, error) {
	var (
		rec       models.AttendanceRecord
		rawID     uuid.UUID
		rawEvent  uuid.UUID
		rawMember uuid.UUID
		checkIn   sql.NullTime
		checkOut  sql.NullTime
		rawStatus string
		mediaRef  sql.NullString
	)
	err := row.Scan(&rawID, &rawEvent, &rawMember, &checkIn, &checkOut, &rawStatus, &mediaRef, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	rec.ID = id.RecordID(rawID)
	rec.EventID = id.EventID(rawEvent)
	rec.MemberID = id.MemberID(rawMember)
	if checkIn.Valid {
		t := checkIn.Time.UTC()
		rec.CheckInAt = &t
	}
	if checkOut.Valid {
		t := checkOut.Time.UTC()
		rec.CheckOutAt = &t
	}
	status, err := id.ParseRecordStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	rec.Status = status
	if mediaRef.Valid {
		rec.MediaRef = mediaRef.String
	}
	return &rec, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
