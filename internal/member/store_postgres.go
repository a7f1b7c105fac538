package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

// PostgresStore persists members in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, m *Member) error {
	var token *string
	if m.IdentityToken != nil {
		t := m.IdentityToken.String()
		token = &t
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO members (id, full_name, identity_token, created_at) VALUES ($1, $2, $3, $4)`,
		uuid.UUID(m.ID), m.FullName, token, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, memberID id.MemberID) (*Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, full_name, identity_token, created_at FROM members WHERE id = $1`,
		uuid.UUID(memberID),
	)
	return scanMember(row)
}

func (s *PostgresStore) FindByToken(ctx context.Context, token id.IdentityToken) (*Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, full_name, identity_token, created_at FROM members WHERE identity_token = $1`,
		token.String(),
	)
	return scanMember(row)
}

func (s *PostgresStore) BindToken(ctx context.Context, memberID id.MemberID, token id.IdentityToken) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE members SET identity_token = $2 WHERE id = $1`,
		uuid.UUID(memberID), token.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("bind identity token: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("bind identity token rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanMember(row *sql.Row) (*Member, error) {
	var (
		m     Member
		rawID uuid.UUID
		token sql.NullString
	)
	if err := row.Scan(&rawID, &m.FullName, &token, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan member: %w", err)
	}
	m.ID = id.MemberID(rawID)
	if token.Valid {
		t := id.IdentityToken(token.String)
		m.IdentityToken = &t
	}
	return &m, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation"
}
