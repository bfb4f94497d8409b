package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/leapwind/serverless-auth/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = `id, user_id, request_id, token, expires_at, created_at, updated_at`

// GetByToken returns the session carrying the given bearer token, or nil if not found.
func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE token = $1`, token)
	return scanSession(row)
}

// GetByRequestID returns the session issued for the given verification request, or nil if not found.
func (r *PostgresRepository) GetByRequestID(ctx context.Context, requestID string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE request_id = $1`, requestID)
	return scanSession(row)
}

// Create persists the session. ID and Token must be set by the caller.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, request_id, token, expires_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.UserID, s.RequestID, s.Token, s.ExpiresAt, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// ExpireByToken forces expires_at (and updated_at) to the given instant and
// returns the updated session, or nil if no session carries the token.
func (r *PostgresRepository) ExpireByToken(ctx context.Context, token string, at time.Time) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE sessions SET expires_at = $2, updated_at = $2 WHERE token = $1
		 RETURNING `+sessionColumns, token, at)
	return scanSession(row)
}

func scanSession(row *sql.Row) (*domain.Session, error) {
	var s domain.Session
	err := row.Scan(&s.ID, &s.UserID, &s.RequestID, &s.Token, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
