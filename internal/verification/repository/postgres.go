package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/leapwind/serverless-auth/internal/verification/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a verification request repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const requestColumns = `id, user_id, token, poll_id, mode, expires_at, is_verified, created_at, updated_at`

// GetLatestByUserID returns the user's most recently created request, or nil if the user has none.
func (r *PostgresRepository) GetLatestByUserID(ctx context.Context, userID string) (*domain.Request, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM verification_requests
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`, userID)
	return scanRequest(row)
}

// GetByToken returns the request carrying the given confirmation token, or nil if not found.
func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*domain.Request, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM verification_requests WHERE token = $1`, token)
	return scanRequest(row)
}

// GetByPollID returns the request carrying the given poll id, or nil if not found.
func (r *PostgresRepository) GetByPollID(ctx context.Context, pollID string) (*domain.Request, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM verification_requests WHERE poll_id = $1`, pollID)
	return scanRequest(row)
}

// Create persists the request. ID, Token, and PollID must be set by the caller.
func (r *PostgresRepository) Create(ctx context.Context, req *domain.Request) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO verification_requests (id, user_id, token, poll_id, mode, expires_at, is_verified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		req.ID, req.UserID, req.Token, req.PollID, string(req.Mode),
		req.ExpiresAt, req.IsVerified, req.CreatedAt, req.UpdatedAt,
	)
	return err
}

// Expire forces expires_at (and updated_at) to the given instant.
func (r *PostgresRepository) Expire(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE verification_requests SET expires_at = $2, updated_at = $2 WHERE id = $1`,
		id, at,
	)
	return err
}

// MarkVerified sets is_verified = TRUE and touches updated_at.
func (r *PostgresRepository) MarkVerified(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE verification_requests SET is_verified = TRUE, updated_at = $2 WHERE id = $1`,
		id, at,
	)
	return err
}

func scanRequest(row *sql.Row) (*domain.Request, error) {
	var req domain.Request
	var mode string
	err := row.Scan(&req.ID, &req.UserID, &req.Token, &req.PollID, &mode,
		&req.ExpiresAt, &req.IsVerified, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	req.Mode = domain.Mode(mode)
	return &req, nil
}
