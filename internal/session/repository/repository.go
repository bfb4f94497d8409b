package repository

import (
	"context"
	"time"

	"github.com/leapwind/serverless-auth/internal/session/domain"
)

// Repository defines persistence for sessions.
//
// Reads return (nil, nil) when no row matches; an error means a store
// failure, never "not found".
type Repository interface {
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	GetByRequestID(ctx context.Context, requestID string) (*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	// ExpireByToken forces the session's expires_at to the given instant
	// (signout). Returns the updated session, or nil if no session carries the token.
	ExpireByToken(ctx context.Context, token string, at time.Time) (*domain.Session, error)
}
