package repository

import (
	"context"
	"time"

	"github.com/leapwind/serverless-auth/internal/verification/domain"
)

// Repository defines persistence for verification requests.
//
// Reads return (nil, nil) when no row matches; an error means a store
// failure, never "not found".
type Repository interface {
	// GetLatestByUserID returns the user's most recently created request, or nil.
	GetLatestByUserID(ctx context.Context, userID string) (*domain.Request, error)
	GetByToken(ctx context.Context, token string) (*domain.Request, error)
	GetByPollID(ctx context.Context, pollID string) (*domain.Request, error)
	Create(ctx context.Context, req *domain.Request) error
	// Expire forces the request's expires_at to the given instant, superseding it.
	Expire(ctx context.Context, id string, at time.Time) error
	// MarkVerified sets is_verified and touches updated_at. The verified flag
	// is terminal; callers must check IsVerified before calling.
	MarkVerified(ctx context.Context, id string, at time.Time) error
}
