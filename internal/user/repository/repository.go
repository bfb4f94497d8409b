package repository

import (
	"context"
	"time"

	"github.com/leapwind/serverless-auth/internal/user/domain"
)

// Repository defines persistence for users.
//
// Reads return (nil, nil) when no row matches: "found but absent" is a valid
// outcome distinct from a store failure and must never collapse into the
// error return.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// SetEmailVerified marks the user's email ownership as proven. No-op if the user does not exist.
	SetEmailVerified(ctx context.Context, userID string, at time.Time) error
}
