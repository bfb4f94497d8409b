package service

import (
	"context"

	"github.com/leapwind/serverless-auth/internal/timeutil"
)

// Signout invalidates the session carrying the bearer token by forcing its
// expiry to now. The session row is kept; nothing is hard-deleted.
func (s *AuthService) Signout(ctx context.Context, token string) error {
	sess, err := s.sessions.ExpireByToken(ctx, token, s.now())
	if err != nil {
		return failf("error occured while fetching session", err)
	}
	if sess == nil {
		return ErrSessionNotFound
	}
	s.emit(sess.UserID, sess.RequestID, "signout", "")
	return nil
}

// Status reports whether the bearer token maps to a live session. A missing
// or expired session is a false status, not an error.
func (s *AuthService) Status(ctx context.Context, token string) (bool, error) {
	sess, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return false, failf("error occured while fetching session", err)
	}
	if sess == nil {
		return false, nil
	}
	if timeutil.Expired(sess.ExpiresAt, s.now()) {
		return false, nil
	}
	return true, nil
}
