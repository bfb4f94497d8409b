package service

import (
	"context"

	"github.com/leapwind/serverless-auth/internal/timeutil"
	verifdomain "github.com/leapwind/serverless-auth/internal/verification/domain"
)

// PollResult is the outcome of Poll. Token is non-empty only when Status is
// Verified; the handler renders it as JSON null otherwise.
type PollResult struct {
	Status verifdomain.PollStatus
	Token  string
}

// Poll resolves a poll id to the verification status of its request and, once
// verified, to the non-expired session token. Pure read: safe to call
// arbitrarily many times, no state transition.
func (s *AuthService) Poll(ctx context.Context, pollID string) (*PollResult, error) {
	req, err := s.requests.GetByPollID(ctx, pollID)
	if err != nil {
		return nil, failf("Error occured while fetching verifiction request", err)
	}
	if req == nil {
		return nil, ErrPollRequestNotFound
	}

	now := s.now()
	if timeutil.Expired(req.ExpiresAt, now) {
		return &PollResult{Status: verifdomain.PollStatusExpired}, nil
	}
	if !req.IsVerified {
		return &PollResult{Status: verifdomain.PollStatusPending}, nil
	}

	sess, err := s.sessions.GetByRequestID(ctx, req.ID)
	if err != nil {
		return nil, failf("Error occured while fetching session", err)
	}
	if sess == nil {
		// Confirm always issues a session with verification; a verified
		// request without one is an inconsistency, not a pending state.
		return nil, ErrSessionNotFound
	}
	if timeutil.Expired(sess.ExpiresAt, now) {
		return nil, ErrSessionExpired
	}
	return &PollResult{Status: verifdomain.PollStatusVerified, Token: sess.Token}, nil
}
