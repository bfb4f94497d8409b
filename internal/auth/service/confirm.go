package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	sessiondomain "github.com/leapwind/serverless-auth/internal/session/domain"
	"github.com/leapwind/serverless-auth/internal/timeutil"
	userdomain "github.com/leapwind/serverless-auth/internal/user/domain"
	verifdomain "github.com/leapwind/serverless-auth/internal/verification/domain"
)

// confirmState is the request context the confirmation checks run against.
type confirmState struct {
	req   *verifdomain.Request
	user  *userdomain.User
	email string // lowercased caller-supplied email
	mode  verifdomain.Mode
	now   time.Time
}

// confirmChecks is the ordered validation chain for Confirm. The first
// failing check wins; everything after it is short-circuited. Ordering is
// part of the contract (e.g. expiry is reported before "already verified").
var confirmChecks = []func(*confirmState) error{
	checkConfirmMode,
	checkConfirmNotExpired,
	checkConfirmNotVerified,
	checkConfirmEmail,
	checkConfirmUserEnabled,
	checkConfirmModeEligibility,
}

func checkConfirmMode(st *confirmState) error {
	if st.mode != st.req.Mode {
		return ErrModeMismatch
	}
	return nil
}

func checkConfirmNotExpired(st *confirmState) error {
	if timeutil.Expired(st.req.ExpiresAt, st.now) {
		return ErrRequestExpired
	}
	return nil
}

func checkConfirmNotVerified(st *confirmState) error {
	if st.req.IsVerified {
		return ErrRequestAlreadyVerified
	}
	return nil
}

func checkConfirmEmail(st *confirmState) error {
	if st.email != st.user.Email {
		return ErrEmailMismatch
	}
	return nil
}

func checkConfirmUserEnabled(st *confirmState) error {
	if !st.user.IsEnabled {
		return ErrConfirmUserDisabled
	}
	return nil
}

func checkConfirmModeEligibility(st *confirmState) error {
	switch st.mode {
	case verifdomain.ModeSignin:
		if !st.user.EmailVerified {
			return ErrEmailNotVerified
		}
	case verifdomain.ModeSignup:
		if st.user.EmailVerified {
			return ErrEmailAlreadyVerified
		}
	}
	return nil
}

// Confirm validates the emailed token and transitions its request to
// verified, exactly once. On success it marks the user's email verified (for
// signup), signs a session token, and persists the session. The token itself
// is never returned: the browser that clicked the link may not be the device
// that needs the session.
//
// Two near-simultaneous Confirm calls on the same token can both pass the
// not-yet-verified check before either writes; there is no store-level
// compare-and-swap. Accepted race, see DESIGN.md.
func (s *AuthService) Confirm(ctx context.Context, email string, mode verifdomain.Mode, token string) error {
	req, err := s.requests.GetByToken(ctx, token)
	if err != nil {
		return failf("error occured while fetching verification request", err)
	}
	if req == nil {
		return ErrRequestNotFound
	}
	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return failf("error occured while fetching verification request", err)
	}
	if user == nil {
		return failf("error occured while fetching verification request", errors.New("request owner missing"))
	}

	st := &confirmState{
		req:   req,
		user:  user,
		email: strings.ToLower(email),
		mode:  mode,
		now:   s.now(),
	}
	for _, check := range confirmChecks {
		if err := check(st); err != nil {
			return err
		}
	}

	if err := s.requests.MarkVerified(ctx, req.ID, st.now); err != nil {
		return failf("error occured while updating verification request", err)
	}
	if mode == verifdomain.ModeSignup {
		if err := s.users.SetEmailVerified(ctx, user.ID, s.now()); err != nil {
			return failf("error occured while updating user", err)
		}
		user.EmailVerified = true
	}

	signed, expiresAt, err := s.signer.Sign(email, user)
	if err != nil {
		return failf("error occured while signing session token", err)
	}
	now := s.now()
	sess := &sessiondomain.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		RequestID: req.ID,
		Token:     signed,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return failf("error occured while inserting session", err)
	}

	s.emit(user.ID, req.ID, "auth_confirmed", string(mode))
	return nil
}
