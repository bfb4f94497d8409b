package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/leapwind/serverless-auth/internal/security"
	"github.com/leapwind/serverless-auth/internal/timeutil"
	userdomain "github.com/leapwind/serverless-auth/internal/user/domain"
	verifdomain "github.com/leapwind/serverless-auth/internal/verification/domain"
)

// StartResult is the outcome of StartAuth. It deliberately carries only the
// poll id and the echoed email: neither the confirmation token nor the
// request id ever reaches the caller that started the flow.
type StartResult struct {
	PollID string
	Email  string
}

// StartAuth begins a sign-in or sign-up flow for email. It resolves (or, for
// signup, creates) the user, supersedes any still-live prior request, persists
// a fresh verification request, and mails the confirmation link. email is the
// caller-supplied address; it is lowercased for every lookup and write but
// echoed back (and mailed) as given.
func (s *AuthService) StartAuth(ctx context.Context, email string, mode verifdomain.Mode) (*StartResult, error) {
	emailLowered := strings.ToLower(email)
	now := s.now()

	user, err := s.users.GetByEmail(ctx, emailLowered)
	if err != nil {
		return nil, failf("error occured while fetching user data", err)
	}

	switch mode {
	case verifdomain.ModeSignin:
		if user == nil {
			return nil, ErrUserNotFound
		}
		if !user.IsEnabled {
			return nil, ErrUserDisabled
		}
		if !user.EmailVerified {
			return nil, ErrSignupIncomplete
		}
	case verifdomain.ModeSignup:
		if user == nil {
			user = &userdomain.User{
				ID:        uuid.New().String(),
				Email:     emailLowered,
				IsEnabled: true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.users.Create(ctx, user); err != nil {
				return nil, failf("error occured while inserting user data", err)
			}
		} else {
			if !user.IsEnabled {
				return nil, ErrUserDisabled
			}
			if user.EmailVerified {
				return nil, ErrAlreadySignedUp
			}
		}
	}

	if err := s.supersedePriorRequest(ctx, user.ID); err != nil {
		return nil, err
	}

	token, err := security.NewOpaqueToken()
	if err != nil {
		return nil, failf("error occured while inserting verification request", err)
	}
	pollID, err := security.NewOpaqueToken()
	if err != nil {
		return nil, failf("error occured while inserting verification request", err)
	}

	req := &verifdomain.Request{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     token,
		PollID:    pollID,
		Mode:      mode,
		ExpiresAt: now.Add(s.requestTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, failf("error occured while inserting verification request", err)
	}

	confirmationURL := fmt.Sprintf("%s/api/v1/confirm?email=%s&mode=%s&token=%s",
		s.serverSite, url.QueryEscape(email), mode, token)
	// The request stays persisted on delivery failure; no rollback.
	if err := s.mail.Send(ctx, email, mode, confirmationURL, s.projectTag); err != nil {
		return nil, failf("Error Occured while sending email", err)
	}

	s.emit(user.ID, req.ID, "auth_started", string(mode))
	return &StartResult{PollID: pollID, Email: email}, nil
}

// supersedePriorRequest force-expires the user's most recent verification
// request if it is still live, guaranteeing at most one confirmable request
// per user at any instant.
func (s *AuthService) supersedePriorRequest(ctx context.Context, userID string) error {
	prior, err := s.requests.GetLatestByUserID(ctx, userID)
	if err != nil {
		return failf("error occured while fetching previous request data", err)
	}
	if prior == nil {
		return nil
	}
	now := s.now()
	if !timeutil.Live(prior.ExpiresAt, now) {
		return nil
	}
	if err := s.requests.Expire(ctx, prior.ID, now); err != nil {
		return failf("error occured while expiring previous verification request", err)
	}
	return nil
}
