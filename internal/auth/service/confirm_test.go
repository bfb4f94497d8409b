package service

import (
	"context"
	"errors"
	"testing"
	"time"

	verifdomain "github.com/leapwind/serverless-auth/internal/verification/domain"
)

func TestConfirm_SignupHappyPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.svc.StartAuth(ctx, "a@b.com", verifdomain.ModeSignup)
	if err != nil {
		t.Fatalf("StartAuth: %v", err)
	}
	token := env.tokenFor(t, res.PollID)

	if err := env.svc.Confirm(ctx, "a@b.com", verifdomain.ModeSignup, token); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	req, _ := env.requests.GetByPollID(ctx, res.PollID)
	if !req.IsVerified {
		t.Error("request should be verified")
	}
	user, _ := env.users.GetByEmail(ctx, "a@b.com")
	if !user.EmailVerified {
		t.Error("signup confirmation must mark the user's email verified")
	}
	sess, err := env.sessions.GetByRequestID(ctx, req.ID)
	if err != nil || sess == nil {
		t.Fatal("a session should be issued with the confirmation")
	}
	if sess.UserID != user.ID {
		t.Errorf("session user = %q, want %q", sess.UserID, user.ID)
	}
	if sess.Token == "" {
		t.Error("session token should be set")
	}
	if !sess.ExpiresAt.After(env.clock.Now()) {
		t.Error("session should not start expired")
	}
}

func TestConfirm_SigninDoesNotTouchUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "u1", "a@b.com", true, true)

	res, err := env.svc.StartAuth(ctx, "a@b.com", verifdomain.ModeSignin)
	if err != nil {
		t.Fatalf("StartAuth: %v", err)
	}
	token := env.tokenFor(t, res.PollID)
	before := *env.users.byID["u1"]

	if err := env.svc.Confirm(ctx, "a@b.com", verifdomain.ModeSignin, token); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	after := *env.users.byID["u1"]
	if before.UpdatedAt != after.UpdatedAt || before.EmailVerified != after.EmailVerified {
		t.Error("signin confirmation must not mutate the user")
	}
}

func TestConfirm_SingleUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, _ := env.svc.StartAuth(ctx, "a@b.com", verifdomain.ModeSignup)
	token := env.tokenFor(t, res.PollID)

	if err := env.svc.Confirm(ctx, "a@b.com", verifdomain.ModeSignup, token); err != nil {
		t.Fatalf("first Confirm: %v", err)
	}
	err := env.svc.Confirm(ctx, "a@b.com", verifdomain.ModeSignup, token)
	if !errors.Is(err, ErrRequestAlreadyVerified) {
		t.Errorf("second Confirm error = %v, want ErrRequestAlreadyVerified", err)
	}
}

func TestConfirm_ModeMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, _ := env.svc.StartAuth(ctx, "a@b.com", verifdomain.ModeSignup)
	token := env.tokenFor(t, res.PollID)
	if err := env.svc.Confirm(ctx, "a@b.com", verifdomain.ModeSignin, token); !errors.Is(err, ErrModeMismatch) {
		t.Errorf("signup request confirmed as signin: error = %v, want ErrModeMismatch", err)
	}

	// And the other direction.
	env2 := newTestEnv(t)
	env2.addUser(t, "u1", "c@d.com", true, true)
	res2, _ := env2.svc.StartAuth(ctx, "c@d.com", verifdomain.ModeSignin)
	token2 := env2.tokenFor(t, res2.PollID)
	if err := env2.svc.Confirm(ctx, "c@d.com", verifdomain.ModeSignup, token2); !errors.Is(err, ErrModeMismatch) {
		t.Errorf("signin request confirmed as signup: error = %v, want ErrModeMismatch", err)
	}
}

func TestConfirm_CheckOrdering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, _ := env.svc.StartAuth(ctx, "a@b.com", verifdomain.ModeSignup)
	token := env.tokenFor(t, res.PollID)

	if err := env.svc.Confirm(ctx, "a@b.com", verifdomain.ModeSignup, "no-such-token"); !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("unknown token error = %v, want ErrRequestNotFound", err)
	}

	// Mode mismatch wins over expiry: advance past TTL, then confirm with the
	// wrong mode.
	env.clock.Advance(10 * time.Minute)
	if err := env.svc.Confirm(ctx, "a@b.com", verifdomain.ModeSignin, token); !errors.Is(err, ErrModeMismatch) {
		t.Errorf("error = %v, want ErrModeMismatch before expiry check", err)
	}
	// With the right mode, expiry is reported.
	if err := env.svc.Confirm(ctx, "a@b.com", verifdomain.ModeSignup, token); !errors.Is(err, ErrRequestExpired) {
		t.Errorf("error = %v, want ErrRequestExpired", err)
	}
}

func TestConfirm_EmailChecks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, _ := env.svc.StartAuth(ctx, "a@b.com", verifdomain.ModeSignup)
	token := env.tokenFor(t, res.PollID)

	if err := env.svc.Confirm(ctx, "other@b.com", verifdomain.ModeSignup, token); !errors.Is(err, ErrEmailMismatch) {
		t.Errorf("wrong email error = %v, want ErrEmailMismatch", err)
	}
	// Email comparison is case-insensitive via lowercasing.
	if err := env.svc.Confirm(ctx, "A@B.COM", verifdomain.ModeSignup, token); err != nil {
		t.Errorf("uppercased email should confirm the same user: %v", err)
	}
}

func TestConfirm_DisabledUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, _ := env.svc.StartAuth(ctx, "a@b.com", verifdomain.ModeSignup)
	token := env.tokenFor(t, res.PollID)
	env.users.byEmail["a@b.com"].IsEnabled = false

	if err := env.svc.Confirm(ctx, "a@b.com", verifdomain.ModeSignup, token); !errors.Is(err, ErrConfirmUserDisabled) {
		t.Errorf("disabled user error = %v, want ErrConfirmUserDisabled", err)
	}
}

func TestConfirm_ModeEligibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "u1", "a@b.com", true, true)

	// A signin request whose user loses email_verified cannot be confirmed.
	res, _ := env.svc.StartAuth(ctx, "a@b.com", verifdomain.ModeSignin)
	token := env.tokenFor(t, res.PollID)
	env.users.byEmail["a@b.com"].EmailVerified = false
	if err := env.svc.Confirm(ctx, "a@b.com", verifdomain.ModeSignin, token); !errors.Is(err, ErrEmailNotVerified) {
		t.Errorf("error = %v, want ErrEmailNotVerified", err)
	}

	// A signup request whose user became verified in the meantime is rejected.
	env.clock.Advance(time.Minute)
	res2, err := env.svc.StartAuth(ctx, "a@b.com", verifdomain.ModeSignup)
	if err != nil {
		t.Fatalf("StartAuth: %v", err)
	}
	token2 := env.tokenFor(t, res2.PollID)
	env.users.byEmail["a@b.com"].EmailVerified = true
	if err := env.svc.Confirm(ctx, "a@b.com", verifdomain.ModeSignup, token2); !errors.Is(err, ErrEmailAlreadyVerified) {
		t.Errorf("error = %v, want ErrEmailAlreadyVerified", err)
	}
}

func TestConfirm_StoreFailureMessage(t *testing.T) {
	env := newTestEnv(t)
	env.requests.fail = errors.New("timeout")

	err := env.svc.Confirm(context.Background(), "a@b.com", verifdomain.ModeSignup, "tok")
	if err == nil || err.Error() != "error occured while fetching verification request" {
		t.Errorf("error = %v, want generic fetch failure reason", err)
	}
}
