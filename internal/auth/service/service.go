// Package service implements the verification/session state machine: request
// creation and supersession, single-use confirmation, and poll resolution.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/leapwind/serverless-auth/internal/mailer"
	"github.com/leapwind/serverless-auth/internal/security"
	sessiondomain "github.com/leapwind/serverless-auth/internal/session/domain"
	"github.com/leapwind/serverless-auth/internal/telemetry"
	userdomain "github.com/leapwind/serverless-auth/internal/user/domain"
	verifdomain "github.com/leapwind/serverless-auth/internal/verification/domain"
)

// Sentinel errors for domain-state failures. The handler writes the error
// text verbatim into the response envelope, so these strings are part of the
// wire contract and must not change.
var (
	ErrUserNotFound     = errors.New("user not found, send request for signup first")
	ErrUserDisabled     = errors.New("user is disabled for suspicious actions")
	ErrSignupIncomplete = errors.New("user cant signin, complete signup verification first")
	ErrAlreadySignedUp  = errors.New("user is already signedup, signin to get access")

	ErrRequestNotFound        = errors.New("request not found")
	ErrModeMismatch           = errors.New("request mode is not similar")
	ErrRequestExpired         = errors.New("request is expired")
	ErrRequestAlreadyVerified = errors.New("request is already verified")
	ErrEmailMismatch          = errors.New("email not same")
	ErrConfirmUserDisabled    = errors.New("user is disabled")
	ErrEmailNotVerified       = errors.New("email not verified")
	ErrEmailAlreadyVerified   = errors.New("email is already verified")

	ErrPollRequestNotFound = errors.New("verification request not found")
	ErrSessionNotFound     = errors.New("no session found")
	ErrSessionExpired      = errors.New("session expired")
)

// failure wraps a collaborator error behind a generic user-facing reason.
// Error() is the reason only; the cause is reachable via Unwrap for
// server-side logging but is never written to the client.
type failure struct {
	reason string
	cause  error
}

func (f *failure) Error() string { return f.reason }
func (f *failure) Unwrap() error { return f.cause }

func failf(reason string, cause error) error {
	return &failure{reason: reason, cause: cause}
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
	SetEmailVerified(ctx context.Context, userID string, at time.Time) error
}

// RequestRepo is the minimal verification request repository needed by the auth service.
type RequestRepo interface {
	GetLatestByUserID(ctx context.Context, userID string) (*verifdomain.Request, error)
	GetByToken(ctx context.Context, token string) (*verifdomain.Request, error)
	GetByPollID(ctx context.Context, pollID string) (*verifdomain.Request, error)
	Create(ctx context.Context, req *verifdomain.Request) error
	Expire(ctx context.Context, id string, at time.Time) error
	MarkVerified(ctx context.Context, id string, at time.Time) error
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	GetByToken(ctx context.Context, token string) (*sessiondomain.Session, error)
	GetByRequestID(ctx context.Context, requestID string) (*sessiondomain.Session, error)
	Create(ctx context.Context, s *sessiondomain.Session) error
	ExpireByToken(ctx context.Context, token string, at time.Time) (*sessiondomain.Session, error)
}

// AuthService orchestrates the verification request lifecycle, confirmation,
// and poll resolution. All durable state lives in the repositories; each
// operation is an independent, stateless unit.
type AuthService struct {
	users      UserRepo
	requests   RequestRepo
	sessions   SessionRepo
	signer     *security.TokenSigner
	mail       mailer.Mailer
	emitter    telemetry.EventEmitter
	serverSite string
	projectTag string
	requestTTL time.Duration
	now        func() time.Time
}

// NewAuthService returns an AuthService with the given dependencies.
// serverSite is the public base URL for confirmation links; requestTTL is how
// long a new verification request stays confirmable. emitter may be nil.
func NewAuthService(
	users UserRepo,
	requests RequestRepo,
	sessions SessionRepo,
	signer *security.TokenSigner,
	mail mailer.Mailer,
	emitter telemetry.EventEmitter,
	serverSite, projectTag string,
	requestTTL time.Duration,
) *AuthService {
	if requestTTL <= 0 {
		requestTTL = verifdomain.DefaultRequestTTL
	}
	return &AuthService{
		users:      users,
		requests:   requests,
		sessions:   sessions,
		signer:     signer,
		mail:       mail,
		emitter:    emitter,
		serverSite: serverSite,
		projectTag: projectTag,
		requestTTL: requestTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) emit(userID, requestID, eventType, mode string) {
	if s.emitter == nil {
		return
	}
	telemetry.EmitAsync(s.emitter, &telemetry.Event{
		UserID:    userID,
		RequestID: requestID,
		EventType: eventType,
		Mode:      mode,
		Source:    "auth_service",
		CreatedAt: s.now(),
	})
}
