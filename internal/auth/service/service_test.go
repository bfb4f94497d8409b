package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/leapwind/serverless-auth/internal/mailer"
	"github.com/leapwind/serverless-auth/internal/security"
	sessiondomain "github.com/leapwind/serverless-auth/internal/session/domain"
	userdomain "github.com/leapwind/serverless-auth/internal/user/domain"
	verifdomain "github.com/leapwind/serverless-auth/internal/verification/domain"
)

type memUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*userdomain.User
	byEmail map[string]*userdomain.User
	fail    error // when set, every call fails with it
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*userdomain.User{}, byEmail: map[string]*userdomain.User{}}
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	return r.byID[id], nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	return r.byEmail[email], nil
}

func (r *memUserRepo) Create(ctx context.Context, u *userdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	u2 := *u
	r.byID[u.ID] = &u2
	r.byEmail[u.Email] = &u2
	return nil
}

func (r *memUserRepo) SetEmailVerified(ctx context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	if u, ok := r.byID[userID]; ok {
		u.EmailVerified = true
		u.UpdatedAt = at
	}
	return nil
}

type memRequestRepo struct {
	mu   sync.Mutex
	reqs []*verifdomain.Request
	fail error
}

func newMemRequestRepo() *memRequestRepo { return &memRequestRepo{} }

func (r *memRequestRepo) GetLatestByUserID(ctx context.Context, userID string) (*verifdomain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	var latest *verifdomain.Request
	for _, req := range r.reqs {
		if req.UserID != userID {
			continue
		}
		if latest == nil || !req.CreatedAt.Before(latest.CreatedAt) {
			latest = req
		}
	}
	return latest, nil
}

func (r *memRequestRepo) GetByToken(ctx context.Context, token string) (*verifdomain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	for _, req := range r.reqs {
		if req.Token == token {
			return req, nil
		}
	}
	return nil, nil
}

func (r *memRequestRepo) GetByPollID(ctx context.Context, pollID string) (*verifdomain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	for _, req := range r.reqs {
		if req.PollID == pollID {
			return req, nil
		}
	}
	return nil, nil
}

func (r *memRequestRepo) Create(ctx context.Context, req *verifdomain.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	req2 := *req
	r.reqs = append(r.reqs, &req2)
	return nil
}

func (r *memRequestRepo) Expire(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	for _, req := range r.reqs {
		if req.ID == id {
			req.ExpiresAt = at
			req.UpdatedAt = at
		}
	}
	return nil
}

func (r *memRequestRepo) MarkVerified(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	for _, req := range r.reqs {
		if req.ID == id {
			req.IsVerified = true
			req.UpdatedAt = at
		}
	}
	return nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions []*sessiondomain.Session
	fail     error
}

func newMemSessionRepo() *memSessionRepo { return &memSessionRepo{} }

func (r *memSessionRepo) GetByToken(ctx context.Context, token string) (*sessiondomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	for _, s := range r.sessions {
		if s.Token == token {
			return s, nil
		}
	}
	return nil, nil
}

func (r *memSessionRepo) GetByRequestID(ctx context.Context, requestID string) (*sessiondomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	for _, s := range r.sessions {
		if s.RequestID == requestID {
			return s, nil
		}
	}
	return nil, nil
}

func (r *memSessionRepo) Create(ctx context.Context, s *sessiondomain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	s2 := *s
	r.sessions = append(r.sessions, &s2)
	return nil
}

func (r *memSessionRepo) ExpireByToken(ctx context.Context, token string, at time.Time) (*sessiondomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	for _, s := range r.sessions {
		if s.Token == token {
			s.ExpiresAt = at
			s.UpdatedAt = at
			return s, nil
		}
	}
	return nil, nil
}

// fakeClock lets tests move wall-clock time.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	svc      *AuthService
	users    *memUserRepo
	requests *memRequestRepo
	sessions *memSessionRepo
	mail     *mailer.Mock
	clock    *fakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	signer, err := security.NewTestTokenSigner()
	if err != nil {
		t.Fatalf("NewTestTokenSigner: %v", err)
	}
	env := &testEnv{
		users:    newMemUserRepo(),
		requests: newMemRequestRepo(),
		sessions: newMemSessionRepo(),
		mail:     &mailer.Mock{},
		// Anchored at wall-clock time because session expiry comes from
		// the token signer, which stamps real time.
		clock: &fakeClock{t: time.Now().UTC()},
	}
	env.svc = NewAuthService(env.users, env.requests, env.sessions, signer, env.mail, nil,
		"http://localhost:8080", "demoauth", 5*time.Minute)
	env.svc.now = env.clock.Now
	return env
}

// addUser inserts a user directly into the fake store.
func (e *testEnv) addUser(t *testing.T, id, email string, enabled, verified bool) *userdomain.User {
	t.Helper()
	u := &userdomain.User{ID: id, Email: email, IsEnabled: enabled, EmailVerified: verified,
		CreatedAt: e.clock.Now(), UpdatedAt: e.clock.Now()}
	if err := e.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// tokenFor returns the confirmation token of the user's latest request.
func (e *testEnv) tokenFor(t *testing.T, pollID string) string {
	t.Helper()
	req, err := e.requests.GetByPollID(context.Background(), pollID)
	if err != nil || req == nil {
		t.Fatalf("request for poll id %q not found", pollID)
	}
	return req.Token
}
