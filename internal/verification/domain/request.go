package domain

import "time"

// Mode says whether a verification request represents a sign-in or a sign-up
// attempt. It is fixed at creation and must match at confirmation.
type Mode string

const (
	ModeSignin Mode = "signin"
	ModeSignup Mode = "signup"
)

// Valid reports whether m is one of the two accepted modes.
func (m Mode) Valid() bool {
	return m == ModeSignin || m == ModeSignup
}

// Request represents one pending/verified/expired email confirmation attempt.
//
// Token is the unguessable value embedded in confirmation links. PollID is a
// second unguessable value, deliberately distinct from Token, so the polling
// client can ask "is my request verified yet" without ever holding the value
// that proves authorization.
type Request struct {
	ID         string
	UserID     string
	Token      string
	PollID     string
	Mode       Mode
	ExpiresAt  time.Time
	IsVerified bool // set true exactly once, at confirmation; never reverted
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PollStatus is the verification status surfaced to the polling client.
type PollStatus string

const (
	PollStatusPending  PollStatus = "Pending"
	PollStatusExpired  PollStatus = "Expired"
	PollStatusVerified PollStatus = "Verified"
)

// DefaultRequestTTL is how long a verification request stays confirmable.
const DefaultRequestTTL = 5 * time.Minute
