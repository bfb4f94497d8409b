package domain

import "time"

// Session is the durable record backing an issued bearer token. Its expiry is
// independent from the verification request that created it. Signout forces
// ExpiresAt into the past; sessions are never hard-deleted.
type Session struct {
	ID        string
	UserID    string
	RequestID string // the verification request that produced this session (1:1)
	Token     string // signed bearer credential, opaque to this service
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultSessionTTL is how long an issued session token stays valid.
const DefaultSessionTTL = 24 * time.Hour
