// Package timeutil provides the UTC clock helpers used for every expiry check.
// Instants are produced in UTC and rendered in the canonical zulu (RFC 3339) form.
package timeutil

import "time"

// ZuluFormat is the canonical textual form of an instant (e.g. 2023-04-01T12:30:45Z).
const ZuluFormat = time.RFC3339

// Now returns the current instant in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// Zulu renders t in the canonical UTC textual form.
func Zulu(t time.Time) string {
	return t.UTC().Format(ZuluFormat)
}

// ParseZulu parses a canonical UTC instant produced by Zulu.
func ParseZulu(s string) (time.Time, error) {
	t, err := time.Parse(ZuluFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Expired reports whether expiresAt lies strictly before now.
func Expired(expiresAt, now time.Time) bool {
	return now.After(expiresAt)
}

// Live reports whether expiresAt still lies in the future relative to now.
func Live(expiresAt, now time.Time) bool {
	return now.Before(expiresAt)
}
