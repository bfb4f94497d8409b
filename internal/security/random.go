package security

import (
	"crypto/rand"
	"encoding/hex"
)

const opaqueTokenBytes = 32

// NewOpaqueToken returns an unguessable random identifier, hex-encoded.
// Used for verification tokens and poll ids; the two are always generated
// independently so neither can be derived from the other.
func NewOpaqueToken() (string, error) {
	b := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
