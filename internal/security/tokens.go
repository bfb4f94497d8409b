package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/leapwind/serverless-auth/internal/user/domain"
)

// ErrInvalidKey is returned when PEM content or the key type is invalid.
var ErrInvalidKey = errors.New("invalid key")

// SessionClaims holds the JWT claims carried by a session bearer token.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// TokenSigner issues session bearer tokens signed with RS256 or ES256,
// depending on the configured private key. The rest of the service treats the
// signed token as an opaque string; sessions are resolved by store lookup,
// not by parsing the token.
type TokenSigner struct {
	privateKey crypto.Signer
	issuer     string
	audience   string
	sessionTTL time.Duration
}

// NewTokenSigner returns a TokenSigner that signs with the given private key.
// issuer and audience are set on claims; sessionTTL fixes token expiry.
func NewTokenSigner(privateKey crypto.Signer, issuer, audience string, sessionTTL time.Duration) *TokenSigner {
	return &TokenSigner{
		privateKey: privateKey,
		issuer:     issuer,
		audience:   audience,
		sessionTTL: sessionTTL,
	}
}

// Sign issues a session token for the given user. email is the address the
// client supplied (before lowercasing), kept as a claim the way the original
// confirmation flow recorded it. Returns the signed token and its expiry.
func (s *TokenSigner) Sign(email string, u *domain.User) (token string, expiresAt time.Time, err error) {
	now := time.Now().UTC()
	expiresAt = now.Add(s.sessionTTL)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email:         email,
		EmailVerified: u.EmailVerified,
	}

	var method jwt.SigningMethod
	switch s.privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return "", time.Time{}, ErrInvalidKey
	}
	token, err = jwt.NewWithClaims(method, claims).SignedString(s.privateKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}
