package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the default lifetime for admin session tokens.
const DefaultSessionTTL = 24 * time.Hour

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrIssuer     = errors.New("jwtx: issuer mismatch")
	ErrExpired    = errors.New("jwtx: token expired")
)

// Claims are the session-token claims used across the service. Keep changes
// additive to preserve compatibility with already-issued tokens.
type Claims struct {
	jwt.RegisteredClaims

	// Permission Scopes, e.g. "admin:read admin:write"
	Scopes []string `json:"scopes,omitempty"`

	// Email for the authenticated admin
	Email string `json:"email,omitempty"`

	// Name is the display name for the admin
	Name string `json:"name,omitempty"`
}

// NewSessionClaims builds minimally-correct claims for an admin session.
func NewSessionClaims(
	subject string,
	scopes []string,
	ttl time.Duration,
	issuer string,
	email, name string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Scopes: scopes,
		Email:  email,
		Name:   name,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry checks the exp claim against the current time.
func (c *Claims) ValidateExpiry() error {
	if c.ExpiresAt == nil {
		return ErrMalformed
	}
	if time.Now().After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	return nil
}
