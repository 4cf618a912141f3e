package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultAccessTokenTTL is how long an access token is good for.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is how long a refresh token can mint new access
	// tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenUse tells access and refresh tokens apart. They are signed with
// different secrets already, the claim stops a leaked secret from letting one
// class stand in for the other.
type TokenUse string

const (
	UseAccess  TokenUse = "access"
	UseRefresh TokenUse = "refresh"
)

// Claims carried by both token classes. Refresh tokens only fill in the
// registered claims and Use.
type Claims struct {
	jwt.RegisteredClaims

	Use TokenUse `json:"token_use"`

	// Email and Role are snapshots taken at issue time. Anything that needs
	// the current values reads them from the user store instead.
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// NewAccessClaims builds claims for a short lived access token.
func NewAccessClaims(subject, email, role, issuer string, ttl time.Duration, now time.Time) Claims {
	c := newClaims(UseAccess, subject, issuer, ttl, now)
	c.Email = email
	c.Role = role
	return c
}

// NewRefreshClaims builds claims for a refresh token. Only the subject goes in.
func NewRefreshClaims(subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return newClaims(UseRefresh, subject, issuer, ttl, now)
}

func newClaims(use TokenUse, subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Use: use,
	}
}

// NewJTI returns a URL safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer when one is expected.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateUse checks the token class.
func (c *Claims) ValidateUse(expected TokenUse) error {
	if c.Use != expected {
		return ErrWrongUse
	}
	return nil
}
