package jwtx

import (
	"errors"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrWrongUse     = errors.New("jwtx: wrong token use")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// IsInvalid reports whether err means the token itself is bad (garbled, or
// not signed by us) as opposed to expired or carrying bad claims.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrMalformed) ||
		errors.Is(err, ErrInvalidSig) ||
		errors.Is(err, ErrAlgMismatch)
}
