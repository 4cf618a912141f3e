package jwtx

import (
	"errors"
	"fmt"
	"time"
)

// TokenConfig configures a TokenIssuer.
type TokenConfig struct {
	AccessSecret  string // Required: signs access tokens
	RefreshSecret string // Required: signs refresh tokens, must differ from AccessSecret
	Issuer        string // Optional: iss claim, checked on verify when set

	AccessTTL  time.Duration // default DefaultAccessTokenTTL
	RefreshTTL time.Duration // default DefaultRefreshTokenTTL

	// Now is the clock used for both signing and verification.
	Now func() time.Time
}

// TokenIssuer mints and checks the two token classes. It holds no state
// beyond its keys, so there is nothing to revoke server side.
type TokenIssuer struct {
	accessSigner  *HS256Signer
	refreshSigner *HS256Signer

	accessVerifier  *HS256Verifier
	refreshVerifier *HS256Verifier

	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer validates cfg and builds the signers and verifiers.
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("jwtx: access and refresh secrets are required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("jwtx: access and refresh secrets must differ")
	}

	accessSigner, err := NewSignerHS256("access", []byte(cfg.AccessSecret))
	if err != nil {
		return nil, fmt.Errorf("access secret: %w", err)
	}
	refreshSigner, err := NewSignerHS256("refresh", []byte(cfg.RefreshSecret))
	if err != nil {
		return nil, fmt.Errorf("refresh secret: %w", err)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}

	accessVerifier := NewVerifierHS256([]byte(cfg.AccessSecret), cfg.Issuer, UseAccess)
	accessVerifier.Now = now
	refreshVerifier := NewVerifierHS256([]byte(cfg.RefreshSecret), cfg.Issuer, UseRefresh)
	refreshVerifier.Now = now

	return &TokenIssuer{
		accessSigner:    accessSigner,
		refreshSigner:   refreshSigner,
		accessVerifier:  accessVerifier,
		refreshVerifier: refreshVerifier,
		issuer:          cfg.Issuer,
		accessTTL:       accessTTL,
		refreshTTL:      refreshTTL,
		now:             now,
	}, nil
}

// IssueAccess signs an access token carrying the user's id, email and role.
func (t *TokenIssuer) IssueAccess(subject, email, role string) (string, error) {
	claims := NewAccessClaims(subject, email, role, t.issuer, t.accessTTL, t.now().UTC())
	return t.accessSigner.Sign(claims)
}

// IssueRefresh signs a refresh token carrying only the user's id.
func (t *TokenIssuer) IssueRefresh(subject string) (string, error) {
	claims := NewRefreshClaims(subject, t.issuer, t.refreshTTL, t.now().UTC())
	return t.refreshSigner.Sign(claims)
}

func (t *TokenIssuer) VerifyRefresh(token string) (Claims, error) {
	return t.refreshVerifier.Verify(token)
}

// AccessVerifier exposes access token verification as a plain Verifier for
// middleware.
func (t *TokenIssuer) AccessVerifier() Verifier { return t.accessVerifier }
