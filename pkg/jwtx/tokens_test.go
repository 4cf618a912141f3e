package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	accessSecret  = "access-secret-0123456789abcdefghijklmnop"
	refreshSecret = "refresh-secret-0123456789abcdefghijklmno"
)

// testClock is a settable clock shared by signer and verifier.
type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newIssuer(t *testing.T) (*jwtx.TokenIssuer, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	issuer, err := jwtx.NewTokenIssuer(jwtx.TokenConfig{
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
		Issuer:        "taskboard",
		Now:           clock.Now,
	})
	require.NoError(t, err)
	return issuer, clock
}

func TestNewTokenIssuerValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  jwtx.TokenConfig
	}{
		{"missing access secret", jwtx.TokenConfig{RefreshSecret: refreshSecret}},
		{"missing refresh secret", jwtx.TokenConfig{AccessSecret: accessSecret}},
		{"same secret twice", jwtx.TokenConfig{AccessSecret: accessSecret, RefreshSecret: accessSecret}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jwtx.NewTokenIssuer(tt.cfg)
			require.Error(t, err)
		})
	}

	t.Run("short secrets are weak", func(t *testing.T) {
		_, err := jwtx.NewTokenIssuer(jwtx.TokenConfig{AccessSecret: "short", RefreshSecret: refreshSecret})
		require.ErrorIs(t, err, jwtx.ErrWeakSecret)
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer, _ := newIssuer(t)

	token, err := issuer.IssueAccess("user-1", "alice@example.com", "admin")
	require.NoError(t, err)

	claims, err := issuer.AccessVerifier().Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, jwtx.UseAccess, claims.Use)

	viaInterface, err := issuer.AccessVerifier().Verify(token)
	require.NoError(t, err)
	require.Equal(t, claims.ID, viaInterface.ID)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	issuer, _ := newIssuer(t)

	token, err := issuer.IssueRefresh("user-1")
	require.NoError(t, err)

	claims, err := issuer.VerifyRefresh(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Empty(t, claims.Email)
	require.Equal(t, jwtx.UseRefresh, claims.Use)
}

func TestTokenClassesDoNotMix(t *testing.T) {
	issuer, _ := newIssuer(t)

	access, err := issuer.IssueAccess("user-1", "alice@example.com", "user")
	require.NoError(t, err)
	refresh, err := issuer.IssueRefresh("user-1")
	require.NoError(t, err)

	// Different secrets, so each fails signature checks on the other side.
	_, err = issuer.VerifyRefresh(access)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	require.True(t, jwtx.IsInvalid(err))

	_, err = issuer.AccessVerifier().Verify(refresh)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestWrongUseWithSharedKey(t *testing.T) {
	signer, err := jwtx.NewSignerHS256("", []byte(accessSecret))
	require.NoError(t, err)

	now := time.Now().UTC()
	token, err := signer.Sign(jwtx.NewRefreshClaims("user-1", "", time.Hour, now))
	require.NoError(t, err)

	v := jwtx.NewVerifierHS256([]byte(accessSecret), "", jwtx.UseAccess)
	_, err = v.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrWrongUse)
	require.False(t, jwtx.IsInvalid(err))
}

func TestExpiry(t *testing.T) {
	issuer, clock := newIssuer(t)

	access, err := issuer.IssueAccess("user-1", "alice@example.com", "user")
	require.NoError(t, err)
	refresh, err := issuer.IssueRefresh("user-1")
	require.NoError(t, err)

	t.Run("access valid just before 15 minutes", func(t *testing.T) {
		clock.now = clock.now.Add(14 * time.Minute)
		_, err := issuer.AccessVerifier().Verify(access)
		require.NoError(t, err)
	})

	t.Run("access expired after 15 minutes", func(t *testing.T) {
		clock.now = clock.now.Add(2 * time.Minute)
		_, err := issuer.AccessVerifier().Verify(access)
		require.ErrorIs(t, err, jwtx.ErrExpired)
		require.False(t, jwtx.IsInvalid(err))
	})

	t.Run("refresh still valid", func(t *testing.T) {
		_, err := issuer.VerifyRefresh(refresh)
		require.NoError(t, err)
	})

	t.Run("refresh expired after 7 days", func(t *testing.T) {
		clock.now = clock.now.Add(7 * 24 * time.Hour)
		_, err := issuer.VerifyRefresh(refresh)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})
}

func TestMalformedAndTampered(t *testing.T) {
	issuer, _ := newIssuer(t)

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.AccessVerifier().Verify("not-a-jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
		require.True(t, jwtx.IsInvalid(err))
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, err := issuer.IssueAccess("user-1", "alice@example.com", "user")
		require.NoError(t, err)

		other, err := issuer.IssueAccess("user-2", "bob@example.com", "admin")
		require.NoError(t, err)

		// Swap in the other token's payload while keeping the first signature.
		a := strings.Split(token, ".")
		b := strings.Split(other, ".")
		forged := a[0] + "." + b[1] + "." + a[2]

		_, err = issuer.AccessVerifier().Verify(forged)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("alg none", func(t *testing.T) {
		claims := jwtx.NewAccessClaims("user-1", "a@b.c", "admin", "taskboard", time.Hour, time.Now())
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = issuer.AccessVerifier().Verify(unsigned)
		require.Error(t, err)
		require.True(t, jwtx.IsInvalid(err))
	})
}

func TestIssuerMismatch(t *testing.T) {
	other, err := jwtx.NewTokenIssuer(jwtx.TokenConfig{
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
		Issuer:        "someone-else",
	})
	require.NoError(t, err)

	token, err := other.IssueAccess("user-1", "a@b.c", "user")
	require.NoError(t, err)

	v := jwtx.NewVerifierHS256([]byte(accessSecret), "taskboard", jwtx.UseAccess)
	_, err = v.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
	require.False(t, jwtx.IsInvalid(err))
}
