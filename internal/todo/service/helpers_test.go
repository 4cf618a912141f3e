package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/todo/domain"
	"github.com/aussiebroadwan/taskboard/internal/todo/store/drivers/sqlite"
	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

type testClock struct{ now time.Time }

func newTestClock(t time.Time) *testClock { return &testClock{now: t} }

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func ptr[T any](v T) *T { return &v }

func dateUTC(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newAuthService(t *testing.T, s *sqlite.Store, clock *testClock) *AuthService {
	t.Helper()

	tokens, err := jwtx.NewTokenIssuer(jwtx.TokenConfig{
		AccessSecret:  "test-access-secret-0123456789abcdefgh",
		RefreshSecret: "test-refresh-secret-0123456789abcdefg",
		Issuer:        "taskboard-test",
		Now:           clock.Now,
	})
	require.NoError(t, err)

	return &AuthService{
		Store:  s,
		Tokens: tokens,
		Hasher: cryptox.NewHasher(bcrypt.MinCost),
		Now:    clock.Now,
	}
}

func registerUser(t *testing.T, auth *AuthService, email string) domain.User {
	t.Helper()

	u, err := auth.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: "pw123456",
		Username: "someone",
	})
	require.NoError(t, err)
	return u
}
