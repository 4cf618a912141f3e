package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/todo/domain"
	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestEnsureAdmin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newTestStore(t)
	boot := &BootstrapService{Store: s, Hasher: cryptox.NewHasher(bcrypt.MinCost)}
	auth := newAuthService(t, s, newTestClock(time.Now()))

	admin, err := boot.EnsureAdmin(ctx, "root@example.com", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, admin.Role)

	again, err := boot.EnsureAdmin(ctx, "root@example.com", "ignored-password")
	require.NoError(t, err)
	require.Equal(t, admin.ID, again.ID)

	pair, err := auth.Login(ctx, "root@example.com", "correct-horse")
	require.NoError(t, err, "existing admin keeps its password")
	require.Equal(t, domain.RoleAdmin, pair.User.Role)
}

func TestEnsureAdminPromotesExistingAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newTestStore(t)
	auth := newAuthService(t, s, newTestClock(time.Now()))
	u := registerUser(t, auth, "ops@example.com")

	boot := &BootstrapService{Store: s, Hasher: cryptox.NewHasher(bcrypt.MinCost)}
	admin, err := boot.EnsureAdmin(ctx, "ops@example.com", "whatever-pass")
	require.NoError(t, err)
	require.Equal(t, u.ID, admin.ID)

	id, found, err := auth.LookupIdentity(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "admin", id.Role)
}

func TestEnsureAdminValidates(t *testing.T) {
	t.Parallel()

	boot := &BootstrapService{Store: newTestStore(t), Hasher: cryptox.NewHasher(bcrypt.MinCost)}
	_, err := boot.EnsureAdmin(context.Background(), "not-an-email", "correct-horse")
	require.ErrorIs(t, err, ErrValidation)
}
