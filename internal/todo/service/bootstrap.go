package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/todo/domain"
	"github.com/aussiebroadwan/taskboard/internal/todo/store"
	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// DefaultAdminUsername names an admin created from configuration.
const DefaultAdminUsername = "admin"

// BootstrapService seeds the admin account from configuration. It is the
// only code path that grants the admin role.
type BootstrapService struct {
	Store  store.Store
	Hasher *cryptox.Hasher
}

// EnsureAdmin makes sure an admin with email exists. A missing account is
// created with password; an existing one is promoted and keeps its
// password. Running it again changes nothing.
func (s *BootstrapService) EnsureAdmin(ctx context.Context, email, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if err := asValidationError(RegisterInput{
		Email:    email,
		Password: password,
		Username: DefaultAdminUsername,
	}.Validate()); err != nil {
		return domain.User{}, fmt.Errorf("admin account: %w", err)
	}

	hasher := s.Hasher
	if hasher == nil {
		hasher = cryptox.NewHasher(cryptox.DefaultPasswordCost)
	}

	var admin domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Users().GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			if existing.Role != domain.RoleAdmin {
				if err := tx.Users().UpdateUserRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
					return fmt.Errorf("promote admin: %w", err)
				}
				existing.Role = domain.RoleAdmin
				l.Info("promoted existing account to admin", slog.String("user_id", existing.ID))
			}
			admin = existing
			return nil

		case errors.Is(err, store.ErrNotFound):
			hash, err := hasher.Hash(password)
			if err != nil {
				return fmt.Errorf("hash admin password: %w", err)
			}

			now := storedTime(time.Now())
			admin = domain.User{
				ID:           idx.New().String(),
				Email:        email,
				PasswordHash: hash,
				Username:     DefaultAdminUsername,
				Role:         domain.RoleAdmin,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Users().CreateUser(ctx, admin); err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			l.Info("created admin account", slog.String("user_id", admin.ID))
			return nil

		default:
			return fmt.Errorf("lookup admin: %w", err)
		}
	})
	if err != nil {
		return domain.User{}, err
	}
	return admin, nil
}
