package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/aussiebroadwan/taskboard/internal/todo/domain"
	"github.com/aussiebroadwan/taskboard/internal/todo/store"
	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

const (
	minPasswordChars = 8
	maxUsernameChars = 50
)

// AuthService registers accounts and trades credentials for tokens.
type AuthService struct {
	Store  store.Store
	Tokens *jwtx.TokenIssuer
	Hasher *cryptox.Hasher

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) hasher() *cryptox.Hasher {
	if s.Hasher == nil {
		s.Hasher = cryptox.NewHasher(cryptox.DefaultPasswordCost)
	}
	return s.Hasher
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password,
			validation.Required,
			validation.RuneLength(minPasswordChars, 0),
			validation.Length(0, cryptox.MaxPasswordBytes),
		),
		validation.Field(&in.Username, validation.Required, validation.RuneLength(1, maxUsernameChars)),
	)
}

// Register creates a plain user account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	l := slogx.FromContext(ctx)

	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := asValidationError(in.Validate()); err != nil {
		return domain.User{}, err
	}

	if _, err := s.Store.Users().GetUserByEmail(ctx, in.Email); err == nil {
		return domain.User{}, ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.hasher().Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := storedTime(s.now())
	user := domain.User{
		ID:           idx.New().String(),
		Email:        in.Email,
		PasswordHash: hash,
		Username:     in.Username,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	l.Info("user registered", slog.String("user_id", user.ID))
	return user, nil
}

// Login checks credentials and issues an access and refresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	if strings.TrimSpace(email) == "" || password == "" {
		return domain.TokenPair{}, &ValidationError{Message: "email and password are required"}
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		// Burn the same bcrypt time as a real check.
		s.hasher().VerifyDummy(password)
		l.Info("login failed", slog.String("reason", "unknown_email"))
		return domain.TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.hasher().Verify(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Info("login failed", slog.String("reason", "bad_password"), slog.String("user_id", user.ID))
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, fmt.Errorf("verify password: %w", err)
	}

	access, err := s.Tokens.IssueAccess(user.ID, user.Email, string(user.Role))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.Tokens.IssueRefresh(user.ID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	l.Info("user logged in", slog.String("user_id", user.ID))
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Refresh mints a new access token. Email and role come from the store, not
// from the presented token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.AccessToken, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		l.Debug("refresh token rejected", slog.Any("error", err))
		return domain.AccessToken{}, ErrInvalidRefreshToken
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		l.Warn("refresh for missing user", slog.String("user_id", claims.Subject))
		return domain.AccessToken{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("lookup user: %w", err)
	}

	access, err := s.Tokens.IssueAccess(user.ID, user.Email, string(user.Role))
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("issue access token: %w", err)
	}
	return domain.AccessToken{AccessToken: access}, nil
}

// LookupIdentity resolves a token subject for the auth gate.
func (s *AuthService) LookupIdentity(ctx context.Context, userID string) (httpx.Identity, bool, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return httpx.Identity{}, false, nil
	}
	if err != nil {
		return httpx.Identity{}, false, err
	}
	return httpx.Identity{UserID: user.ID, Email: user.Email, Role: string(user.Role)}, true, nil
}
