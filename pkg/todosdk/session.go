package todosdk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// defaultTokenLifetime is assumed when an access token carries no readable
// exp claim.
const defaultTokenLifetime = 15 * time.Minute

// refreshBuffer refreshes the access token slightly before it expires.
const refreshBuffer = 30 * time.Second

// Session represents an authenticated user. Its methods refresh the access
// token when it is about to expire.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	user         *User
}

func newSession(client *SDKClient, accessToken, refreshToken string, user *User) *Session {
	return &Session{
		client:       client,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		expiresAt:    tokenExpiry(accessToken).Add(-refreshBuffer),
		user:         user,
	}
}

// tokenExpiry reads the exp claim without verifying the signature. The
// server remains the authority on validity; this only schedules refreshes.
func tokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return time.Now().Add(defaultTokenLifetime)
}

// getValidToken returns a valid access token, refreshing it if needed.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have refreshed while we waited.
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	if s.refreshToken == "" {
		return "", fmt.Errorf("access token expired and no refresh token available")
	}

	resp, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	s.accessToken = resp.AccessToken
	s.expiresAt = tokenExpiry(resp.AccessToken).Add(-refreshBuffer)

	return s.accessToken, nil
}

// AccessToken returns the current access token without checking expiration.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// User returns the account returned at login, or nil for sessions resumed
// from raw tokens.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Logout ends the session. Tokens are stateless, so this tells the server
// and then forgets both tokens locally.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.client.Logout(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()
	return nil
}
