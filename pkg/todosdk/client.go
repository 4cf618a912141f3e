package todosdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient talks to the taskboard API. It covers the public endpoints and
// opens authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client for the service rooted at baseURL (without
// the /api prefix).
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Authenticate logs in and returns a Session that refreshes its access
// token on its own.
func (c *SDKClient) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.Login(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return newSession(c, resp.AccessToken, resp.RefreshToken, &resp.User), nil
}

// NewSessionFromTokens resumes a session from tokens obtained earlier.
func (c *SDKClient) NewSessionFromTokens(accessToken, refreshToken string) *Session {
	return newSession(c, accessToken, refreshToken, nil)
}
