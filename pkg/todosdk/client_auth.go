package todosdk

import (
	"context"
	"net/http"
)

// Register creates an account. It does not log in.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, apiPrefix+"/auth/register", req)
	if err != nil {
		return nil, err
	}

	var user User
	if _, err := decodeEnvelope(resp, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a token pair.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, apiPrefix+"/auth/login", req)
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if _, err := decodeEnvelope(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh trades a refresh token for a new access token.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, apiPrefix+"/auth/refresh",
		RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}

	var out RefreshResponse
	if _, err := decodeEnvelope(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout acknowledges a logout. Tokens are not revoked server side; callers
// drop them.
func (c *SDKClient) Logout(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodPost, apiPrefix+"/auth/logout", nil)
	if err != nil {
		return err
	}

	_, err = decodeEnvelope(resp, nil, http.StatusOK)
	return err
}
