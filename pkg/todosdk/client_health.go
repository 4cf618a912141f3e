package todosdk

import (
	"context"
	"net/http"
)

// GetHealth calls the API health endpoint.
func (c *SDKClient) GetHealth(ctx context.Context) (*HealthResponse, error) {
	return c.probe(ctx, apiPrefix+"/health")
}

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.probe(ctx, "/livez")
}

// GetReadiness checks if the service can reach its database. A degraded
// service still returns its HealthResponse alongside the error.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.probe(ctx, "/readyz")
}

func (c *SDKClient) probe(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	status := resp.StatusCode
	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK, http.StatusServiceUnavailable); err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return &health, &APIError{
			StatusCode: status,
			Code:       "UNAVAILABLE",
			Message:    "service is " + health.Status,
		}
	}
	return &health, nil
}
