package client

import "context"

// ReadyResponse is the readiness probe reply
type ReadyResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health reports liveness and when the last full refresh settled
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.doRequest(ctx, "GET", "/healthz", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Ready reports whether the server can reach its database
func (c *Client) Ready(ctx context.Context) (*ReadyResponse, error) {
	var ready ReadyResponse
	if err := c.doRequest(ctx, "GET", "/readyz", nil, &ready); err != nil {
		return nil, err
	}
	return &ready, nil
}
