package client

import (
	"context"
	"time"
)

// Status mirrors GET /api/v1/status.
type Status struct {
	Authenticated  bool       `json:"authenticated"`
	DeviceID       string     `json:"device_id"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	InFlight       []string   `json:"in_flight"`
}

// Quota mirrors GET /api/v1/quota.
type Quota struct {
	Known     bool       `json:"known"`
	Used      int        `json:"used"`
	Remaining int        `json:"remaining"`
	ResetAt   *time.Time `json:"reset_at,omitempty"`
}

// Accepted is the body of a 202 response.
type Accepted struct {
	Status string `json:"status"`
}

// DownloadRequest is the body of POST /api/v1/downloads.
type DownloadRequest struct {
	URL string `json:"url"`
	Dir string `json:"dir,omitempty"`
}

// DownloadAccepted is the response to a started download.
type DownloadAccepted struct {
	Status string `json:"status"`
	URL    string `json:"url"`
	Dir    string `json:"dir"`
}

// Status returns the engine state of the server.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var s Status
	if err := c.get(ctx, "/api/v1/status", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Quota returns the last rate limit window the server observed.
func (c *Client) Quota(ctx context.Context) (*Quota, error) {
	var q Quota
	if err := c.get(ctx, "/api/v1/quota", &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// Authenticate starts a token request on the server.
func (c *Client) Authenticate(ctx context.Context) (*Accepted, error) {
	return c.trigger(ctx, "/api/v1/auth")
}

// Refresh starts a first-page fetch on the server.
func (c *Client) Refresh(ctx context.Context) (*Accepted, error) {
	return c.trigger(ctx, "/api/v1/listings/refresh")
}

// Next starts a fetch of the next page on the server.
func (c *Client) Next(ctx context.Context) (*Accepted, error) {
	return c.trigger(ctx, "/api/v1/listings/next")
}

// Download starts a download on the server. Dir is resolved under the
// server's download directory; an empty dir uses that directory itself.
func (c *Client) Download(ctx context.Context, req DownloadRequest) (*DownloadAccepted, error) {
	var resp DownloadAccepted
	if err := c.post(ctx, "/api/v1/downloads", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) trigger(ctx context.Context, path string) (*Accepted, error) {
	var resp Accepted
	if err := c.post(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
