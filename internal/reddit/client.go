// Package reddit implements the two Reddit API calls the client needs: the
// installed-client token grant and the "top" listing. It is stateless; the
// caller owns the token and the pagination cursor.
package reddit

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/donaldgifford/reddit-top/internal/transport"
	domain "github.com/donaldgifford/reddit-top/pkg/types"
)

// Default endpoints and identity.
const (
	DefaultBaseURL    = "https://www.reddit.com"
	DefaultOAuthURL   = "https://oauth.reddit.com"
	DefaultClientID   = "DuUW-KECgrqDjw"
	DefaultUserAgent  = "android:com.task.redditclient:v1.0 by Andrii"
	DefaultTimeWindow = "day"
	DefaultPageSize   = 10

	tokenPath = "/api/v1/access_token"
	topPath   = "/top"

	//nolint:gosec // grant type URI, not a credential
	tokenBodyFormat = "grant_type=https://oauth.reddit.com/grants/installed_client&device_id=%s"

	paramTime  = "t"
	paramLimit = "limit"
	paramAfter = "after"

	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeJSON = "application/json"
)

// Transport is the subset of transport.Client the API calls use.
type Transport interface {
	Get(ctx context.Context, rawURL string, headers, params []transport.Param) (string, error)
	Post(ctx context.Context, rawURL string, headers []transport.Param, body string) (string, error)
}

// Token is the result of a successful authentication.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
}

// Client issues Reddit API calls through a Transport.
type Client struct {
	transport    Transport
	baseURL      string
	oauthURL     string
	clientID     string
	clientSecret string
	userAgent    string
	timeWindow   string
	pageSize     int
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint hosting the token grant.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithOAuthURL overrides the authenticated API endpoint.
func WithOAuthURL(u string) Option {
	return func(c *Client) {
		c.oauthURL = u
	}
}

// WithCredentials sets the application client id and secret. Installed
// apps have an empty secret.
func WithCredentials(clientID, clientSecret string) Option {
	return func(c *Client) {
		c.clientID = clientID
		c.clientSecret = clientSecret
	}
}

// WithUserAgent overrides the User-Agent sent with listing requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeWindow sets the "t" parameter (hour, day, week, month, year, all).
func WithTimeWindow(w string) Option {
	return func(c *Client) {
		c.timeWindow = w
	}
}

// WithPageSize sets the "limit" parameter.
func WithPageSize(n int) Option {
	return func(c *Client) {
		c.pageSize = n
	}
}

// NewClient creates a Reddit API client.
func NewClient(t Transport, opts ...Option) *Client {
	c := &Client{
		transport:  t,
		baseURL:    DefaultBaseURL,
		oauthURL:   DefaultOAuthURL,
		clientID:   DefaultClientID,
		userAgent:  DefaultUserAgent,
		timeWindow: DefaultTimeWindow,
		pageSize:   DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PageSize returns the number of entries requested per page.
func (c *Client) PageSize() int {
	return c.pageSize
}

// RequestToken performs the installed-client grant for deviceID.
func (c *Client) RequestToken(ctx context.Context, deviceID string) (*Token, error) {
	creds := base64.StdEncoding.EncodeToString(
		[]byte(c.clientID + ":" + c.clientSecret),
	)
	headers := []transport.Param{
		{Key: "Authorization", Value: "Basic " + creds},
		{Key: "Accept", Value: contentTypeJSON},
		{Key: "Content-Type", Value: contentTypeForm},
	}

	body, err := c.transport.Post(
		ctx,
		c.baseURL+tokenPath,
		headers,
		fmt.Sprintf(tokenBodyFormat, deviceID),
	)
	if err != nil {
		return nil, fmt.Errorf("requesting token: %w", err)
	}

	return parseToken(body)
}

// Top fetches one page of the top listing. An empty after requests the first
// page. token must come from a prior RequestToken.
func (c *Client) Top(ctx context.Context, token, after string) (*domain.Page, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	headers := []transport.Param{
		{Key: "Authorization", Value: "bearer " + token},
		{Key: "User-Agent", Value: c.userAgent},
		{Key: "Accept", Value: contentTypeJSON},
	}

	params := []transport.Param{
		{Key: paramTime, Value: c.timeWindow},
		{Key: paramLimit, Value: strconv.Itoa(c.pageSize)},
	}
	if after != "" {
		params = append(params, transport.Param{Key: paramAfter, Value: after})
	}

	body, err := c.transport.Get(ctx, c.oauthURL+topPath, headers, params)
	if err != nil {
		return nil, fmt.Errorf("fetching top listing: %w", err)
	}

	return parseListing(body)
}
