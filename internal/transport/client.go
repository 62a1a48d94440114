// Package transport executes the three synchronous HTTP operations reddit-top
// needs: GET and POST returning the decoded body text, and a streaming
// download into a directory. Every call blocks, so callers run it off the
// goroutine that owns the UI or the observer loop.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"

	"github.com/donaldgifford/reddit-top/internal/metrics"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultBufferSize = 4096
	maxNameAttempts   = 1000
)

// Client performs HTTP requests with no retries.
type Client struct {
	client      *http.Client
	timeout     time.Duration
	rateLimiter *RateLimiter
	bufferSize  int
	log         *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. The timeout option is
// ignored when a client is supplied.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout sets the overall per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimiter paces API requests through r. Downloads are not paced.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// WithBufferSize sets the copy buffer size used by Download.
func WithBufferSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		timeout:    defaultTimeout,
		bufferSize: defaultBufferSize,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
			Transport: otelhttp.NewTransport(
				http.DefaultTransport,
				otelhttp.WithPropagators(propagation.NewCompositeTextMapPropagator()),
			),
		}
	}
	return c
}

// RateLimiter returns the limiter in front of API requests, or nil.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// Get sends a GET to rawURL with params appended as a query string and
// returns the response body. Statuses other than 200 and 202 fail with a
// *StatusError.
func (c *Client) Get(
	ctx context.Context,
	rawURL string,
	headers []Param,
	params []Param,
) (string, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		BuildURL(rawURL, params),
		http.NoBody,
	)
	if err != nil {
		return "", fmt.Errorf("creating GET request: %w", err)
	}
	setHeaders(req, headers)

	return c.execute(req)
}

// Post sends body to rawURL and returns the response body. A non-empty body
// is sent with a Content-Length equal to its UTF-8 byte length.
func (c *Client) Post(
	ctx context.Context,
	rawURL string,
	headers []Param,
	body string,
) (string, error) {
	payload := []byte(body)

	var reader io.Reader = http.NoBody
	if len(payload) > 0 {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, reader)
	if err != nil {
		return "", fmt.Errorf("creating POST request: %w", err)
	}
	setHeaders(req, headers)

	if len(payload) > 0 {
		req.ContentLength = int64(len(payload))
		req.Header.Set("Content-Length", strconv.Itoa(len(payload)))
	}

	return c.execute(req)
}

// Download fetches rawURL without custom headers and streams the body into
// destDir. The file name comes from the Content-Disposition header when
// present, otherwise from the last URL path segment. An existing file is never
// replaced: a taken name gets a numeric suffix ("cat-1.jpg"). It returns the
// absolute path of the written file. A partially written file is removed on
// failure.
func (c *Client) Download(ctx context.Context, rawURL, destDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating download request: %w", err)
	}

	resp, err := c.do(req, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !successful(resp.StatusCode) {
		return "", statusError(resp)
	}

	dir, err := filepath.Abs(destDir)
	if err != nil {
		return "", &IOError{Op: "resolve", Path: destDir, Err: err}
	}

	f, path, err := createUnique(dir, FileName(resp.Header.Get("Content-Disposition"), rawURL))
	if err != nil {
		return "", &IOError{Op: "create", Path: path, Err: err}
	}

	n, copyErr := io.CopyBuffer(writerOnly{f}, resp.Body, make([]byte, c.bufferSize))
	if err := errors.Join(copyErr, f.Close()); err != nil {
		_ = os.Remove(path) //nolint:errcheck // best-effort cleanup
		return "", &IOError{Op: "write", Path: path, Err: err}
	}

	metrics.DownloadedBytesTotal.Add(float64(n))
	c.log.Debug("asset downloaded", "path", path, "bytes", n)

	return path, nil
}

// createUnique creates name in dir exclusively, trying suffixed names while
// the name is taken.
func createUnique(dir, name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	path := filepath.Join(dir, name)
	for i := range maxNameAttempts {
		if i > 0 {
			path = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) //nolint:gosec // name is reduced to a base name
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, path, err
		}
	}
	return nil, path, fmt.Errorf("no free file name for %q after %d attempts", name, maxNameAttempts)
}

func (c *Client) execute(req *http.Request) (string, error) {
	resp, err := c.do(req, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !successful(resp.StatusCode) {
		return "", statusError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	return string(body), nil
}

func (c *Client) do(req *http.Request, paced bool) (*http.Response, error) {
	if paced && c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.TransportRequestDuration.
		WithLabelValues(req.Method).
		Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.TransportRequestsTotal.WithLabelValues(req.Method, "error").Inc()
		return nil, fmt.Errorf("executing %s request: %w", req.Method, err)
	}

	metrics.TransportRequestsTotal.
		WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).
		Inc()

	if paced && c.rateLimiter != nil {
		c.rateLimiter.Observe(resp.Header)
	}

	c.log.Debug("http request",
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return resp, nil
}

func statusError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading error body (status %d): %w", resp.StatusCode, err)
	}
	return &StatusError{
		StatusCode: resp.StatusCode,
		Body:       lineBreaks.Replace(string(body)),
	}
}

// lineBreaks removes every line break from an error body.
var lineBreaks = strings.NewReplacer("\r\n", "", "\n", "", "\r", "")

func successful(code int) bool {
	return code == http.StatusOK || code == http.StatusAccepted
}

func setHeaders(req *http.Request, headers []Param) {
	for _, h := range headers {
		req.Header.Set(h.Key, h.Value)
	}
}

// writerOnly hides *os.File's ReadFrom so io.CopyBuffer uses the fixed buffer.
type writerOnly struct {
	io.Writer
}
