package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/donaldgifford/reddit-top/internal/metrics"
)

// ErrQuotaExhausted is returned when the server-reported rate limit window
// has no requests left. The request is not sent and not retried.
var ErrQuotaExhausted = errors.New("rate limit window exhausted")

// Reddit reports its rolling window on every API response.
const (
	headerRateUsed      = "X-Ratelimit-Used"
	headerRateRemaining = "X-Ratelimit-Remaining"
	headerRateReset     = "X-Ratelimit-Reset"
)

// Quota is the last rate limit window reported by the server.
type Quota struct {
	Known     bool
	Used      int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter paces outgoing API calls with a local token bucket and refuses
// calls while the server-reported window is exhausted.
type RateLimiter struct {
	limiter *rate.Limiter
	nowFunc func() time.Time

	mu    sync.Mutex
	quota Quota
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a limiter allowing perSecond calls with the given
// burst.
func NewRateLimiter(perSecond float64, burst int, opts ...RateLimiterOption) *RateLimiter {
	r := &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Wait blocks until the token bucket allows a call or ctx is done. It fails
// fast with ErrQuotaExhausted while the server window is used up.
func (r *RateLimiter) Wait(ctx context.Context) error {
	q := r.Quota()
	if q.Known && q.Remaining <= 0 && r.nowFunc().Before(q.ResetAt) {
		metrics.QuotaExhaustedTotal.Inc()
		return fmt.Errorf("%w (resets at %s)", ErrQuotaExhausted, q.ResetAt.Format(time.RFC3339))
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

// Observe records the window reported in h. Responses without the rate
// limit headers leave the previous window untouched.
func (r *RateLimiter) Observe(h http.Header) {
	remaining, err := strconv.ParseFloat(h.Get(headerRateRemaining), 64)
	if err != nil {
		return
	}
	reset, err := strconv.ParseFloat(h.Get(headerRateReset), 64)
	if err != nil {
		return
	}
	used, _ := strconv.ParseFloat(h.Get(headerRateUsed), 64) //nolint:errcheck // optional header

	r.mu.Lock()
	r.quota = Quota{
		Known:     true,
		Used:      int(used),
		Remaining: int(remaining),
		ResetAt:   r.nowFunc().Add(time.Duration(reset * float64(time.Second))),
	}
	r.mu.Unlock()

	metrics.QuotaRemaining.Set(remaining)
}

// Quota returns the last observed window.
func (r *RateLimiter) Quota() Quota {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quota
}
