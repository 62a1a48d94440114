// Package session holds the authentication state of one client process: a
// random device identifier fixed at construction and the bearer token from
// the latest successful authentication.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is safe for concurrent use.
type Session struct {
	deviceID string
	nowFunc  func() time.Time

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// Option configures the Session.
type Option func(*Session)

// WithDeviceID fixes the device identifier instead of generating one.
func WithDeviceID(id string) Option {
	return func(s *Session) {
		s.deviceID = id
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(s *Session) {
		s.nowFunc = f
	}
}

// New creates an unauthenticated Session with a random device identifier.
func New(opts ...Option) *Session {
	s := &Session{nowFunc: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.deviceID == "" {
		s.deviceID = uuid.NewString()
	}
	return s
}

// DeviceID returns the identifier sent with every authentication request.
func (s *Session) DeviceID() string {
	return s.deviceID
}

// Token returns the bearer token and whether one is set.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// SetToken stores a token. A non-positive expiresIn records no expiry.
func (s *Session) SetToken(token string, expiresIn time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.expiresAt = time.Time{}
	if expiresIn > 0 {
		s.expiresAt = s.nowFunc().Add(expiresIn)
	}
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// ExpiresAt returns when the server said the token expires; zero if unknown.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Expired reports whether the token is missing or within margin of its
// reported expiry. The token stays usable for requests either way; this only
// tells schedulers when to authenticate again.
func (s *Session) Expired(margin time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return true
	}
	if s.expiresAt.IsZero() {
		return false
	}
	return !s.nowFunc().Before(s.expiresAt.Add(-margin))
}
