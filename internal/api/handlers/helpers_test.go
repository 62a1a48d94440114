package handlers_test

import (
	"sync"
	"time"

	"github.com/donaldgifford/reddit-top/internal/engine"
)

// fakeCoordinator records the operations it is asked to start.
type fakeCoordinator struct {
	mu            sync.Mutex
	authenticated bool
	hasNext       bool
	inFlight      []engine.Kind
	calls         []string
	downloads     [][2]string
}

func (f *fakeCoordinator) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeCoordinator) Authenticate() { f.record("authenticate") }
func (f *fakeCoordinator) Refresh()      { f.record("refresh") }

func (f *fakeCoordinator) FetchNextPage() bool {
	if !f.hasNext {
		return false
	}
	f.record("next")
	return true
}

func (f *fakeCoordinator) DownloadAsset(rawURL, destDir string) {
	f.record("download")
	f.mu.Lock()
	f.downloads = append(f.downloads, [2]string{rawURL, destDir})
	f.mu.Unlock()
}

func (f *fakeCoordinator) IsAuthenticated() bool   { return f.authenticated }
func (f *fakeCoordinator) InFlight() []engine.Kind { return f.inFlight }

func (f *fakeCoordinator) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeSession struct {
	deviceID  string
	expiresAt time.Time
}

func (s fakeSession) DeviceID() string     { return s.deviceID }
func (s fakeSession) ExpiresAt() time.Time { return s.expiresAt }
