package engine_test

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/donaldgifford/reddit-top/internal/engine"
	"github.com/donaldgifford/reddit-top/internal/notify"
	"github.com/donaldgifford/reddit-top/internal/reddit"
	"github.com/donaldgifford/reddit-top/internal/session"
	"github.com/donaldgifford/reddit-top/internal/storage"
	"github.com/donaldgifford/reddit-top/pkg/logger"
	domain "github.com/donaldgifford/reddit-top/pkg/types"
)

const (
	testTimeout = 2 * time.Second
	testTick    = 10 * time.Millisecond
	testQuiet   = 100 * time.Millisecond
)

// newTestEngine starts an engine whose Run loop lives for the test.
func newTestEngine(
	t *testing.T,
	api engine.API,
	dl engine.Downloader,
	opts ...engine.Option,
) *engine.Engine {
	t.Helper()

	base := []engine.Option{engine.WithLogger(logger.Discard())}
	eng := engine.New(
		api,
		dl,
		session.New(session.WithDeviceID("device-1")),
		storage.New(),
		append(base, opts...)...,
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = eng.Run(ctx)
	}()

	t.Cleanup(func() {
		eng.Close()
		cancel()
		<-done
	})
	return eng
}

// recorder collects every result the engine delivers.
type recorder struct {
	ch chan engine.Result
}

func newRecorder(eng *engine.Engine) *recorder {
	r := &recorder{ch: make(chan engine.Result, 32)}
	eng.AddObserver(engine.ObserverFunc(func(res engine.Result) {
		r.ch <- res
	}))
	return r
}

func (r *recorder) next(t *testing.T) engine.Result {
	t.Helper()
	select {
	case res := <-r.ch:
		return res
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for result")
		return nil
	}
}

func (r *recorder) empty() bool {
	return len(r.ch) == 0
}

// mockAPI is a testify mock of engine.API.
type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) RequestToken(ctx context.Context, deviceID string) (*reddit.Token, error) {
	args := m.Called(ctx, deviceID)
	tok, _ := args.Get(0).(*reddit.Token)
	return tok, args.Error(1)
}

func (m *mockAPI) Top(ctx context.Context, token, after string) (*domain.Page, error) {
	args := m.Called(ctx, token, after)
	page, _ := args.Get(0).(*domain.Page)
	return page, args.Error(1)
}

// pagedAPI serves n pages of size entries each. Page i is requested with
// cursor "t3_<i-1>" and returns cursor "t3_<i>"; the last page has none.
type pagedAPI struct {
	pages int
	size  int

	mu     sync.Mutex
	tokens []string
	afters []string
}

func (p *pagedAPI) RequestToken(context.Context, string) (*reddit.Token, error) {
	return &reddit.Token{AccessToken: "tok", ExpiresIn: time.Hour}, nil
}

func (p *pagedAPI) Top(_ context.Context, token, after string) (*domain.Page, error) {
	p.mu.Lock()
	p.tokens = append(p.tokens, token)
	p.afters = append(p.afters, after)
	p.mu.Unlock()

	if token == "" {
		return nil, reddit.ErrNotAuthenticated
	}

	idx := 0
	if after != "" {
		if _, err := fmt.Sscanf(after, "t3_%d", &idx); err != nil {
			return nil, err
		}
		idx++
	}

	page := &domain.Page{Entries: makeEntries(idx, p.size)}
	if idx < p.pages-1 {
		page.After = fmt.Sprintf("t3_%d", idx)
	}
	return page, nil
}

func (p *pagedAPI) requestedAfters() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.afters...)
}

func makeEntries(page, n int) []domain.Entry {
	entries := make([]domain.Entry, n)
	for i := range entries {
		entries[i] = domain.Entry{
			Title:      fmt.Sprintf("page %d entry %d", page, i),
			Author:     "author",
			CreatedUTC: int64(1718445600 + i),
		}
	}
	return entries
}

// gatedDownloader blocks each download until its URL's gate is released,
// ignoring cancellation like an uninterruptible write would.
type gatedDownloader struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	errs  map[string]error
}

func newGatedDownloader() *gatedDownloader {
	return &gatedDownloader{
		gates: make(map[string]chan struct{}),
		errs:  make(map[string]error),
	}
}

func (d *gatedDownloader) gate(rawURL string) chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	g, ok := d.gates[rawURL]
	if !ok {
		g = make(chan struct{})
		d.gates[rawURL] = g
	}
	return g
}

func (d *gatedDownloader) release(rawURL string) {
	close(d.gate(rawURL))
}

func (d *gatedDownloader) fail(rawURL string, err error) {
	d.mu.Lock()
	d.errs[rawURL] = err
	d.mu.Unlock()
	d.release(rawURL)
}

func (d *gatedDownloader) Download(_ context.Context, rawURL, destDir string) (string, error) {
	<-d.gate(rawURL)

	d.mu.Lock()
	err := d.errs[rawURL]
	d.mu.Unlock()
	if err != nil {
		return "", err
	}
	return filepath.Join(destDir, path.Base(rawURL)), nil
}

// instantDownloader succeeds immediately.
type instantDownloader struct{}

func (instantDownloader) Download(_ context.Context, rawURL, destDir string) (string, error) {
	return filepath.Join(destDir, path.Base(rawURL)), nil
}

// recordingIndexer records media events and returns err.
type recordingIndexer struct {
	mu    sync.Mutex
	media []notify.Media
	err   error
}

func (r *recordingIndexer) MediaAdded(_ context.Context, m notify.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.media = append(r.media, m)
	return r.err
}

func (r *recordingIndexer) events() []notify.Media {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Media(nil), r.media...)
}
