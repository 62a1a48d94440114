// Package engine coordinates the asynchronous Reddit operations: it runs each
// request on its own goroutine, keeps at most one request per kind in flight,
// commits successful results to the session and the accumulator, and delivers
// results to observers from a single goroutine.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/reddit-top/internal/metrics"
	"github.com/donaldgifford/reddit-top/internal/notify"
	"github.com/donaldgifford/reddit-top/internal/reddit"
	"github.com/donaldgifford/reddit-top/internal/session"
	"github.com/donaldgifford/reddit-top/internal/storage"
	domain "github.com/donaldgifford/reddit-top/pkg/types"
)

const tracerName = "github.com/donaldgifford/reddit-top/internal/engine"

// ErrClosed is returned by Await once the engine has been closed.
var ErrClosed = errors.New("engine closed")

// API is the Reddit API surface the engine drives.
type API interface {
	RequestToken(ctx context.Context, deviceID string) (*reddit.Token, error)
	Top(ctx context.Context, token, after string) (*domain.Page, error)
}

// Downloader writes a remote asset into a local directory and returns the
// absolute path of the new file.
type Downloader interface {
	Download(ctx context.Context, rawURL, destDir string) (string, error)
}

// request is the registry handle of one in-flight operation.
type request struct {
	kind    Kind
	cancel  context.CancelFunc
	started time.Time
}

// completion is handed from a request goroutine to Run. commit applies the
// result to shared state and runs only if req is still registered.
type completion struct {
	req    *request
	result Result
	commit func()
}

// Engine is the request coordinator.
type Engine struct {
	api        API
	downloader Downloader
	session    *session.Session
	store      *storage.Accumulator
	indexer    notify.MediaIndexer
	log        *slog.Logger
	tracer     trace.Tracer
	nowFunc    func() time.Time

	mu       sync.Mutex
	requests map[Kind]*request

	observers observerSet

	baseCtx   context.Context
	cancelAll context.CancelFunc
	done      chan completion
	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithMediaIndexer sets the sink told about downloaded files.
func WithMediaIndexer(n notify.MediaIndexer) Option {
	return func(e *Engine) {
		e.indexer = n
	}
}

// WithTracerProvider sets the provider spans are created from. The global
// provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) {
		e.tracer = tp.Tracer(tracerName)
	}
}

// WithNowFunc overrides the clock used for durations.
func WithNowFunc(fn func() time.Time) Option {
	return func(e *Engine) {
		e.nowFunc = fn
	}
}

// New creates an Engine. Results are delivered only while Run is running.
func New(
	api API,
	downloader Downloader,
	sess *session.Session,
	store *storage.Accumulator,
	opts ...Option,
) *Engine {
	ctx, cancel := context.WithCancel(context.Background())

	e := &Engine{
		api:        api,
		downloader: downloader,
		session:    sess,
		store:      store,
		log:        slog.Default(),
		tracer:     otel.Tracer(tracerName),
		nowFunc:    time.Now,
		requests:   make(map[Kind]*request),
		baseCtx:    ctx,
		cancelAll:  cancel,
		done:       make(chan completion),
		closed:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.indexer == nil {
		e.indexer = notify.NewNoOpIndexer(e.log)
	}
	return e
}

// Run delivers results to observers until ctx is done or the engine is
// closed. Commits to the session and the accumulator also happen here, so an
// observer always sees state that includes the result it is handed.
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case c := <-e.done:
			e.finish(c)
		case <-ctx.Done():
			return ctx.Err()
		case <-e.closed:
			return nil
		}
	}
}

// Close cancels every in-flight operation, stops Run and waits for request
// goroutines to exit. Operations started afterwards are ignored.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		close(e.closed)
		for _, req := range e.requests {
			e.evictLocked(req)
		}
		e.mu.Unlock()

		e.cancelAll()
	})
	e.wg.Wait()
}

// Authenticate obtains a new token for the session's device ID.
func (e *Engine) Authenticate() {
	deviceID := e.session.DeviceID()

	e.start(KindAuthenticate, nil, func(ctx context.Context) (Result, func()) {
		tok, err := e.api.RequestToken(ctx, deviceID)
		if err != nil {
			return Failed{Op: KindAuthenticate, Err: err}, nil
		}
		return Authenticated{}, func() {
			e.session.SetToken(tok.AccessToken, tok.ExpiresIn)
		}
	})
}

// FetchPage fetches the listing page following after. An empty after fetches
// the first page, which replaces the accumulated entries; any other value
// appends to them.
func (e *Engine) FetchPage(after string) {
	reset := after == ""
	attrs := []attribute.KeyValue{
		attribute.String("reddit.after", after),
		attribute.Bool("reddit.reset", reset),
	}

	e.start(KindFetchPage, attrs, func(ctx context.Context) (Result, func()) {
		token, _ := e.session.Token()

		page, err := e.api.Top(ctx, token, after)
		if err != nil {
			return Failed{Op: KindFetchPage, Err: err}, nil
		}
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.Int("reddit.entries", len(page.Entries)),
		)

		return PageFetched{Entries: page.Entries, After: page.After, Reset: reset}, func() {
			e.store.Append(page.Entries, page.After, reset)
		}
	})
}

// DownloadAsset downloads rawURL into destDir and reports the new file to the
// media indexer. Indexer failures are logged and do not fail the download.
func (e *Engine) DownloadAsset(rawURL, destDir string) {
	attrs := []attribute.KeyValue{attribute.String("download.url", rawURL)}

	e.start(KindDownloadAsset, attrs, func(ctx context.Context) (Result, func()) {
		path, err := e.downloader.Download(ctx, rawURL, destDir)
		if err != nil {
			return Failed{Op: KindDownloadAsset, Err: err}, nil
		}

		if ctx.Err() == nil {
			media := notify.Media{Path: path, SourceURL: rawURL}
			if err := e.indexer.MediaAdded(ctx, media); err != nil {
				metrics.MediaIndexFailuresTotal.Inc()
				e.log.Warn("media index notification failed", "path", path, "error", err)
			}
		}

		return AssetDownloaded{Path: path, URL: rawURL}, nil
	})
}

// Cancel cancels the in-flight operation of kind, if any. Its result is never
// delivered.
func (e *Engine) Cancel(kind Kind) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if req, ok := e.requests[kind]; ok {
		e.evictLocked(req)
	}
}

// IsAuthenticated reports whether the session holds a token.
func (e *Engine) IsAuthenticated() bool {
	return e.session.Authenticated()
}

// IsInFlight reports whether an operation of kind is registered. It turns
// false before observers are told the operation finished.
func (e *Engine) IsInFlight(kind Kind) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.requests[kind]
	return ok
}

// InFlight returns the kinds with a registered operation.
func (e *Engine) InFlight() []Kind {
	e.mu.Lock()
	defer e.mu.Unlock()

	kinds := make([]Kind, 0, len(e.requests))
	for _, k := range Kinds {
		if _, ok := e.requests[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Session returns the session the engine authenticates.
func (e *Engine) Session() *session.Session {
	return e.session
}

// Store returns the accumulator fetched pages are appended to.
func (e *Engine) Store() *storage.Accumulator {
	return e.store
}

func (e *Engine) start(
	kind Kind,
	attrs []attribute.KeyValue,
	work func(ctx context.Context) (Result, func()),
) {
	e.mu.Lock()
	select {
	case <-e.closed:
		e.mu.Unlock()
		e.log.Warn("engine closed, operation ignored", "kind", kind.String())
		return
	default:
	}

	ctx, cancel := context.WithCancel(e.baseCtx)
	req := &request{kind: kind, cancel: cancel, started: e.nowFunc()}

	if prev, ok := e.requests[kind]; ok {
		e.evictLocked(prev)
		e.log.Debug("superseded in-flight operation", "kind", kind.String())
	}
	e.requests[kind] = req
	metrics.OperationsInFlight.WithLabelValues(kind.String()).Set(1)
	e.wg.Add(1)
	e.mu.Unlock()

	go e.execute(ctx, req, attrs, work)
}

func (e *Engine) execute(
	ctx context.Context,
	req *request,
	attrs []attribute.KeyValue,
	work func(ctx context.Context) (Result, func()),
) {
	defer e.wg.Done()

	ctx, span := e.tracer.Start(ctx, "engine."+req.kind.String(),
		trace.WithAttributes(attrs...),
	)
	result, commit := work(ctx)
	if err := Err(result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	if ctx.Err() != nil {
		// Cancelled: the registry entry is already gone.
		return
	}

	select {
	case e.done <- completion{req: req, result: result, commit: commit}:
	case <-ctx.Done():
	case <-e.closed:
	}
}

// finish runs on the Run goroutine. A completion whose request is no longer
// registered was cancelled or superseded and is dropped.
func (e *Engine) finish(c completion) {
	kind := c.req.kind

	e.mu.Lock()
	if e.requests[kind] != c.req {
		e.mu.Unlock()
		e.log.Debug("dropping result of cancelled operation", "kind", kind.String())
		return
	}
	delete(e.requests, kind)
	metrics.OperationsInFlight.WithLabelValues(kind.String()).Set(0)
	e.mu.Unlock()
	c.req.cancel()

	if c.commit != nil {
		c.commit()
	}

	e.record(c.req, c.result)
	e.observers.notify(c.result)
}

func (e *Engine) record(req *request, result Result) {
	kind := req.kind.String()
	elapsed := e.nowFunc().Sub(req.started)

	metrics.OperationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())

	if err := Err(result); err != nil {
		metrics.OperationsTotal.WithLabelValues(kind, "failure").Inc()
		e.log.Error("operation failed", "kind", kind, "error", err)
		return
	}

	metrics.OperationsTotal.WithLabelValues(kind, "success").Inc()
	e.log.Info("operation completed", "kind", kind, "duration_ms", elapsed.Milliseconds())
}

func (e *Engine) evictLocked(req *request) {
	req.cancel()
	delete(e.requests, req.kind)
	metrics.OperationsInFlight.WithLabelValues(req.kind.String()).Set(0)
	metrics.OperationsCancelledTotal.WithLabelValues(req.kind.String()).Inc()
}
