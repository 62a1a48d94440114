// Package app builds the single application context that owns the session,
// the accumulator and the engine, and hands them to the CLI and the HTTP
// surface.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/reddit-top/internal/config"
	"github.com/donaldgifford/reddit-top/internal/engine"
	"github.com/donaldgifford/reddit-top/internal/notify"
	"github.com/donaldgifford/reddit-top/internal/reddit"
	"github.com/donaldgifford/reddit-top/internal/session"
	"github.com/donaldgifford/reddit-top/internal/storage"
	"github.com/donaldgifford/reddit-top/internal/tracing"
	"github.com/donaldgifford/reddit-top/internal/transport"
	"github.com/donaldgifford/reddit-top/pkg/logger"
)

// App is the application context.
type App struct {
	Config    *config.Config
	Log       *slog.Logger
	Session   *session.Session
	Store     *storage.Accumulator
	Transport *transport.Client
	Reddit    *reddit.Client
	Indexer   notify.MediaIndexer
	Engine    *engine.Engine

	tracer   trace.TracerProvider
	shutdown tracing.ShutdownFunc

	runCancel context.CancelFunc
	runDone   chan struct{}
	closeOnce sync.Once
}

// Option configures the App.
type Option func(*options)

type options struct {
	log      *slog.Logger
	session  *session.Session
	indexer  notify.MediaIndexer
	tracerTP trace.TracerProvider
}

// WithLogger overrides the logger built from the logging config.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithSession supplies an existing session, e.g. one with a fixed device ID.
func WithSession(s *session.Session) Option {
	return func(o *options) {
		o.session = s
	}
}

// WithMediaIndexer overrides the indexer built from the notifications config.
func WithMediaIndexer(n notify.MediaIndexer) Option {
	return func(o *options) {
		o.indexer = n
	}
}

// WithTracerProvider skips tracing setup and uses tp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerTP = tp
	}
}

// New wires every component from cfg. The engine does not deliver results
// until Start is called.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	log := o.log
	if log == nil {
		log = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	a := &App{
		Config:   cfg,
		Log:      log,
		shutdown: func(context.Context) error { return nil },
	}

	a.tracer = o.tracerTP
	if a.tracer == nil {
		tp, shutdown, err := tracing.Setup(ctx, cfg.Tracing)
		if err != nil {
			return nil, fmt.Errorf("setting up tracing: %w", err)
		}
		a.tracer = tp
		a.shutdown = shutdown
	}

	a.Session = o.session
	if a.Session == nil {
		a.Session = session.New()
	}
	a.Store = storage.New()

	a.Transport = transport.New(
		transport.WithTimeout(cfg.Reddit.Timeout),
		transport.WithBufferSize(cfg.Download.BufferSize),
		transport.WithRateLimiter(transport.NewRateLimiter(
			cfg.Reddit.RateLimit.PerSecond,
			cfg.Reddit.RateLimit.Burst,
		)),
		transport.WithLogger(logger.Component(log, "transport")),
	)

	a.Reddit = reddit.NewClient(
		a.Transport,
		reddit.WithBaseURL(cfg.Reddit.BaseURL),
		reddit.WithOAuthURL(cfg.Reddit.OAuthURL),
		reddit.WithCredentials(cfg.Reddit.ClientID, cfg.Reddit.ClientSecret),
		reddit.WithUserAgent(cfg.Reddit.UserAgent),
		reddit.WithTimeWindow(cfg.Reddit.TimeWindow),
		reddit.WithPageSize(cfg.Reddit.PageSize),
	)

	a.Indexer = o.indexer
	if a.Indexer == nil {
		a.Indexer = newIndexer(cfg.Notifications, log)
	}

	a.Engine = engine.New(
		a.Reddit,
		a.Transport,
		a.Session,
		a.Store,
		engine.WithLogger(logger.Component(log, "engine")),
		engine.WithMediaIndexer(a.Indexer),
		engine.WithTracerProvider(a.tracer),
	)

	return a, nil
}

func newIndexer(cfg config.NotificationsConfig, log *slog.Logger) notify.MediaIndexer {
	if cfg.Discord.Enabled && cfg.Discord.WebhookURL != "" {
		log.Info("discord media notifications enabled")
		return notify.NewDiscordIndexer(cfg.Discord.WebhookURL)
	}
	return notify.NewNoOpIndexer(log)
}

// Start runs the engine's delivery loop in the background.
func (a *App) Start(ctx context.Context) {
	if a.runCancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	a.runCancel = cancel
	a.runDone = make(chan struct{})

	go func() {
		defer close(a.runDone)
		if err := a.Engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.Log.Error("engine loop stopped", "error", err)
		}
	}()
}

// Paginator returns a paginator bounded by the configured max entries.
func (a *App) Paginator(maxPages int) *engine.Paginator {
	return engine.NewPaginator(a.Engine,
		engine.WithMaxPages(maxPages),
		engine.WithMaxEntries(a.Config.Reddit.MaxEntries),
		engine.WithPaginatorLogger(logger.Component(a.Log, "paginator")),
	)
}

// Close stops the engine, cancelling in-flight operations, and flushes
// tracing.
func (a *App) Close(ctx context.Context) error {
	var err error
	a.closeOnce.Do(func() {
		a.Engine.Close()
		if a.runCancel != nil {
			a.runCancel()
			<-a.runDone
		}
		if shutdownErr := a.shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("shutting down tracing: %w", shutdownErr)
		}
	})
	return err
}
