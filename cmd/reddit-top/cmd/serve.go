package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/reddit-top/api/openapi"
	"github.com/donaldgifford/reddit-top/internal/api/handlers"
	mw "github.com/donaldgifford/reddit-top/internal/api/middleware"
	"github.com/donaldgifford/reddit-top/internal/app"
	"github.com/donaldgifford/reddit-top/internal/engine"
	"github.com/donaldgifford/reddit-top/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the engine behind the HTTP control API and scheduler",
		Long: "Authenticate, then keep the first listing page fresh on a schedule and\n" +
			"expose the engine over HTTP until interrupted.",
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := startApp(ctx)
	if err != nil {
		return err
	}

	cfg := a.Config
	log := a.Log

	sched, err := engine.NewScheduler(
		a.Engine,
		cfg.Schedule.RefreshInterval,
		cfg.Schedule.ReauthInterval,
		logger.Component(log, "scheduler"),
	)
	if err != nil {
		closeApp(context.Background(), a)
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := newServer(a)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	a.Engine.Authenticate()
	sched.Start()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down server")
	case serveErr = <-errCh:
		log.Error("server error", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	<-sched.Stop().Done()

	if err := e.Shutdown(shutdownCtx); err != nil {
		serveErr = errors.Join(serveErr, fmt.Errorf("shutting down server: %w", err))
	}
	if err := a.Close(shutdownCtx); err != nil {
		serveErr = errors.Join(serveErr, err)
	}

	log.Info("server stopped")
	return serveErr
}

// newServer builds the Echo instance with middleware, probes, metrics and
// the huma control API.
func newServer(a *app.App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	httpLog := logger.Component(a.Log, "http")
	e.Use(mw.Recovery(httpLog))
	e.Use(mw.RequestLog(httpLog))
	e.Use(mw.Metrics())

	health := handlers.NewHealthHandler(a.Engine)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("reddit-top API", Version))

	handlers.RegisterTriggerRoutes(api, handlers.NewTriggerHandler(a.Engine))
	handlers.RegisterDownloadRoutes(api, handlers.NewDownloadsHandler(a.Engine, a.Config.Download.Dir))
	handlers.RegisterStatusRoutes(api, handlers.NewStatusHandler(a.Engine, a.Session))
	handlers.RegisterListingRoutes(api, handlers.NewListingsHandler(a.Store, a.Config.Reddit.MaxEntries))
	handlers.RegisterQuotaRoutes(api, handlers.NewQuotaHandler(a.Transport.RateLimiter()))
	openapi.RegisterRoutes(e, api)

	return e
}
