package app_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/donaldgifford/reddit-top/internal/app"
	"github.com/donaldgifford/reddit-top/internal/config"
	"github.com/donaldgifford/reddit-top/internal/engine"
	"github.com/donaldgifford/reddit-top/internal/notify"
	"github.com/donaldgifford/reddit-top/internal/session"
	"github.com/donaldgifford/reddit-top/pkg/logger"
)

func newFakeReddit(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/access_token", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"abc123","expires_in":3600}`))
	})
	mux.HandleFunc("GET /top", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "bearer abc123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		after := "t3_1"
		if r.URL.Query().Get("after") != "" {
			after = ""
		}
		var children string
		for i := range 3 {
			if i > 0 {
				children += ","
			}
			children += fmt.Sprintf(`{"data":{"title":"post %d","author":"a","created_utc":%d}}`, i, 1718445600+i)
		}
		afterJSON := "null"
		if after != "" {
			afterJSON = `"` + after + `"`
		}
		_, _ = fmt.Fprintf(w, `{"data":{"after":%s,"children":[%s]}}`, afterJSON, children)
	})
	mux.HandleFunc("GET /img/cat.jpg", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("jpeg-bytes"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type recordingIndexer struct {
	media chan notify.Media
}

func (r *recordingIndexer) MediaAdded(_ context.Context, m notify.Media) error {
	r.media <- m
	return nil
}

func newTestApp(t *testing.T, srvURL string, opts ...app.Option) *app.App {
	t.Helper()

	cfg := config.Default()
	cfg.Reddit.BaseURL = srvURL
	cfg.Reddit.OAuthURL = srvURL
	cfg.Reddit.RateLimit.PerSecond = 100
	cfg.Download.Dir = t.TempDir()

	base := []app.Option{
		app.WithLogger(logger.Discard()),
		app.WithTracerProvider(noop.NewTracerProvider()),
	}
	a, err := app.New(context.Background(), cfg, append(base, opts...)...)
	require.NoError(t, err)

	a.Start(context.Background())
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func TestApp_AuthenticateAndPaginate(t *testing.T) {
	t.Parallel()

	srv := newFakeReddit(t)
	a := newTestApp(t, srv.URL, app.WithSession(session.New(session.WithDeviceID("device-1"))))
	ctx := context.Background()

	r, err := a.Engine.Await(ctx, engine.KindAuthenticate, a.Engine.Authenticate)
	require.NoError(t, err)
	require.NoError(t, engine.Err(r))
	assert.True(t, a.Engine.IsAuthenticated())
	assert.Equal(t, "device-1", a.Session.DeviceID())

	res, err := a.Paginator(5).Paginate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.PagesUsed)
	assert.Equal(t, engine.StoppedNoMoreResults, res.StoppedAt)
	assert.Equal(t, 6, a.Store.Len())
	assert.Empty(t, a.Store.After())
}

func TestApp_Download(t *testing.T) {
	t.Parallel()

	srv := newFakeReddit(t)
	idx := &recordingIndexer{media: make(chan notify.Media, 1)}
	a := newTestApp(t, srv.URL, app.WithMediaIndexer(idx))

	dir := a.Config.Download.Dir
	r, err := a.Engine.Await(context.Background(), engine.KindDownloadAsset, func() {
		a.Engine.DownloadAsset(srv.URL+"/img/cat.jpg", dir)
	})
	require.NoError(t, err)

	downloaded, ok := r.(engine.AssetDownloaded)
	require.True(t, ok, "got %T: %v", r, engine.Err(r))
	assert.Equal(t, filepath.Join(dir, "cat.jpg"), downloaded.Path)

	data, err := os.ReadFile(downloaded.Path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	m := <-idx.media
	assert.Equal(t, downloaded.Path, m.Path)
}

func TestApp_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	a, err := app.New(context.Background(), cfg,
		app.WithLogger(logger.Discard()),
		app.WithTracerProvider(noop.NewTracerProvider()),
	)
	require.NoError(t, err)

	a.Start(context.Background())
	require.NoError(t, a.Close(context.Background()))
	require.NoError(t, a.Close(context.Background()))

	_, err = a.Engine.Await(context.Background(), engine.KindAuthenticate, a.Engine.Authenticate)
	require.ErrorIs(t, err, engine.ErrClosed)
}

func TestNew_DiscordIndexer(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Notifications.Discord.Enabled = true
	cfg.Notifications.Discord.WebhookURL = "https://discord.invalid/webhook"

	a, err := app.New(context.Background(), cfg,
		app.WithLogger(logger.Discard()),
		app.WithTracerProvider(noop.NewTracerProvider()),
	)
	require.NoError(t, err)
	defer func() { _ = a.Close(context.Background()) }()

	assert.IsType(t, &notify.DiscordIndexer{}, a.Indexer)
}
