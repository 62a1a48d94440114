package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/donaldgifford/reddit-top/internal/app"
	"github.com/donaldgifford/reddit-top/internal/config"
	"github.com/donaldgifford/reddit-top/pkg/logger"
)

func TestNewServer(t *testing.T) {
	t.Parallel()

	a, err := app.New(context.Background(), config.Default(),
		app.WithLogger(logger.Discard()),
		app.WithTracerProvider(noop.NewTracerProvider()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	e := newServer(a)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "liveness",
			method:     http.MethodGet,
			path:       "/healthz",
			wantStatus: http.StatusOK,
			wantBody:   `"ok"`,
		},
		{
			name:       "not ready before authentication",
			method:     http.MethodGet,
			path:       "/readyz",
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `"unavailable"`,
		},
		{
			name:       "status",
			method:     http.MethodGet,
			path:       "/api/v1/status",
			wantStatus: http.StatusOK,
			wantBody:   `"authenticated":false`,
		},
		{
			name:       "empty listing",
			method:     http.MethodGet,
			path:       "/api/v1/listings",
			wantStatus: http.StatusOK,
			wantBody:   `"total":0`,
		},
		{
			name:       "refresh requires a token",
			method:     http.MethodPost,
			path:       "/api/v1/listings/refresh",
			wantStatus: http.StatusConflict,
			wantBody:   "not authenticated",
		},
		{
			name:       "quota before any request",
			method:     http.MethodGet,
			path:       "/api/v1/quota",
			wantStatus: http.StatusOK,
			wantBody:   `"known":false`,
		},
		{
			name:       "openapi document",
			method:     http.MethodGet,
			path:       "/openapi.json",
			wantStatus: http.StatusOK,
			wantBody:   "list-listings",
		},
		{
			name:       "swagger spec",
			method:     http.MethodGet,
			path:       "/swagger/swagger.json",
			wantStatus: http.StatusOK,
			wantBody:   "start-download",
		},
		{
			name:       "prometheus metrics",
			method:     http.MethodGet,
			path:       "/metrics",
			wantStatus: http.StatusOK,
			wantBody:   "reddit_top_",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestNewServer_RequestIDEchoed(t *testing.T) {
	t.Parallel()

	a, err := app.New(context.Background(), config.Default(),
		app.WithLogger(logger.Discard()),
		app.WithTracerProvider(noop.NewTracerProvider()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	newServer(a).ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestNewServer_DownloadStaysInDownloadDir(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	keep := filepath.Join(outside, "authorized_keys")
	require.NoError(t, os.WriteFile(keep, []byte("OWNER"), 0o600))

	cfg := config.Default()
	cfg.Download.Dir = t.TempDir()

	a, err := app.New(context.Background(), cfg,
		app.WithLogger(logger.Discard()),
		app.WithTracerProvider(noop.NewTracerProvider()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	e := newServer(a)

	for _, dir := range []string{outside, "../" + filepath.Base(outside)} {
		body := `{"url":"http://127.0.0.1:1/authorized_keys","dir":"` + dir + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/downloads", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, dir)
		assert.Contains(t, rec.Body.String(), "download directory", dir)
	}

	got, err := os.ReadFile(keep)
	require.NoError(t, err)
	assert.Equal(t, "OWNER", string(got))
}
