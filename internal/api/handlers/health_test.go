package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/reddit-top/internal/api/handlers"
)

func TestHealthz(t *testing.T) {
	t.Parallel()

	h := handlers.NewHealthHandler(&fakeCoordinator{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Healthz(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		authenticated bool
		wantStatus    int
		wantBody      string
	}{
		{
			name:          "authenticated is ready",
			authenticated: true,
			wantStatus:    http.StatusOK,
			wantBody:      `{"status":"ready"}`,
		},
		{
			name:       "unauthenticated is unavailable",
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewHealthHandler(&fakeCoordinator{authenticated: tt.authenticated})

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, h.Readyz(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
