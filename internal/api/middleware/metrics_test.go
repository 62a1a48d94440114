package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mw "github.com/donaldgifford/reddit-top/internal/api/middleware"
	"github.com/donaldgifford/reddit-top/internal/metrics"
)

func TestMetricsMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		route      string
		target     string
		handler    echo.HandlerFunc
		wantStatus int
	}{
		{
			name:   "records 200 response",
			method: http.MethodGet,
			route:  "/api/v1/listings",
			target: "/api/v1/listings",
			handler: func(c echo.Context) error {
				return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "records 409 response",
			method: http.MethodPost,
			route:  "/api/v1/listings/next",
			target: "/api/v1/listings/next",
			handler: func(c echo.Context) error {
				return c.NoContent(http.StatusConflict)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "labels by route template",
			method: http.MethodGet,
			route:  "/api/v1/things/:id",
			target: "/api/v1/things/42",
			handler: func(c echo.Context) error {
				return c.NoContent(http.StatusAccepted)
			},
			wantStatus: http.StatusAccepted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Use(mw.Metrics())
			e.Add(tt.method, tt.route, tt.handler)

			req := httptest.NewRequest(tt.method, tt.target, http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			statusStr := strconv.Itoa(tt.wantStatus)

			counter, err := metrics.HTTPRequestsTotal.GetMetricWithLabelValues(
				tt.method, tt.route, statusStr,
			)
			require.NoError(t, err)

			m := &io_prometheus_client.Metric{}
			require.NoError(t, counter.Write(m))
			assert.Greater(t, m.GetCounter().GetValue(), float64(0))

			observer, err := metrics.HTTPRequestDuration.GetMetricWithLabelValues(
				tt.method, tt.route, statusStr,
			)
			require.NoError(t, err)

			hm := &io_prometheus_client.Metric{}
			require.NoError(t, observer.(prometheus.Metric).Write(hm))
			assert.Positive(t, hm.GetHistogram().GetSampleCount())
		})
	}
}

func TestMetricsMiddleware_ProbeGauge(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   float64
	}{
		{name: "ready", status: http.StatusOK, want: 1},
		{name: "not ready", status: http.StatusServiceUnavailable, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Use(mw.Metrics())
			e.GET("/readyz", func(c echo.Context) error {
				return c.NoContent(tt.status)
			})

			req := httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			m := &io_prometheus_client.Metric{}
			require.NoError(t, metrics.ReadyzUp.Write(m))
			assert.InDelta(t, tt.want, m.GetGauge().GetValue(), 0.0001)

			_, err := metrics.HTTPRequestsTotal.GetMetricWithLabelValues(
				http.MethodGet, "/readyz", strconv.Itoa(tt.status),
			)
			require.NoError(t, err)
		})
	}
}
