// Package middleware provides Echo middleware for the reddit-top control API.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/reddit-top/internal/metrics"
)

// unmeteredPaths are excluded from the request histogram and counter.
var unmeteredPaths = map[string]struct{}{
	"/metrics": {},
	"/healthz": {},
	"/readyz":  {},
}

var probeGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

// Metrics returns Echo middleware that records request duration and status
// by route template. Probe paths only update their up gauges.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}

			if _, skip := unmeteredPaths[route]; skip {
				err := next(c)
				setProbeGauge(route, c.Response().Status)
				return err
			}

			start := time.Now()
			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method

			metrics.HTTPRequestDuration.
				WithLabelValues(method, route, status).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, route, status).
				Inc()

			return err
		}
	}
}

func setProbeGauge(path string, status int) {
	gauge, ok := probeGauges[path]
	if !ok {
		return
	}
	if status >= 200 && status < 300 {
		gauge.Set(1)
		return
	}
	gauge.Set(0)
}
