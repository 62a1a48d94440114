package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// probePaths are logged on their first success and on every failure.
var probePaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestID returns the request ID stored by RequestLog, or "".
func RequestID(c echo.Context) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}

// RequestLog returns Echo middleware that logs each request with a request
// ID, taken from X-Request-ID or generated. Repeated successful probes are
// not logged; failed requests are logged at warn.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var seen sync.Map

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set(requestIDKey, reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			path := c.Request().URL.Path
			status := c.Response().Status
			failed := status >= 400 || err != nil

			if _, probe := probePaths[path]; probe && !failed {
				if _, loaded := seen.LoadOrStore(path, struct{}{}); loaded {
					return err
				}
			}

			level := slog.LevelInfo
			if failed {
				level = slog.LevelWarn
			}

			log.Log(c.Request().Context(), level, "request",
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)

			return err
		}
	}
}
