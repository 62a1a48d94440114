package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/reddit-top/internal/metrics"
)

// Recovery returns Echo middleware that turns a handler panic into a 500,
// logging the stack and the request ID.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				buf := make([]byte, 4096)
				n := runtime.Stack(buf, false)

				metrics.PanicsRecoveredTotal.Inc()
				log.Error("panic recovered",
					"error", fmt.Sprint(r),
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"request_id", RequestID(c),
					"stack", string(buf[:n]),
				)

				err = c.JSON(http.StatusInternalServerError, map[string]string{
					"error": "internal server error",
				})
			}()
			return next(c)
		}
	}
}
