package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/reddit-top/internal/metrics"
)

// StatusResponse is the probe response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// ReadinessChecker reports whether the service can serve listings.
type ReadinessChecker interface {
	IsAuthenticated() bool
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	ready ReadinessChecker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(r ReadinessChecker) *HealthHandler {
	return &HealthHandler{ready: r}
}

// Healthz returns 200 if the process is running.
//
// @Summary Liveness check
// @Description Returns 200 if the process is running.
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /healthz [get]
func (*HealthHandler) Healthz(c echo.Context) error {
	metrics.HealthzUp.Set(1)
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 once the session holds a token, 503 otherwise.
//
// @Summary Readiness check
// @Description Returns 200 once authenticated against Reddit, 503 otherwise.
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 503 {object} StatusResponse
// @Router /readyz [get]
func (h *HealthHandler) Readyz(c echo.Context) error {
	if !h.ready.IsAuthenticated() {
		metrics.ReadyzUp.Set(0)
		return c.JSON(
			http.StatusServiceUnavailable,
			StatusResponse{Status: "unavailable"},
		)
	}
	metrics.ReadyzUp.Set(1)
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
