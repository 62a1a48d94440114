package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/reddit-top/internal/transport"
)

// QuotaHandler provides the Reddit API quota status endpoint.
type QuotaHandler struct {
	rl *transport.RateLimiter
}

// NewQuotaHandler creates a new QuotaHandler.
func NewQuotaHandler(rl *transport.RateLimiter) *QuotaHandler {
	return &QuotaHandler{rl: rl}
}

// QuotaOutput is the response body for the quota endpoint.
type QuotaOutput struct {
	Body struct {
		Known     bool       `json:"known"              example:"true"                 doc:"Whether the server has reported a rate limit window yet"`
		Used      int        `json:"used"               example:"42"                   doc:"Requests used in the current window"`
		Remaining int        `json:"remaining"          example:"558"                  doc:"Requests remaining in the current window"`
		ResetAt   *time.Time `json:"reset_at,omitempty" example:"2025-06-16T14:30:00Z" doc:"When the current window resets"`
	}
}

// GetQuota returns the last server-reported rate limit window.
func (h *QuotaHandler) GetQuota(_ context.Context, _ *struct{}) (*QuotaOutput, error) {
	resp := &QuotaOutput{}
	if h.rl == nil {
		return resp, nil
	}

	q := h.rl.Quota()
	resp.Body.Known = q.Known
	resp.Body.Used = q.Used
	resp.Body.Remaining = q.Remaining
	if q.Known {
		resetAt := q.ResetAt
		resp.Body.ResetAt = &resetAt
	}

	return resp, nil
}

// RegisterQuotaRoutes registers the quota endpoint with the Huma API.
func RegisterQuotaRoutes(api huma.API, h *QuotaHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-quota",
		Method:      http.MethodGet,
		Path:        "/api/v1/quota",
		Summary:     "Get Reddit API quota status",
		Description: "Returns the rate limit window last reported by the X-Ratelimit response headers.",
		Tags:        []string{"reddit"},
	}, h.GetQuota)
}
