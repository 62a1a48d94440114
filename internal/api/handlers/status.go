package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// SessionInfo exposes session details for the status endpoint.
type SessionInfo interface {
	DeviceID() string
	ExpiresAt() time.Time
}

// StatusHandler reports engine and session state.
type StatusHandler struct {
	engine  Coordinator
	session SessionInfo
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(c Coordinator, s SessionInfo) *StatusHandler {
	return &StatusHandler{engine: c, session: s}
}

// StatusOutput is the response body for the status endpoint.
type StatusOutput struct {
	Body struct {
		Authenticated  bool       `json:"authenticated"              doc:"Whether the session holds a token"`
		DeviceID       string     `json:"device_id"                  doc:"Device identifier sent with token requests"`
		TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" doc:"When the current token expires, if reported"`
		InFlight       []string   `json:"in_flight"                  doc:"Operation kinds currently in flight"`
	}
}

// GetStatus returns the current engine state.
func (h *StatusHandler) GetStatus(_ context.Context, _ *struct{}) (*StatusOutput, error) {
	resp := &StatusOutput{}
	resp.Body.Authenticated = h.engine.IsAuthenticated()
	resp.Body.DeviceID = h.session.DeviceID()

	if exp := h.session.ExpiresAt(); !exp.IsZero() && resp.Body.Authenticated {
		resp.Body.TokenExpiresAt = &exp
	}

	kinds := h.engine.InFlight()
	resp.Body.InFlight = make([]string, 0, len(kinds))
	for _, k := range kinds {
		resp.Body.InFlight = append(resp.Body.InFlight, k.String())
	}

	return resp, nil
}

// RegisterStatusRoutes registers the status endpoint with the Huma API.
func RegisterStatusRoutes(api huma.API, h *StatusHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/api/v1/status",
		Summary:     "Get engine status",
		Description: "Returns authentication state and the operation kinds in flight.",
		Tags:        []string{"engine"},
	}, h.GetStatus)
}
