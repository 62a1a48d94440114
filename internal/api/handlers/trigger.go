package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// TriggerHandler starts engine operations on request.
type TriggerHandler struct {
	engine Coordinator
}

// NewTriggerHandler creates a new TriggerHandler.
func NewTriggerHandler(c Coordinator) *TriggerHandler {
	return &TriggerHandler{engine: c}
}

// AcceptedOutput is the response body for asynchronous operations.
type AcceptedOutput struct {
	Body struct {
		Status string `json:"status" example:"authentication started" doc:"What was started"`
	}
}

func accepted(status string) *AcceptedOutput {
	resp := &AcceptedOutput{}
	resp.Body.Status = status
	return resp
}

// Authenticate starts a token request, replacing one already in flight.
func (h *TriggerHandler) Authenticate(_ context.Context, _ *struct{}) (*AcceptedOutput, error) {
	h.engine.Authenticate()
	return accepted("authentication started"), nil
}

// Refresh starts a first-page fetch that replaces the accumulated listing.
func (h *TriggerHandler) Refresh(_ context.Context, _ *struct{}) (*AcceptedOutput, error) {
	if !h.engine.IsAuthenticated() {
		return nil, huma.Error409Conflict("not authenticated")
	}
	h.engine.Refresh()
	return accepted("refresh started"), nil
}

// Next starts a fetch of the page after the accumulated cursor.
func (h *TriggerHandler) Next(_ context.Context, _ *struct{}) (*AcceptedOutput, error) {
	if !h.engine.IsAuthenticated() {
		return nil, huma.Error409Conflict("not authenticated")
	}
	if !h.engine.FetchNextPage() {
		return nil, huma.Error409Conflict("no next page")
	}
	return accepted("next page started"), nil
}

// RegisterTriggerRoutes registers the operation endpoints with the Huma API.
func RegisterTriggerRoutes(api huma.API, h *TriggerHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "authenticate",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth",
		Summary:       "Authenticate",
		Description:   "Requests a new installed-client token for the session device ID.",
		Tags:          []string{"engine"},
		DefaultStatus: http.StatusAccepted,
	}, h.Authenticate)

	huma.Register(api, huma.Operation{
		OperationID:   "refresh-listings",
		Method:        http.MethodPost,
		Path:          "/api/v1/listings/refresh",
		Summary:       "Refresh listings",
		Description:   "Fetches the first page of the top listing, replacing accumulated entries.",
		Tags:          []string{"listings"},
		DefaultStatus: http.StatusAccepted,
		Errors:        []int{http.StatusConflict},
	}, h.Refresh)

	huma.Register(api, huma.Operation{
		OperationID:   "next-listings",
		Method:        http.MethodPost,
		Path:          "/api/v1/listings/next",
		Summary:       "Fetch next page",
		Description:   "Fetches the page after the current cursor and appends it.",
		Tags:          []string{"listings"},
		DefaultStatus: http.StatusAccepted,
		Errors:        []int{http.StatusConflict},
	}, h.Next)
}
