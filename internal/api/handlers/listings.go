package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/reddit-top/internal/storage"
)

// ListingReader reads the accumulated listing.
type ListingReader interface {
	Snapshot() storage.Snapshot
}

// ListingsHandler serves the accumulated listing.
type ListingsHandler struct {
	store      ListingReader
	maxEntries int
	nowFunc    func() time.Time
}

// NewListingsHandler creates a new ListingsHandler. maxEntries bounds
// has_more the same way the paginator does.
func NewListingsHandler(r ListingReader, maxEntries int) *ListingsHandler {
	return &ListingsHandler{store: r, maxEntries: maxEntries, nowFunc: time.Now}
}

// ListListingsInput is the input for listing accumulated entries.
type ListListingsInput struct {
	Limit  int `query:"limit"  doc:"Number of entries (default all)" minimum:"0" maximum:"1000"`
	Offset int `query:"offset" doc:"Pagination offset"              minimum:"0"`
}

// EntryView is one listing entry in API responses.
type EntryView struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	CreatedUTC   int64  `json:"created_utc"`
	HoursAgo     int64  `json:"hours_ago"`
	NumComments  int    `json:"num_comments"`
	HasThumbnail bool   `json:"has_thumbnail"`
}

// ListListingsOutput is the response for listing accumulated entries.
type ListListingsOutput struct {
	Body struct {
		Entries []EntryView `json:"entries"`
		Total   int         `json:"total"`
		After   string      `json:"after,omitempty"`
		HasMore bool        `json:"has_more"`
		Limit   int         `json:"limit"`
		Offset  int         `json:"offset"`
	}
}

// ListListings returns accumulated entries in arrival order.
func (h *ListingsHandler) ListListings(
	_ context.Context,
	input *ListListingsInput,
) (*ListListingsOutput, error) {
	snap := h.store.Snapshot()
	now := h.nowFunc()

	start := min(input.Offset, len(snap.Entries))
	end := len(snap.Entries)
	if input.Limit > 0 {
		end = min(start+input.Limit, end)
	}

	resp := &ListListingsOutput{}
	resp.Body.Entries = make([]EntryView, 0, end-start)
	for _, e := range snap.Entries[start:end] {
		resp.Body.Entries = append(resp.Body.Entries, EntryView{
			Title:        e.Title,
			Author:       e.Author,
			Thumbnail:    e.Thumbnail,
			CreatedUTC:   e.CreatedUTC,
			HoursAgo:     e.HoursAgo(now),
			NumComments:  e.NumComments,
			HasThumbnail: e.HasThumbnail(),
		})
	}
	resp.Body.Total = len(snap.Entries)
	resp.Body.After = snap.After
	resp.Body.HasMore = snap.HasMore(h.maxEntries)
	resp.Body.Limit = input.Limit
	resp.Body.Offset = input.Offset

	return resp, nil
}

// RegisterListingRoutes registers listing endpoints with the Huma API.
func RegisterListingRoutes(api huma.API, h *ListingsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-listings",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings",
		Summary:     "List accumulated entries",
		Description: "Returns the entries fetched so far in arrival order, with the current cursor.",
		Tags:        []string{"listings"},
	}, h.ListListings)
}
