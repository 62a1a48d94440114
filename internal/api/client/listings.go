package client

import (
	"context"
	"net/url"
	"strconv"
)

// Entry mirrors one listing entry in API responses.
type Entry struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	CreatedUTC   int64  `json:"created_utc"`
	HoursAgo     int64  `json:"hours_ago"`
	NumComments  int    `json:"num_comments"`
	HasThumbnail bool   `json:"has_thumbnail"`
}

// ListingsResponse mirrors GET /api/v1/listings.
type ListingsResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	After   string  `json:"after,omitempty"`
	HasMore bool    `json:"has_more"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}

// ListListingsParams defines query parameters for listing queries.
type ListListingsParams struct {
	Limit  int
	Offset int
}

// ListListings returns the entries the server has accumulated.
func (c *Client) ListListings(
	ctx context.Context,
	params *ListListingsParams,
) (*ListingsResponse, error) {
	q := url.Values{}
	if params != nil {
		if params.Limit > 0 {
			q.Set("limit", strconv.Itoa(params.Limit))
		}
		if params.Offset > 0 {
			q.Set("offset", strconv.Itoa(params.Offset))
		}
	}

	path := "/api/v1/listings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListingsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
