package reddit

import (
	"encoding/json"
	"errors"

	domain "github.com/donaldgifford/reddit-top/pkg/types"
)

func parseListing(body string) (*domain.Page, error) {
	var resp listingResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, &ParseError{Op: "listing", Err: err}
	}
	if resp.Data == nil {
		return nil, &ParseError{Op: "listing", Err: errors.New("missing data object")}
	}

	return &domain.Page{
		Entries: toEntries(resp.Data.Children),
		After:   deref(resp.Data.After),
		Before:  deref(resp.Data.Before),
	}, nil
}

// toEntries converts listing children into domain entries, preserving order.
// The result is never nil so an empty page is distinguishable from no page.
func toEntries(children []listingChild) []domain.Entry {
	entries := make([]domain.Entry, 0, len(children))
	for i := range children {
		entries = append(entries, toEntry(&children[i].Data))
	}
	return entries
}

func toEntry(d *entryData) domain.Entry {
	return domain.Entry{
		Title:       d.Title,
		Author:      d.Author,
		Thumbnail:   d.Thumbnail,
		CreatedUTC:  int64(d.CreatedUTC),
		NumComments: d.NumComments,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
