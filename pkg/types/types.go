// Package domain defines the core types shared by the reddit-top client.
package domain

import (
	"strings"
	"time"
)

// Entry is one post returned by the listing endpoint. Entries are built once
// from a response and never mutated afterwards.
type Entry struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	CreatedUTC  int64  `json:"created_utc"`
	NumComments int    `json:"num_comments"`
}

// HasThumbnail reports whether the entry carries a fetchable thumbnail.
// Reddit uses placeholder values such as "self", "default" and "nsfw" for
// posts without an image.
func (e *Entry) HasThumbnail() bool {
	return strings.HasPrefix(e.Thumbnail, "http://") ||
		strings.HasPrefix(e.Thumbnail, "https://")
}

// Created returns the creation time of the entry in UTC.
func (e *Entry) Created() time.Time {
	return time.Unix(e.CreatedUTC, 0).UTC()
}

// HoursAgo returns the whole number of hours between creation and now.
func (e *Entry) HoursAgo(now time.Time) int64 {
	return (now.Unix() - e.CreatedUTC) / 3600
}

// Page is one cursor-bearing batch returned by the listing endpoint.
type Page struct {
	Entries []Entry `json:"entries"`
	// After is the cursor of the next page. Empty means there are no more pages.
	After string `json:"after,omitempty"`
	// Before is passed through untouched.
	Before string `json:"before,omitempty"`
}

// HasNext reports whether another page can be requested after this one.
func (p *Page) HasNext() bool {
	return p.After != ""
}
