// Package notify delivers "media added" events for downloaded assets to an
// external sink.
package notify

import (
	"context"
)

// Media describes a file written by a completed download.
type Media struct {
	Path      string
	SourceURL string
}

// MediaIndexer is told about every file a download adds to the local media
// directory.
type MediaIndexer interface {
	MediaAdded(ctx context.Context, m Media) error
}
