package notify

import (
	"context"
	"log/slog"
)

// NoOpIndexer implements MediaIndexer by logging the event. It is used when
// no media sink is configured.
type NoOpIndexer struct {
	log *slog.Logger
}

// NewNoOpIndexer creates an indexer that only logs.
func NewNoOpIndexer(log *slog.Logger) *NoOpIndexer {
	return &NoOpIndexer{log: log}
}

// MediaAdded logs and discards the event.
func (n *NoOpIndexer) MediaAdded(_ context.Context, m Media) error {
	n.log.Debug("media added (no sink configured)",
		"path", m.Path,
		"source", m.SourceURL,
	)
	return nil
}
