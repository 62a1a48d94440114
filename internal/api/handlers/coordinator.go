// Package handlers implements the reddit-top control API: plain echo
// probes plus huma operations that start engine work and report its state.
package handlers

import (
	"github.com/donaldgifford/reddit-top/internal/engine"
)

// Coordinator is the engine surface the API drives. Every operation starts
// asynchronously; results reach the engine's observers.
type Coordinator interface {
	Authenticate()
	Refresh()
	FetchNextPage() bool
	DownloadAsset(rawURL, destDir string)
	IsAuthenticated() bool
	InFlight() []engine.Kind
}
