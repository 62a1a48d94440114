// Package storage holds the listing entries accumulated across page fetches
// together with the cursor of the most recent page.
package storage

import (
	"sync"

	"github.com/donaldgifford/reddit-top/internal/metrics"
	domain "github.com/donaldgifford/reddit-top/pkg/types"
)

// Snapshot is a consistent view of the accumulator.
type Snapshot struct {
	Entries []domain.Entry
	After   string
}

// HasMore reports whether the snapshot has a cursor and fewer than
// maxEntries entries. maxEntries <= 0 means no cap.
func (s Snapshot) HasMore(maxEntries int) bool {
	if s.After == "" {
		return false
	}
	return maxEntries <= 0 || len(s.Entries) < maxEntries
}

// Accumulator is an ordered, append-only collection of entries plus a
// pagination cursor. Reads are safe from any goroutine and never observe a
// partially applied Append.
type Accumulator struct {
	mu      sync.RWMutex
	entries []domain.Entry
	after   string
}

// New creates an empty Accumulator.
func New() *Accumulator {
	return &Accumulator{}
}

// Append adds entries after the existing ones, or in place of them when reset
// is set. The cursor is replaced with after in both cases.
func (a *Accumulator) Append(entries []domain.Entry, after string, reset bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	base := a.entries
	if reset {
		base = nil
	}

	// A fresh backing array keeps slices handed out by Entries unchanged.
	next := make([]domain.Entry, 0, len(base)+len(entries))
	next = append(next, base...)
	next = append(next, entries...)

	a.entries = next
	a.after = after

	metrics.AccumulatedEntries.Set(float64(len(next)))
}

// Entries returns the accumulated entries. It returns nil before the first
// Append. Callers must not modify the returned slice.
func (a *Accumulator) Entries() []domain.Entry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.entries
}

// After returns the current cursor, empty when there is no next page.
func (a *Accumulator) After() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.after
}

// Len returns the number of accumulated entries.
func (a *Accumulator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

// Snapshot returns the entries and cursor read under one lock.
func (a *Accumulator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Snapshot{Entries: a.entries, After: a.after}
}

// HasMore reports whether another page should be requested: a cursor exists
// and fewer than maxEntries entries are held. maxEntries <= 0 means no cap.
func (a *Accumulator) HasMore(maxEntries int) bool {
	return a.Snapshot().HasMore(maxEntries)
}
