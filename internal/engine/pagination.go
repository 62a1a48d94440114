package engine

import (
	"context"
	"fmt"
	"log/slog"
)

// Reasons a Paginate call stopped.
const (
	StoppedMaxEntries    = "max_entries"
	StoppedNoMoreResults = "no_more_results"
	StoppedMaxPages      = "max_pages"
)

const (
	defaultMaxPages   = 5
	defaultMaxEntries = 50
)

// Refresh starts a first-page fetch, replacing the accumulated entries.
func (e *Engine) Refresh() {
	e.FetchPage("")
}

// FetchNextPage starts a fetch of the page after the accumulated cursor. It
// returns false, starting nothing, when there is no cursor.
func (e *Engine) FetchNextPage() bool {
	after := e.store.After()
	if after == "" {
		return false
	}
	e.FetchPage(after)
	return true
}

// Paginator walks listing pages through an Engine, waiting for each one
// before requesting the next.
type Paginator struct {
	engine     *Engine
	log        *slog.Logger
	maxPages   int
	maxEntries int
}

// PaginatorOption configures the Paginator.
type PaginatorOption func(*Paginator)

// WithMaxPages overrides the default max pages.
func WithMaxPages(n int) PaginatorOption {
	return func(p *Paginator) {
		p.maxPages = n
	}
}

// WithMaxEntries caps the accumulated entries. Zero disables the cap.
func WithMaxEntries(n int) PaginatorOption {
	return func(p *Paginator) {
		p.maxEntries = n
	}
}

// WithPaginatorLogger sets the logger.
func WithPaginatorLogger(l *slog.Logger) PaginatorOption {
	return func(p *Paginator) {
		p.log = l
	}
}

// NewPaginator creates a new Paginator.
func NewPaginator(eng *Engine, opts ...PaginatorOption) *Paginator {
	p := &Paginator{
		engine:     eng,
		log:        eng.log,
		maxPages:   defaultMaxPages,
		maxEntries: defaultMaxEntries,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PaginateResult holds the result of a paginated fetch.
type PaginateResult struct {
	PagesUsed  int
	TotalSeen  int
	LastCursor string
	StoppedAt  string // "max_entries", "no_more_results", "max_pages"
}

// Paginate fetches the first page and then follows the cursor, stopping when:
// - the accumulator holds maxEntries entries
// - the listing has no next page
// - maxPages pages were fetched
// The first failed page ends the walk with its error.
func (p *Paginator) Paginate(ctx context.Context) (*PaginateResult, error) {
	result := &PaginateResult{}
	store := p.engine.store

	for page := range p.maxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		after := ""
		if page > 0 {
			after = store.After()
		}

		r, err := p.engine.Await(ctx, KindFetchPage, func() {
			p.engine.FetchPage(after)
		})
		if err != nil {
			return nil, fmt.Errorf("waiting for page %d: %w", page, err)
		}
		if err := Err(r); err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}

		fetched, ok := r.(PageFetched)
		if !ok {
			return nil, fmt.Errorf("fetching page %d: unexpected result %T", page, r)
		}

		result.PagesUsed++
		result.TotalSeen += len(fetched.Entries)
		result.LastCursor = fetched.After

		p.log.Debug("page fetched",
			"page", page,
			"entries", len(fetched.Entries),
			"accumulated", store.Len(),
		)

		if fetched.After == "" || len(fetched.Entries) == 0 {
			result.StoppedAt = StoppedNoMoreResults
			return result, nil
		}

		if !store.HasMore(p.maxEntries) {
			result.StoppedAt = StoppedMaxEntries
			return result, nil
		}
	}

	result.StoppedAt = StoppedMaxPages
	return result, nil
}
