package engine

import (
	domain "github.com/donaldgifford/reddit-top/pkg/types"
)

// Result is delivered to observers when an operation finishes. It is one of
// Authenticated, PageFetched, AssetDownloaded or Failed.
type Result interface {
	Kind() Kind
	isResult()
}

// Authenticated reports that a token was obtained and stored.
type Authenticated struct{}

// PageFetched carries the entries of the page just fetched, not the whole
// accumulated list. After is empty on the last page.
type PageFetched struct {
	Entries []domain.Entry
	After   string
	// Reset is set when the page replaced the accumulated entries.
	Reset bool
}

// AssetDownloaded carries the absolute path of the written file.
type AssetDownloaded struct {
	Path string
	URL  string
}

// Failed reports an operation that finished with an error. Err is one of
// *transport.StatusError, *reddit.ParseError, *transport.IOError or another
// transport failure, possibly wrapped.
type Failed struct {
	Op  Kind
	Err error
}

func (Authenticated) Kind() Kind   { return KindAuthenticate }
func (PageFetched) Kind() Kind     { return KindFetchPage }
func (AssetDownloaded) Kind() Kind { return KindDownloadAsset }
func (f Failed) Kind() Kind        { return f.Op }

func (Authenticated) isResult()   {}
func (PageFetched) isResult()     {}
func (AssetDownloaded) isResult() {}
func (Failed) isResult()          {}

func (f Failed) Error() string {
	return f.Op.String() + ": " + f.Err.Error()
}

func (f Failed) Unwrap() error {
	return f.Err
}

// Err returns the error carried by r, or nil when r is a success.
func Err(r Result) error {
	if f, ok := r.(Failed); ok {
		return f.Err
	}
	return nil
}
