package engine

// Kind identifies an engine operation. At most one operation of each kind is
// in flight at a time.
type Kind int

// Operation kinds.
const (
	KindAuthenticate Kind = iota + 1
	KindFetchPage
	KindDownloadAsset
)

// Kinds lists every operation kind in a stable order.
var Kinds = []Kind{KindAuthenticate, KindFetchPage, KindDownloadAsset}

func (k Kind) String() string {
	switch k {
	case KindAuthenticate:
		return "authenticate"
	case KindFetchPage:
		return "fetch_page"
	case KindDownloadAsset:
		return "download_asset"
	default:
		return "unknown"
	}
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}
