package transport

import (
	"net/url"
	"strings"
)

// Param is an ordered key/value pair used for both headers and query
// parameters.
type Param struct {
	Key   string
	Value string
}

// BuildURL appends params to base in order as key=value pairs. Values are
// percent-encoded, keys are written verbatim.
func BuildURL(base string, params []Param) string {
	if len(params) == 0 {
		return base
	}

	var b strings.Builder
	b.WriteString(base)
	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(escapeValue(p.Value))
	}
	return b.String()
}

// escapeValue percent-encodes v with spaces as %20 rather than '+'.
func escapeValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
