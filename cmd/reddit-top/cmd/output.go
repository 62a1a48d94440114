package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	apiclient "github.com/donaldgifford/reddit-top/internal/api/client"
	domain "github.com/donaldgifford/reddit-top/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printEntriesTable(w io.Writer, entries []domain.Entry, now time.Time) error {
	tw := newTabWriter(w)
	tw.writef("#\tTITLE\tAUTHOR\tAGE\tCOMMENTS\tTHUMBNAIL\n")
	for i := range entries {
		e := &entries[i]
		tw.writef("%d\t%s\t%s\t%dh\t%d\t%s\n",
			i+1,
			truncate(e.Title, 60),
			e.Author,
			e.HoursAgo(now),
			e.NumComments,
			thumbnail(e.HasThumbnail(), e.Thumbnail),
		)
	}
	return tw.finish()
}

func printRemoteEntriesTable(w io.Writer, entries []apiclient.Entry, offset int) error {
	tw := newTabWriter(w)
	tw.writef("#\tTITLE\tAUTHOR\tAGE\tCOMMENTS\tTHUMBNAIL\n")
	for i := range entries {
		e := &entries[i]
		tw.writef("%d\t%s\t%s\t%dh\t%d\t%s\n",
			offset+i+1,
			truncate(e.Title, 60),
			e.Author,
			e.HoursAgo,
			e.NumComments,
			thumbnail(e.HasThumbnail, e.Thumbnail),
		)
	}
	return tw.finish()
}

func printStatus(w io.Writer, s *apiclient.Status) error {
	tw := newTabWriter(w)
	tw.writef("Authenticated:\t%v\n", s.Authenticated)
	tw.writef("Device ID:\t%s\n", s.DeviceID)
	if s.TokenExpiresAt != nil {
		tw.writef("Token Expires:\t%s\n", s.TokenExpiresAt.Local().Format(timeLayout))
	}
	inFlight := "-"
	if len(s.InFlight) > 0 {
		inFlight = strings.Join(s.InFlight, ", ")
	}
	tw.writef("In Flight:\t%s\n", inFlight)
	return tw.finish()
}

func printQuota(w io.Writer, q *apiclient.Quota) error {
	tw := newTabWriter(w)
	if !q.Known {
		tw.writef("Quota:\tnot reported yet\n")
		return tw.finish()
	}
	tw.writef("Used:\t%d\n", q.Used)
	tw.writef("Remaining:\t%d\n", q.Remaining)
	if q.ResetAt != nil {
		tw.writef("Resets At:\t%s\n", q.ResetAt.Local().Format(timeLayout))
	}
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func thumbnail(has bool, url string) string {
	if !has {
		return "-"
	}
	return url
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
