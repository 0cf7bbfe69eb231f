// Package writer serializes snippet records to the export formats.
package writer

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hpungsan/atext2csv/internal/snippet"
)

// Options tunes the human-oriented formats.
type Options struct {
	// PreviewChars truncates content in the text summary. Zero means 300.
	PreviewChars int

	// Now stamps generated files. Zero means time.Now().
	Now time.Time
}

func (o Options) previewChars() int {
	if o.PreviewChars <= 0 {
		return 300
	}
	return o.PreviewChars
}

func (o Options) generated() string {
	now := o.Now
	if now.IsZero() {
		now = time.Now()
	}
	return now.Format("2006-01-02 15:04:05")
}

// preview truncates s to n runes, appending "..." when cut.
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

func groupTitle(group, fallback string) string {
	if group == "" {
		return fallback
	}
	return group
}

// countGroups returns the number of distinct groups among records.
func countGroups(records []snippet.Record) int {
	return len(snippet.GroupRecords(records))
}

var rule = strings.Repeat("=", 72)
var thinRule = strings.Repeat("─", 72)
