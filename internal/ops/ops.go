// Package ops implements the operations shared by the CLI, the MCP server and
// the web browser: loading a snippet store, exporting it, and querying it.
package ops

import (
	"fmt"
	"strings"

	"github.com/hpungsan/atext2csv/internal/errors"
)

// Pagination limits
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
	DefaultGroupsLimit = 100
	MaxGroupsLimit     = 500
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// paginate clamps limit and offset and returns the [start, end) window over
// total items.
func paginate(total, limit, offset, defaultLimit, maxLimit int) (Pagination, int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset = max(offset, 0)

	start := min(offset, total)
	end := min(start+limit, total)
	return Pagination{
		Limit:   limit,
		Offset:  offset,
		HasMore: end < total,
		Total:   total,
	}, start, end
}

// Format is an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatEspanso  Format = "espanso"
	FormatText     Format = "txt"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatSQLite   Format = "sqlite"
)

// AllFormats lists every format in output order.
var AllFormats = []Format{
	FormatCSV, FormatJSON, FormatEspanso, FormatText,
	FormatMarkdown, FormatHTML, FormatSQLite,
}

// DefaultFormats is used when no format is selected.
var DefaultFormats = []Format{FormatCSV, FormatJSON, FormatEspanso, FormatText}

var formatAliases = map[string]Format{
	"text": FormatText,
	"md":   FormatMarkdown,
	"yml":  FormatEspanso,
	"yaml": FormatEspanso,
	"db":   FormatSQLite,
}

// ParseFormat resolves a format name. Names are case-insensitive and accept a
// few common aliases (text, md, yaml, db).
func ParseFormat(name string) (Format, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, f := range AllFormats {
		if string(f) == n {
			return f, nil
		}
	}
	if f, ok := formatAliases[n]; ok {
		return f, nil
	}
	return "", errors.NewInvalidRequest(fmt.Sprintf("unknown format %q (valid: %s)", name, formatList()))
}

// ParseFormats resolves names, dropping duplicates and keeping AllFormats
// order. An empty list yields DefaultFormats.
func ParseFormats(names []string) ([]Format, error) {
	selected := make(map[Format]bool)
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		f, err := ParseFormat(name)
		if err != nil {
			return nil, err
		}
		selected[f] = true
	}
	if len(selected) == 0 {
		return append([]Format(nil), DefaultFormats...), nil
	}

	formats := make([]Format, 0, len(selected))
	for _, f := range AllFormats {
		if selected[f] {
			formats = append(formats, f)
		}
	}
	return formats, nil
}

// FileName returns the output file name for f.
func (f Format) FileName(prefix string) string {
	switch f {
	case FormatEspanso:
		return prefix + "_espanso.yml"
	case FormatMarkdown:
		return prefix + "_snippets.md"
	case FormatSQLite:
		return prefix + "_snippets.db"
	default:
		return prefix + "_snippets." + string(f)
	}
}

func formatList() string {
	names := make([]string, len(AllFormats))
	for i, f := range AllFormats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
