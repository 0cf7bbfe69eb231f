package ops

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hpungsan/atext2csv/internal/errors"
	"github.com/hpungsan/atext2csv/internal/snippet"
)

// Search limits
const (
	MaxQueryLength  = 200
	MaxSnippetChars = 300
)

// Match ranks, best first.
const (
	rankTrigger = iota
	rankTriggerPrefix
	rankName
	rankTags
	rankContent
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query  string  // required
	Group  *string // optional filter, exact group name
	Type   *string // optional filter, type code or label
	Limit  int     // default: 20, max: 100
	Offset int     // default: 0
}

// SearchResultItem is a matching record with a match snippet.
type SearchResultItem struct {
	snippet.Record
	// Index is the record's position in the input list.
	Index int `json:"index"`
	// Snippet is HTML-safe: user-controlled content is escaped; only <b>...</b>
	// highlight tags are present.
	Snippet string `json:"snippet"`
	// Field is where the query matched.
	Field string `json:"matched_field"`
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Items      []SearchResultItem `json:"items"`
	Pagination Pagination         `json:"pagination"`
	Sort       string             `json:"sort"` // "relevance"
}

type searchHit struct {
	index int
	rank  int
	field string
	text  string
}

// Search finds records whose trigger, name, tags or content contain the
// query, case-insensitively. Exact trigger matches rank first, then trigger
// prefixes, names, tags and content; ties keep document order.
func Search(records []snippet.Record, input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("query exceeds maximum length of %d characters", MaxQueryLength))
	}
	group := cleanOptionalString(input.Group)
	typ := cleanOptionalString(input.Type)

	needle := strings.ToLower(query)
	var hits []searchHit
	for i, r := range records {
		if group != nil && r.Group != *group {
			continue
		}
		if typ != nil && r.Type != *typ && !strings.EqualFold(r.TypeLabel, *typ) {
			continue
		}
		if hit, ok := matchRecord(r, needle); ok {
			hit.index = i
			hits = append(hits, hit)
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].rank < hits[b].rank })

	page, start, end := paginate(len(hits), input.Limit, input.Offset, DefaultSearchLimit, MaxSearchLimit)
	items := make([]SearchResultItem, 0, end-start)
	for _, h := range hits[start:end] {
		items = append(items, SearchResultItem{
			Record:  records[h.index],
			Index:   h.index,
			Snippet: truncateSnippet(escapeSnippetHTML(markMatches(h.text, needle)), MaxSnippetChars),
			Field:   h.field,
		})
	}

	return &SearchOutput{
		Items:      items,
		Pagination: page,
		Sort:       "relevance",
	}, nil
}

func matchRecord(r snippet.Record, needle string) (searchHit, bool) {
	for _, t := range r.Triggers() {
		if strings.ToLower(t) == needle {
			return searchHit{rank: rankTrigger, field: "trigger", text: r.Trigger}, true
		}
	}
	for _, t := range r.Triggers() {
		if strings.HasPrefix(strings.ToLower(t), needle) {
			return searchHit{rank: rankTriggerPrefix, field: "trigger", text: r.Trigger}, true
		}
	}
	switch {
	case containsFold(r.Name, needle):
		return searchHit{rank: rankName, field: "name", text: r.Name}, true
	case containsFold(r.Tags, needle):
		return searchHit{rank: rankTags, field: "tags", text: r.Tags}, true
	case containsFold(r.Content, needle):
		return searchHit{rank: rankContent, field: "content", text: contextAround(r.Content, needle, MaxSnippetChars/2)}, true
	case containsFold(r.Trigger, needle):
		return searchHit{rank: rankContent, field: "trigger", text: r.Trigger}, true
	}
	return searchHit{}, false
}

func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}

// contextAround returns roughly radius bytes of s on each side of the first
// match of needle, with "..." marking cut ends.
func contextAround(s, needle string, radius int) string {
	i := lowerIndex(s, needle)
	if i < 0 || len(s) <= 2*radius {
		return s
	}
	start := max(i-radius, 0)
	for start > 0 && !utf8.RuneStart(s[start]) {
		start--
	}
	out := s[start:]
	if start > 0 {
		out = "..." + out
	}
	return out
}

// lowerIndex finds needle (already lowercased) in s by byte offset into s.
// Falls back to -1 when case folding changes byte lengths before the match.
func lowerIndex(s, needle string) int {
	lower := strings.ToLower(s)
	if len(lower) != len(s) {
		return -1
	}
	return strings.Index(lower, needle)
}

// markMatches wraps every case-insensitive occurrence of needle in highlight
// markers.
func markMatches(s, needle string) string {
	lower := strings.ToLower(s)
	if len(lower) != len(s) || needle == "" {
		return s
	}
	var b strings.Builder
	for {
		i := strings.Index(lower, needle)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		b.WriteString(openMarker)
		b.WriteString(s[i : i+len(needle)])
		b.WriteString(closeMarker)
		s = s[i+len(needle):]
		lower = lower[i+len(needle):]
	}
}

func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

const (
	openMarker  = "[[[B]]]"
	closeMarker = "[[[/B]]]"
)

// truncateSnippet truncates a snippet to approximately maxChars while:
// 1. Preserving valid UTF-8 (never splits multi-byte runes)
// 2. Preserving markup integrity (closes any open <b> tags)
// 3. Preferring word boundaries when possible
func truncateSnippet(s string, maxChars int) string {
	if maxChars <= 0 {
		return "..."
	}

	if len(s) <= maxChars {
		return s
	}

	truncateAt := maxChars
	for truncateAt > 0 && !utf8.RuneStart(s[truncateAt]) {
		truncateAt--
	}
	if truncateAt == 0 {
		return "..."
	}

	truncated := s[:truncateAt]

	// Trim any partial tag/entity suffix. The only tags present are <b> and
	// </b>; escaped content may contain entities such as &lt;.
	if lastLT := strings.LastIndex(truncated, "<"); lastLT != -1 && !strings.Contains(truncated[lastLT:], ">") {
		truncated = truncated[:lastLT]
	}
	if lastAmp := strings.LastIndex(truncated, "&"); lastAmp != -1 && !strings.Contains(truncated[lastAmp:], ";") {
		truncated = truncated[:lastAmp]
	}

	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > truncateAt/2 {
		truncated = truncated[:lastSpace]
	}

	unclosed := strings.Count(truncated, "<b>") - strings.Count(truncated, "</b>")
	for range unclosed {
		truncated += "</b>"
	}

	return truncated + "..."
}

// escapeSnippetHTML escapes user content in a snippet while turning the
// highlight markers into <b> tags. Snippet content is user-controlled and may
// contain HTML.
func escapeSnippetHTML(s string) string {
	const (
		openPlaceholder  = "\x00ATEXT_B_OPEN\x00"
		closePlaceholder = "\x00ATEXT_B_CLOSE\x00"
	)

	s = strings.ReplaceAll(s, openMarker, openPlaceholder)
	s = strings.ReplaceAll(s, closeMarker, closePlaceholder)

	s = html.EscapeString(s)

	s = strings.ReplaceAll(s, openPlaceholder, "<b>")
	s = strings.ReplaceAll(s, closePlaceholder, "</b>")

	return s
}
