package ops

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/atext2csv/internal/errors"
	"github.com/hpungsan/atext2csv/internal/snippet"
)

func triggersOf(items []SearchResultItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Trigger
	}
	return out
}

func TestSearch_Ranking(t *testing.T) {
	out, err := Search(sampleRecords(), SearchInput{Query: "addr"})
	require.NoError(t, err)

	require.Equal(t, []string{"addr", "deep"}, triggersOf(out.Items))
	require.Equal(t, "trigger", out.Items[0].Field)
	require.Equal(t, "<b>addr</b>", out.Items[0].Snippet)
	require.Equal(t, "content", out.Items[1].Field)
	require.Equal(t, "deep content with <b>addr</b> inside", out.Items[1].Snippet)
	require.Equal(t, "relevance", out.Sort)
	require.Equal(t, 2, out.Pagination.Total)
	require.False(t, out.Pagination.HasMore)
}

func TestSearch_TriggerMatching(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		query string
		want  []string
	}{
		{"SIGN", []string{"sig, sign"}},
		{"si", []string{"sig, sign", "deep"}}, // prefix, then "inside"
		{"Address", []string{"addr"}},
		{"work", []string{"sig, sign"}},
		{"level", []string{"top"}},
		{"nothing matches this", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			out, err := Search(records, SearchInput{Query: tt.query})
			require.NoError(t, err)
			require.Equal(t, tt.want, triggersOf(out.Items))
		})
	}
}

func TestSearch_ExactTriggerBeatsContent(t *testing.T) {
	records := []snippet.Record{
		{Trigger: "x1", Content: "mentions zz here"},
		{Trigger: "zzz", Content: "prefix"},
		{Trigger: "zz", Content: "exact"},
	}

	out, err := Search(records, SearchInput{Query: "zz"})
	require.NoError(t, err)
	require.Equal(t, []string{"zz", "zzz", "x1"}, triggersOf(out.Items))
}

func TestSearch_Filters(t *testing.T) {
	records := sampleRecords()
	work := "Work"
	script := "script"
	code := "s"
	blank := "  "

	out, err := Search(records, SearchInput{Query: "o", Group: &work})
	require.NoError(t, err)
	require.Equal(t, []string{"now"}, triggersOf(out.Items))

	out, err = Search(records, SearchInput{Query: "{{", Type: &script})
	require.NoError(t, err)
	require.Equal(t, []string{"now"}, triggersOf(out.Items))

	out, err = Search(records, SearchInput{Query: "{{", Type: &code})
	require.NoError(t, err)
	require.Equal(t, []string{"now"}, triggersOf(out.Items))

	out, err = Search(records, SearchInput{Query: "addr", Group: &blank})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
}

func TestSearch_Pagination(t *testing.T) {
	out, err := Search(sampleRecords(), SearchInput{Query: "addr", Limit: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"addr"}, triggersOf(out.Items))
	require.True(t, out.Pagination.HasMore)
	require.Equal(t, 2, out.Pagination.Total)

	out, err = Search(sampleRecords(), SearchInput{Query: "addr", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"deep"}, triggersOf(out.Items))
	require.False(t, out.Pagination.HasMore)
}

func TestSearch_InvalidQuery(t *testing.T) {
	_, err := Search(nil, SearchInput{Query: "   "})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)

	_, err = Search(nil, SearchInput{Query: strings.Repeat("a", MaxQueryLength+1)})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)
}

func TestSearch_SnippetEscapesContent(t *testing.T) {
	records := []snippet.Record{{Trigger: "x", Content: "<script>alert('hi')</script>"}}

	out, err := Search(records, SearchInput{Query: "script"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	require.Equal(t, "&lt;<b>script</b>&gt;alert(&#39;hi&#39;)&lt;/<b>script</b>&gt;", out.Items[0].Snippet)
}

func TestSearch_LongContentIsTrimmed(t *testing.T) {
	content := strings.Repeat("lorem ipsum ", 60) + "needle" + strings.Repeat(" dolor sit", 60)
	records := []snippet.Record{{Trigger: "long", Content: content}}

	out, err := Search(records, SearchInput{Query: "needle"})
	require.NoError(t, err)
	s := out.Items[0].Snippet
	require.True(t, strings.HasPrefix(s, "..."), s)
	require.True(t, strings.HasSuffix(s, "..."), s)
	require.Contains(t, s, "<b>needle</b>")
	require.LessOrEqual(t, len(s), MaxSnippetChars+len("</b>..."))
}

func TestTruncateSnippet(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"short", "hello", 10, "hello"},
		{"word boundary", "hello brave new world", 15, "hello brave..."},
		{"closes open tag", "aaaa <b>bbbbbbbbbbbbbbbb</b>", 14, "aaaa <b>bbbbbb</b>..."},
		{"drops partial entity", "abcdefghij&amp;", 13, "abcdefghij..."},
		{"zero", "hello", 0, "..."},
		{"utf8 safe", "ééééé", 3, "é..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, truncateSnippet(tt.input, tt.max))
		})
	}
}
