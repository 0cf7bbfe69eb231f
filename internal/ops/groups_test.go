package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/atext2csv/internal/snippet"
)

func TestGroups(t *testing.T) {
	out := Groups(sampleRecords(), GroupsInput{})
	require.Equal(t, []snippet.GroupSummary{
		{Name: "Personal", Count: 2},
		{Name: "Work", Count: 1},
		{Name: "Nested", Count: 1},
		{Name: "", Count: 1},
	}, out.Items)
	require.Equal(t, 5, out.Snippets)
	require.Equal(t, "document", out.Sort)
	require.Equal(t, Pagination{Limit: DefaultGroupsLimit, Total: 4}, out.Pagination)
}

func TestGroups_PrefixAndPagination(t *testing.T) {
	prefix := "PER"
	out := Groups(sampleRecords(), GroupsInput{NamePrefix: &prefix})
	require.Equal(t, []snippet.GroupSummary{{Name: "Personal", Count: 2}}, out.Items)
	require.Equal(t, 1, out.Pagination.Total)

	out = Groups(sampleRecords(), GroupsInput{Limit: 2, Offset: 1})
	require.Equal(t, []snippet.GroupSummary{
		{Name: "Work", Count: 1},
		{Name: "Nested", Count: 1},
	}, out.Items)
	require.True(t, out.Pagination.HasMore)
}

func TestGroups_Empty(t *testing.T) {
	out := Groups(nil, GroupsInput{})
	require.NotNil(t, out.Items)
	require.Empty(t, out.Items)
	require.Zero(t, out.Snippets)
}
