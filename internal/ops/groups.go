package ops

import (
	"strings"

	"github.com/hpungsan/atext2csv/internal/snippet"
)

// GroupsInput contains parameters for the Groups operation.
type GroupsInput struct {
	NamePrefix *string // optional filter, case-insensitive
	Limit      int     // default: 100, max: 500
	Offset     int     // default: 0
}

// GroupsOutput contains the result of the Groups operation.
type GroupsOutput struct {
	Items      []snippet.GroupSummary `json:"items"`
	Snippets   int                    `json:"snippets"`
	Pagination Pagination             `json:"pagination"`
	Sort       string                 `json:"sort"`
}

// Groups lists the groups of records with their snippet counts, in the order
// groups first appear. Top-level snippets are listed under the "" group.
func Groups(records []snippet.Record, input GroupsInput) *GroupsOutput {
	summary := snippet.Summarize(records)

	items := summary.Groups
	if prefix := cleanOptionalString(input.NamePrefix); prefix != nil {
		p := strings.ToLower(*prefix)
		filtered := make([]snippet.GroupSummary, 0, len(items))
		for _, g := range items {
			if strings.HasPrefix(strings.ToLower(g.Name), p) {
				filtered = append(filtered, g)
			}
		}
		items = filtered
	}

	page, start, end := paginate(len(items), input.Limit, input.Offset, DefaultGroupsLimit, MaxGroupsLimit)
	return &GroupsOutput{
		Items:      append([]snippet.GroupSummary{}, items[start:end]...),
		Snippets:   summary.Snippets,
		Pagination: page,
		Sort:       "document",
	}
}
