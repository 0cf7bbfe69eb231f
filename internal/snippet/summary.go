package snippet

// GroupSummary is the snippet count of one group.
type GroupSummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary describes a record list.
type Summary struct {
	Snippets int            `json:"snippets"`
	Groups   []GroupSummary `json:"groups"`
}

// Section is a run of records sharing a group, in first-seen group order.
type Section struct {
	Group   string
	Records []Record
}

// Summarize counts records per group. Groups are listed in the order they are
// first seen; top-level snippets count under the "" group.
func Summarize(records []Record) Summary {
	sections := GroupRecords(records)
	groups := make([]GroupSummary, 0, len(sections))
	for _, s := range sections {
		groups = append(groups, GroupSummary{Name: s.Group, Count: len(s.Records)})
	}
	return Summary{Snippets: len(records), Groups: groups}
}

// GroupRecords buckets records by group, keeping first-seen group order and
// document order within each group.
func GroupRecords(records []Record) []Section {
	index := make(map[string]int)
	var sections []Section
	for _, r := range records {
		i, ok := index[r.Group]
		if !ok {
			i = len(sections)
			index[r.Group] = i
			sections = append(sections, Section{Group: r.Group})
		}
		sections[i].Records = append(sections[i].Records, r)
	}
	return sections
}
