package snippet

import (
	"testing"
)

func TestSummarize(t *testing.T) {
	records := []Record{
		{Trigger: "a", Group: "Work"},
		{Trigger: "b", Group: ""},
		{Trigger: "c", Group: "Work"},
		{Trigger: "d", Group: "Home"},
	}

	s := Summarize(records)
	if s.Snippets != 4 {
		t.Errorf("Snippets = %d, want 4", s.Snippets)
	}

	want := []GroupSummary{{"Work", 2}, {"", 1}, {"Home", 1}}
	if len(s.Groups) != len(want) {
		t.Fatalf("got %d groups, want %d", len(s.Groups), len(want))
	}
	for i, g := range want {
		if s.Groups[i] != g {
			t.Errorf("Groups[%d] = %+v, want %+v", i, s.Groups[i], g)
		}
	}
}

func TestGroupRecords_KeepsDocumentOrder(t *testing.T) {
	records := []Record{
		{Trigger: "1", Group: "A"},
		{Trigger: "2", Group: "B"},
		{Trigger: "3", Group: "A"},
	}

	sections := GroupRecords(records)
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	if sections[0].Group != "A" || len(sections[0].Records) != 2 {
		t.Errorf("unexpected first section: %+v", sections[0])
	}
	if sections[0].Records[1].Trigger != "3" {
		t.Errorf("expected trigger 3 second in group A, got %q", sections[0].Records[1].Trigger)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Snippets != 0 || len(s.Groups) != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
}

func TestRecord_Triggers(t *testing.T) {
	tests := []struct {
		trigger string
		want    []string
	}{
		{"", nil},
		{"abc", []string{"abc"}},
		{"a, b", []string{"a", "b"}},
		{" a ,, b ,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		got := Record{Trigger: tt.trigger}.Triggers()
		if len(got) != len(tt.want) {
			t.Errorf("Triggers(%q) = %v, want %v", tt.trigger, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Triggers(%q)[%d] = %q, want %q", tt.trigger, i, got[i], tt.want[i])
			}
		}
	}
}

func TestRecord_Row(t *testing.T) {
	r := Record{Trigger: "t", Content: "c", UUID: "u", Group: "g"}
	row := r.Row()
	if len(row) != len(Columns) {
		t.Fatalf("row has %d values, want %d", len(row), len(Columns))
	}
	if row[0] != "t" || row[1] != "c" || row[4] != "g" || row[11] != "u" {
		t.Errorf("unexpected row: %v", row)
	}
	if r.Field("nope") != "" {
		t.Error("unknown field should be empty")
	}
}
