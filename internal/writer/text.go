package writer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hpungsan/atext2csv/internal/snippet"
)

// WriteText writes a human-readable summary grouped by group.
func WriteText(w io.Writer, records []snippet.Record, opts Options) error {
	bw := bufio.NewWriter(w)
	sections := snippet.GroupRecords(records)

	fmt.Fprintf(bw, "aText Snippets Export\n")
	fmt.Fprintf(bw, "Generated: %s\n", opts.generated())
	fmt.Fprintf(bw, "Total: %d snippets in %d groups\n", len(records), len(sections))
	fmt.Fprintf(bw, "%s\n", rule)

	for _, s := range sections {
		fmt.Fprintf(bw, "\n%s\n", thinRule)
		fmt.Fprintf(bw, "  GROUP: %s (%d snippets)\n", groupTitle(s.Group, "(ungrouped)"), len(s.Records))
		fmt.Fprintf(bw, "%s\n\n", thinRule)

		for _, r := range s.Records {
			fmt.Fprintf(bw, "  Trigger:  %s\n", r.Trigger)
			if r.Name != "" {
				fmt.Fprintf(bw, "  Name:     %s\n", r.Name)
			}
			if r.Hotkey != "" {
				fmt.Fprintf(bw, "  Hotkey:   %s\n", r.Hotkey)
			}
			if r.TypeLabel != "" {
				fmt.Fprintf(bw, "  Type:     %s\n", r.TypeLabel)
			}

			lines := strings.Split(preview(r.Content, opts.previewChars()), "\n")
			fmt.Fprintf(bw, "  Content:  %s\n", lines[0])
			for _, line := range lines[1:] {
				fmt.Fprintf(bw, "            %s\n", line)
			}
			fmt.Fprintf(bw, "\n")
		}
	}

	return bw.Flush()
}
