package writer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hpungsan/atext2csv/internal/snippet"
)

// WriteMarkdown writes records as a Markdown document with one section per
// group. Snippet bodies are fenced so they render verbatim.
func WriteMarkdown(w io.Writer, records []snippet.Record, opts Options) error {
	bw := bufio.NewWriter(w)
	sections := snippet.GroupRecords(records)

	fmt.Fprintf(bw, "# aText Snippets\n\n")
	fmt.Fprintf(bw, "Generated %s. %d snippets in %d groups.\n", opts.generated(), len(records), len(sections))

	for _, s := range sections {
		fmt.Fprintf(bw, "\n## %s (%d)\n", escapeMarkdown(groupTitle(s.Group, "(ungrouped)")), len(s.Records))

		for _, r := range s.Records {
			fmt.Fprintf(bw, "\n### %s\n\n", heading(r))

			if r.Name != "" && r.Trigger != "" {
				fmt.Fprintf(bw, "- **Trigger:** %s\n", inlineCode(r.Trigger))
			}
			if r.TypeLabel != "" {
				fmt.Fprintf(bw, "- **Type:** %s\n", escapeMarkdown(r.TypeLabel))
			}
			if r.Hotkey != "" {
				fmt.Fprintf(bw, "- **Hotkey:** %s\n", inlineCode(r.Hotkey))
			}
			if r.Tags != "" {
				fmt.Fprintf(bw, "- **Tags:** %s\n", escapeMarkdown(r.Tags))
			}
			if r.Modified != "" {
				fmt.Fprintf(bw, "- **Modified:** %s\n", r.Modified)
			} else if r.Created != "" {
				fmt.Fprintf(bw, "- **Created:** %s\n", r.Created)
			}

			if r.Content != "" {
				fence := codeFence(r.Content)
				fmt.Fprintf(bw, "\n%stext\n%s\n%s\n", fence, strings.TrimRight(r.Content, "\n"), fence)
			}
		}
	}

	return bw.Flush()
}

func heading(r snippet.Record) string {
	if r.Name != "" {
		return escapeMarkdown(r.Name)
	}
	return inlineCode(r.Trigger)
}

// codeFence returns a backtick fence longer than any backtick run in s.
func codeFence(s string) string {
	longest, run := 0, 0
	for _, c := range s {
		if c == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

// inlineCode wraps s in a code span that survives embedded backticks.
func inlineCode(s string) string {
	fence := "`"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`,
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`,
	"#", `\#`, "|", `\|`, "\n", " ",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
