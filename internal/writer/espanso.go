package writer

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hpungsan/atext2csv/internal/snippet"
)

// EspansoMatch is one entry of an Espanso match file.
type EspansoMatch struct {
	Trigger string `yaml:"trigger"`
	Replace string `yaml:"replace"`
}

// EspansoFile is the document written by WriteEspanso.
type EspansoFile struct {
	Matches []EspansoMatch `yaml:"matches"`
}

// EspansoCandidates returns the records Espanso can use: plain text snippets
// with at least one trigger.
func EspansoCandidates(records []snippet.Record) []snippet.Record {
	var out []snippet.Record
	for _, r := range records {
		if r.Trigger != "" && r.IsPlainText() {
			out = append(out, r)
		}
	}
	return out
}

// WriteEspanso writes an Espanso match file. Every trigger of a snippet becomes
// its own match. Group and snippet names are kept as comments.
func WriteEspanso(w io.Writer, records []snippet.Record, opts Options) error {
	candidates := EspansoCandidates(records)

	seq := &yaml.Node{Kind: yaml.SequenceNode}
	currentGroup := "\x00"
	for _, r := range candidates {
		groupHeading := ""
		if r.Group != currentGroup {
			currentGroup = r.Group
			groupHeading = "── " + groupTitle(r.Group, "Ungrouped") + " ──"
		}

		for _, trigger := range r.Triggers() {
			item := matchNode(trigger, r.Content)
			var comments []string
			if groupHeading != "" {
				comments = append(comments, groupHeading)
				groupHeading = ""
			}
			if r.Name != "" {
				comments = append(comments, r.Name)
			}
			item.HeadComment = strings.Join(comments, "\n")
			seq.Content = append(seq.Content, item)
		}
	}

	doc := &yaml.Node{
		Kind: yaml.DocumentNode,
		HeadComment: strings.Join([]string{
			"aText snippets exported for Espanso",
			"Generated: " + opts.generated(),
			fmt.Sprintf("Source snippets: %d (text-only, from %d total)", len(candidates), len(records)),
			"#",
			"Install: copy to ~/.config/espanso/match/atext.yml",
			"Docs:    https://espanso.org/docs/matches/basics/",
		}, "\n"),
		Content: []*yaml.Node{{
			Kind: yaml.MappingNode,
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Value: "matches"},
				seq,
			},
		}},
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func matchNode(trigger, content string) *yaml.Node {
	replace := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: content, Style: yaml.DoubleQuotedStyle}
	if needsBlock(content) {
		replace.Style = yaml.LiteralStyle
	}
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "trigger"},
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: trigger, Style: yaml.DoubleQuotedStyle},
			{Kind: yaml.ScalarNode, Value: "replace"},
			replace,
		},
	}
}

// needsBlock reports whether content reads better as a literal block.
func needsBlock(content string) bool {
	return strings.ContainsAny(content, "\n\"'\\")
}
