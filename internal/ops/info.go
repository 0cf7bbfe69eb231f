package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/atext2csv/internal/config"
	"github.com/hpungsan/atext2csv/internal/snippet"
	"github.com/hpungsan/atext2csv/internal/tree"
)

// InfoOutput describes a snippet store without exporting it.
type InfoOutput struct {
	Source   Source         `json:"source"`
	RootKind string         `json:"root_kind,omitempty"`
	Header   *tree.Value    `json:"header_json,omitempty"`
	Types    map[string]int `json:"types"`
	Snippets int            `json:"snippets"`
	Groups   int            `json:"groups"`
}

// Info loads path and reports container details and record counts.
func Info(ctx context.Context, cfg *config.Config, path string) (*InfoOutput, error) {
	loaded, err := Load(ctx, cfg, path)
	if err != nil {
		return nil, err
	}

	out := &InfoOutput{
		Source:   loaded.Source,
		Types:    make(map[string]int),
		Snippets: len(loaded.Records),
		Groups:   len(snippet.GroupRecords(loaded.Records)),
	}
	if root := loaded.Root(); root != nil {
		out.RootKind = root.Kind().String()
	}
	if h := strings.TrimSpace(loaded.Source.Header); h != "" {
		if v, err := tree.Parse([]byte(h)); err == nil {
			out.Header = v
		}
	}
	for _, r := range loaded.Records {
		label := r.TypeLabel
		if label == "" {
			label = "text"
		}
		out.Types[label]++
	}
	return out, nil
}
