package writer

import (
	"bytes"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hpungsan/atext2csv/internal/snippet"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
pre { background: #f5f5f5; padding: .75rem; overflow-x: auto; white-space: pre-wrap; }
h2 { border-bottom: 1px solid #ddd; padding-bottom: .25rem; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// RenderHTML converts the Markdown report of records to an HTML fragment.
func RenderHTML(records []snippet.Record, opts Options) (template.HTML, error) {
	var md bytes.Buffer
	if err := WriteMarkdown(&md, records, opts); err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := markdown.Convert(md.Bytes(), &out); err != nil {
		return "", err
	}
	// goldmark escapes text and drops raw HTML by default.
	return template.HTML(out.String()), nil
}

// WriteHTML writes a standalone HTML page rendered from the Markdown report.
func WriteHTML(w io.Writer, records []snippet.Record, opts Options) error {
	body, err := RenderHTML(records, opts)
	if err != nil {
		return err
	}
	return pageTemplate.Execute(w, struct {
		Title string
		Body  template.HTML
	}{
		Title: "aText Snippets",
		Body:  body,
	})
}
