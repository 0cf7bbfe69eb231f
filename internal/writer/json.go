package writer

import (
	"encoding/json"
	"io"

	"github.com/hpungsan/atext2csv/internal/snippet"
)

// WriteJSON writes records as an indented JSON array. Non-ASCII and HTML
// characters are written unescaped.
func WriteJSON(w io.Writer, records []snippet.Record) error {
	if records == nil {
		records = []snippet.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}
