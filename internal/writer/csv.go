package writer

import (
	"encoding/csv"
	"io"

	"github.com/hpungsan/atext2csv/internal/snippet"
)

// utf8BOM lets spreadsheet applications detect the encoding.
const utf8BOM = "\ufeff"

// WriteCSV writes records as CSV with a UTF-8 BOM, a header row, and CRLF line
// endings.
func WriteCSV(w io.Writer, records []snippet.Record) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(snippet.Columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
