package parse

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Tabular parses a CSV file. The first record is the header and every
// record must have the same number of fields.
func Tabular(path string, src []byte) (*lint.TabularRows, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(src, utf8BOM)))
	r.FieldsPerRecord = 0

	rows := &lint.TabularRows{}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.Line
			}
			return nil, newError(lint.FormatTabular, path, line, err)
		}

		if rows.Header == nil {
			rows.Header = record
			continue
		}
		line, _ := r.FieldPos(0)
		rows.Rows = append(rows.Rows, lint.Row{Line: line, Fields: record})
	}
	return rows, nil
}
