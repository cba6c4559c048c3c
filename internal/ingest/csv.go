package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/YASHK-arch/heavy-metal-compass/internal/sample"
)

// ReadCSV parses comma-separated data whose first row names the columns.
// An upload with no rows at all yields zero records, not an error.
func ReadCSV(r io.Reader) ([]sample.RawRecord, error) {
	return readDelimited(r, ',')
}

func readDelimited(r io.Reader, comma rune) ([]sample.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1 // ragged rows are the validator's problem
	cr.TrimLeadingSpace = true

	var cells [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse line %d: %w", len(cells)+1, err)
		}
		row := make([]string, len(rec))
		copy(row, rec)
		cells = append(cells, row)
	}
	return rowsFromCells(cells), nil
}
