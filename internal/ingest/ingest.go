// Package ingest reads tabular sample uploads into raw records for the
// pipeline. The first row of every format names the columns; nothing here
// judges the values, that is the validator's job.
package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/YASHK-arch/heavy-metal-compass/internal/sample"
)

// Read parses r according to the filename's extension. Supported are
// .csv, .tsv and .xlsx.
func Read(filename string, r io.Reader) ([]sample.RawRecord, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return ReadCSV(r)
	case ".tsv":
		return readDelimited(r, '\t')
	case ".xlsx":
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .csv, .tsv or .xlsx)", ext)
	}
}

// ReadFile opens and parses one upload from disk.
func ReadFile(path string) ([]sample.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return Read(path, f)
}

// rowsFromCells turns a header row plus data rows into records. Cells are
// trimmed, short rows leave their trailing columns absent, and fully blank
// rows are dropped.
func rowsFromCells(cells [][]string) []sample.RawRecord {
	if len(cells) == 0 {
		return nil
	}
	header := make([]string, len(cells[0]))
	for i, col := range cells[0] {
		header[i] = strings.TrimSpace(col)
	}
	rows := make([]sample.RawRecord, 0, len(cells)-1)
	for _, rec := range cells[1:] {
		if blankRow(rec) {
			continue
		}
		row := make(sample.RawRecord, len(header))
		for i, col := range header {
			if col == "" || i >= len(rec) {
				continue
			}
			row[col] = strings.TrimSpace(rec[i])
		}
		rows = append(rows, row)
	}
	return rows
}

func blankRow(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
