package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	enc "github.com/bankrec/bankrec/internal/encoding"
)

// parseCSV reads a statement csv. Bank exports arrive in assorted encodings,
// so the stream is first decoded to UTF-8. The first non-empty row is the
// header.
func parseCSV(r io.Reader) (*table, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return tableFromRecords(records), nil
}

func tableFromRecords(records [][]string) *table {
	for i, row := range records {
		if rowEmpty(row) {
			continue
		}

		return &table{headers: row, rows: records[i+1:]}
	}

	return &table{}
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}

	return true
}
