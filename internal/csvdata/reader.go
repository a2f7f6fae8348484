package csvdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is one normalized CSV record: header names lower-cased and trimmed,
// values trimmed. Empty values are kept; validation happens downstream.
type Row map[string]string

// ReadRows decodes a headered CSV stream into normalized rows.
func ReadRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("csvdata: read header: %w", err)
	}

	keys := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		keys[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvdata: read record: %w", err)
		}

		row := make(Row, len(keys))
		for i, key := range keys {
			if key == "" {
				continue
			}
			var value string
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			row[key] = value
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ReadFile decodes a CSV file into normalized rows.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvdata: open %s: %w", path, err)
	}
	defer f.Close()
	return ReadRows(f)
}
