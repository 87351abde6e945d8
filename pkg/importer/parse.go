package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is one CSV record keyed by header name.
type Row map[string]string

// Parse reads a CSV stream with a required header row and returns the
// headers plus one Row per data record. A structurally malformed file is
// reported here, once, before any matching begins; blank records are
// skipped.
func Parse(r io.Reader) ([]string, []Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	headers, err := cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("csv: missing header row")
	}
	if err != nil {
		return nil, nil, err
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		row := make(Row, len(headers))
		empty := true
		for i, h := range headers {
			if i >= len(rec) {
				break
			}
			v := strings.TrimSpace(rec[i])
			row[h] = v
			if v != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return headers, rows, nil
}

// ParseFile is Parse over a file on disk, used by the watch-folder tool.
func ParseFile(path string) ([]string, []Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return Parse(f)
}
