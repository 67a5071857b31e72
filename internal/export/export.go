// Package export writes query results to CSV or JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nhath/ezdv/internal/query"
)

// Format is an export file format.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case CSV:
		return CSV, nil
	case JSON:
		return JSON, nil
	}
	return "", fmt.Errorf("unknown format '%s', use csv or json", s)
}

// Write encodes the result's columns and rows in format.
func Write(w io.Writer, r query.QueryResult, format Format) error {
	switch format {
	case CSV:
		return WriteCSV(w, r)
	case JSON:
		return WriteJSON(w, r)
	}
	return fmt.Errorf("unknown format '%s'", format)
}

// WriteCSV writes a header row followed by every result row.
func WriteCSV(w io.Writer, r query.QueryResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Columns); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	for _, row := range r.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the rows as an indented array of column->display value
// objects.
func WriteJSON(w io.Writer, r query.QueryResult) error {
	data := make([]map[string]string, len(r.Rows))
	for i, row := range r.Rows {
		record := make(map[string]string, len(r.Columns))
		for j, col := range r.Columns {
			if j < len(row) {
				record[col] = row[j]
			}
		}
		data[i] = record
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// DefaultFilename names an export after the entity and time.
func DefaultFilename(entity string, format Format, now time.Time) string {
	if entity == "" {
		entity = "export"
	}
	return fmt.Sprintf("%s_%s.%s", entity, now.Format("20060102_150405"), format)
}

// ToFile writes r to path, adding the format's extension when missing and
// resolving relative paths against the working directory. It returns the
// absolute path written.
func ToFile(path string, r query.QueryResult, format Format) (string, error) {
	if r.RowCount() == 0 {
		return "", fmt.Errorf("no results to export")
	}

	ext := "." + string(format)
	if !strings.HasSuffix(strings.ToLower(path), ext) {
		path += ext
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return "", err
	}

	f, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("error creating file: %w", err)
	}
	defer f.Close()

	if err := Write(f, r, format); err != nil {
		return "", err
	}
	return absPath, f.Close()
}
