package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// OData annotation names understood by the normalizer.
const (
	AnnotationFormattedValue = "@OData.Community.Display.V1.FormattedValue"
	AnnotationLookupLogical  = "@Microsoft.Dynamics.CRM.lookuplogicalname"
	AnnotationCount          = "@odata.count"
	AnnotationNextLink       = "@odata.nextLink"
)

// EmptyCell is shown for null and missing values.
const EmptyCell = "-"

// LookupInfo describes a cell that references a record in another entity.
type LookupInfo struct {
	ID          string
	LogicalName string
	DisplayName string // empty when unknown
}

// Cell addresses one cell of a QueryResult.
type Cell struct {
	Row int
	Col int
}

// QueryResult is the normalized, displayable form of an OData response.
type QueryResult struct {
	Columns  []string
	Rows     [][]string
	Lookups  map[Cell]LookupInfo
	Count    *int
	NextLink string
	Error    string
	RawJSON  string
}

// Failed reports whether the result carries an error instead of data.
func (r QueryResult) Failed() bool {
	return r.Error != ""
}

// HasMore reports whether a continuation link is available.
func (r QueryResult) HasMore() bool {
	return r.NextLink != ""
}

// RowCount returns the number of rows loaded so far.
func (r QueryResult) RowCount() int {
	return len(r.Rows)
}

// Lookup returns the lookup stored for a cell, if any.
func (r QueryResult) Lookup(row, col int) (LookupInfo, bool) {
	info, ok := r.Lookups[Cell{Row: row, Col: col}]
	return info, ok
}

// ColumnIndex returns the position of name in Columns or -1.
func (r QueryResult) ColumnIndex(name string) int {
	for i, c := range r.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func failed(format string, args ...any) QueryResult {
	return QueryResult{Error: fmt.Sprintf(format, args...)}
}

// decode unmarshals data into an untyped tree, keeping numbers as written.
func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Parse normalizes an OData collection response. Malformed input yields a
// result with Error set and no columns or rows. RawJSON is left to the caller.
func Parse(data []byte) QueryResult {
	tree, err := decode(data)
	if err != nil {
		return failed("Invalid response: %v", err)
	}
	envelope, ok := tree.(map[string]any)
	if !ok {
		return failed("Invalid response format: expected a JSON object")
	}
	records, ok := envelope["value"].([]any)
	if !ok {
		return failed("Invalid response format: missing 'value' array")
	}

	result := normalize(records)
	if n, ok := envelope[AnnotationCount].(json.Number); ok {
		if count, err := strconv.Atoi(n.String()); err == nil {
			result.Count = &count
		}
	}
	if link, ok := envelope[AnnotationNextLink].(string); ok {
		result.NextLink = link
	}
	return result
}

// ParseRecord normalizes a single-entity response (no "value" envelope) as a
// one-row result.
func ParseRecord(data []byte) QueryResult {
	tree, err := decode(data)
	if err != nil {
		return failed("Invalid response: %v", err)
	}
	record, ok := tree.(map[string]any)
	if !ok {
		return failed("Invalid response format: expected a record object")
	}
	return normalize([]any{record})
}

// normalize builds columns, rows and lookups. Only the first record's keys
// define the columns; keys first seen in later records are not shown.
func normalize(records []any) QueryResult {
	var result QueryResult
	if len(records) == 0 {
		return result
	}

	if first, ok := records[0].(map[string]any); ok {
		for key := range first {
			if strings.HasPrefix(key, "@") {
				continue
			}
			result.Columns = append(result.Columns, key)
		}
		sort.Strings(result.Columns)
	}

	for _, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		rowIdx := len(result.Rows)
		row := make([]string, len(result.Columns))
		for colIdx, col := range result.Columns {
			display := displayValue(obj, col)
			row[colIdx] = display

			if info, ok := detectLookup(obj, col, display); ok {
				if result.Lookups == nil {
					result.Lookups = make(map[Cell]LookupInfo)
				}
				result.Lookups[Cell{Row: rowIdx, Col: colIdx}] = info
			}
		}
		result.Rows = append(result.Rows, row)
	}
	return result
}

// displayValue prefers the formatted-value annotation, then the raw value,
// then EmptyCell for absent columns.
func displayValue(obj map[string]any, col string) string {
	if s, ok := obj[col+AnnotationFormattedValue].(string); ok {
		return s
	}
	if v, ok := obj[col]; ok {
		return FormatValue(v)
	}
	return EmptyCell
}

// detectLookup reports a lookup when the column carries a lookup logical-name
// annotation and a string id. This covers both plain navigation columns and
// the _name_value foreign-key convention.
func detectLookup(obj map[string]any, col, display string) (LookupInfo, bool) {
	logical, ok := obj[col+AnnotationLookupLogical].(string)
	if !ok || logical == "" {
		return LookupInfo{}, false
	}
	id, ok := obj[col].(string)
	if !ok || id == "" {
		return LookupInfo{}, false
	}
	return LookupInfo{ID: id, LogicalName: logical, DisplayName: display}, true
}

// IsLookupColumnName reports whether name follows the _name_value convention
// used for foreign-key columns.
func IsLookupColumnName(name string) bool {
	return len(name) > len("__value") && strings.HasPrefix(name, "_") && strings.HasSuffix(name, "_value")
}

// LookupBaseName strips the _ prefix and _value suffix from a lookup column.
func LookupBaseName(name string) string {
	if !IsLookupColumnName(name) {
		return name
	}
	return name[1 : len(name)-len("_value")]
}

// FormatValue renders a decoded JSON value for display.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return EmptyCell
	case bool:
		if val {
			return "true"
		}
		return "false"
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	case []any:
		return fmt.Sprintf("[%d items]", len(val))
	case map[string]any:
		return "{...}"
	default:
		return fmt.Sprintf("%v", v)
	}
}
