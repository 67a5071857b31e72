// internal/history/entry.go
package history

import "time"

// Kind tells how a query was built.
type Kind string

const (
	KindGuided   Kind = "guided"
	KindFetchXML Kind = "fetchxml"
)

// Status values recorded for an execution.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// HistoryEntry represents a single query execution in history
type HistoryEntry struct {
	ID           int64
	Environment  string
	Entity       string
	Kind         Kind
	Query        string
	ExecutedAt   time.Time
	DurationMs   int64
	RowCount     int
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Preview      string `json:"preview,omitempty"` // first rows, tab separated
}

// QueryPreview returns a truncated version of the query
func (e *HistoryEntry) QueryPreview(maxLen int) string {
	q := []rune(e.Query)
	if len(q) > maxLen && maxLen > 3 {
		return string(q[:maxLen-3]) + "..."
	}
	return e.Query
}

// Failed reports whether the execution ended in an error.
func (e *HistoryEntry) Failed() bool {
	return e.Status == StatusError
}
