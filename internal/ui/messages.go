// internal/ui/messages.go
// Message types for the Bubble Tea update cycle
package ui

import (
	"time"

	"github.com/nhath/ezdv/internal/dataverse"
	"github.com/nhath/ezdv/internal/history"
	"github.com/nhath/ezdv/internal/query"
)

// CatalogLoadedMsg is sent when the entity list has been fetched
type CatalogLoadedMsg struct {
	Environment string
	Entities    []dataverse.EntityMetadata
	Err         error
}

// QueryResultMsg is sent when a guided query or next page completes
type QueryResultMsg struct {
	Entity   string
	Query    string
	Body     []byte
	Started  time.Time
	LoadMore bool
	Err      error
}

// RecordLoadedMsg is sent when a single record has been fetched
type RecordLoadedMsg struct {
	Ref    recordRef
	Result query.QueryResult
	Err    error
}

// FetchXMLResultMsg is sent when a FetchXML execution completes
type FetchXMLResultMsg struct {
	Environment string
	Query       string
	Fetch       dataverse.FetchResult
	Started     time.Time
	Err         error
}

// HistoryLoadedMsg sent when history loads from SQLite
type HistoryLoadedMsg struct {
	Entries []history.HistoryEntry
	Err     error
}

// HistorySavedMsg is sent after an execution has been recorded
type HistorySavedMsg struct {
	Err error
}

// ExportCompleteMsg is sent when export is complete
type ExportCompleteMsg struct {
	Path string
	Rows int
	Err  error
}

// EnvironmentSwitchedMsg is sent when the switcher has connected
type EnvironmentSwitchedMsg struct {
	Environment string
	Service     Service
	Err         error
}

// ClipboardCopiedMsg is sent when clipboard copy completes
type ClipboardCopiedMsg struct {
	Text string
	Err  error
}

// PagerFinishedMsg is sent when the external pager exits
type PagerFinishedMsg struct {
	Err error
}
