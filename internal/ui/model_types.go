// internal/ui/model_types.go
// Type definitions for the UI layer
package ui

import "github.com/nhath/ezdv/internal/query"

// View is the screen shown under any popups
type View int

const (
	ViewEntities View = iota
	ViewEntityDetail
	ViewFetchXML
	ViewHistory
	ViewSolutions
	ViewUsers
)

var viewNames = [...]string{"ENTITIES", "ENTITY", "FETCHXML", "HISTORY", "SOLUTIONS", "USERS"}

func (v View) String() string {
	return viewNames[v]
}

// ExportStep tracks the export popup
type ExportStep int

const (
	ExportClosed ExportStep = iota
	ExportChooseFormat
	ExportEnterPath
)

// recordRef identifies a record fetched for the record detail popup.
type recordRef struct {
	LogicalName string
	EntitySet   string
	ID          string
}

// recordFrame is one level of lookup navigation in the record popup.
type recordFrame struct {
	title  string
	result query.QueryResult
	cursor int
}
