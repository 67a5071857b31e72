package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/ezdv/internal/export"
	"github.com/nhath/ezdv/internal/query"
)

// openExportPopup starts the export flow for the current result
func (m *Model) openExportPopup() {
	res, _ := m.currentResult()
	if res == nil || res.RowCount() == 0 {
		m.statusMsg = "Nothing to export"
		return
	}
	m.exportStep = ExportChooseFormat
	m.exportFormat = export.CSV
	m.popupStack.Push("export", func(m *Model) bool {
		if m.exportStep == ExportClosed {
			return false
		}
		m.exportStep = ExportClosed
		m.exportInput.Blur()
		return true
	})
}

// chooseExportFormat moves to the path prompt with a default filename
func (m *Model) chooseExportFormat(format export.Format) tea.Cmd {
	_, entity := m.currentResult()
	m.exportFormat = format
	m.exportStep = ExportEnterPath
	m.exportInput.SetValue(export.DefaultFilename(entity, format, time.Now()))
	m.exportInput.CursorEnd()
	return m.exportInput.Focus()
}

// exportCmd writes a copy of res to path
func (m Model) exportCmd(path string) tea.Cmd {
	res, _ := m.currentResult()
	if res == nil {
		return nil
	}
	snapshot := *res
	format := m.exportFormat
	return func() tea.Msg {
		written, err := export.ToFile(strings.TrimSpace(path), snapshot, format)
		return ExportCompleteMsg{Path: written, Rows: snapshot.RowCount(), Err: err}
	}
}

// currentResult returns the result on screen and its entity name.
func (m Model) currentResult() (*query.QueryResult, string) {
	switch m.view {
	case ViewEntityDetail:
		return m.guided.Result(), m.guided.Entity().LogicalName
	case ViewFetchXML:
		return m.fetchResult, m.fetchEntity
	}
	return nil, ""
}
