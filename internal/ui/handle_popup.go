package ui

import (
	"bytes"
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/ezdv/internal/export"
	"github.com/nhath/ezdv/internal/query"
	"github.com/nhath/ezdv/internal/ui/highlight"
)

const (
	popupRecord       = "record"
	popupJSON         = "json"
	popupHelp         = "help"
	popupExport       = "export"
	popupEnvironments = "environments"
)

// handlePopupKeys routes keys to the topmost popup
func (m Model) handlePopupKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.popupStack.TopName() {
	case popupRecord:
		return m.handleRecordKeys(msg)
	case popupExport:
		return m.handleExportKeys(msg)
	case popupEnvironments:
		return m.handleEnvironmentKeys(msg)
	case popupJSON, popupHelp:
		if matchKey(msg, m.keys.Back) || matchKey(msg, m.keys.Exit) || matchKey(msg, m.keys.Help) {
			m.popupStack.CloseTop(&m)
			return m, nil
		}
		var cmd tea.Cmd
		if m.popupStack.TopName() == popupJSON {
			m.jsonPopup, cmd = m.jsonPopup.Update(msg)
		} else {
			m.helpPopup, cmd = m.helpPopup.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// openRecordPopup shows row of res as a one-record view
func (m *Model) openRecordPopup(res query.QueryResult, row int) {
	if row < 0 || row >= len(res.Rows) {
		return
	}
	single := query.QueryResult{
		Columns: res.Columns,
		Rows:    [][]string{res.Rows[row]},
	}
	for c := range res.Columns {
		if info, ok := res.Lookup(row, c); ok {
			if single.Lookups == nil {
				single.Lookups = make(map[query.Cell]query.LookupInfo)
			}
			single.Lookups[query.Cell{Row: 0, Col: c}] = info
		}
	}

	m.recordResult = single
	m.recordCursor = 0
	m.recordStack = nil
	m.recordLoading = false
	m.recordPopup = m.recordPopup.Show(
		fmt.Sprintf(" Record Details [Row %d] ", row+1),
		m.renderRecordBody(),
		" Esc: Back │ Enter: Navigate │ ↑↓: Scroll ",
	)
	m.popupStack.Push(popupRecord, func(m *Model) bool {
		if !m.recordPopup.Visible() {
			return false
		}
		m.recordPopup = m.recordPopup.Hide()
		m.recordStack = nil
		return true
	})
}

func (m Model) handleRecordKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case matchKey(msg, keys.Back), matchKey(msg, keys.Exit):
		if n := len(m.recordStack); n > 0 {
			frame := m.recordStack[n-1]
			m.recordStack = m.recordStack[:n-1]
			m.recordResult = frame.result
			m.recordCursor = frame.cursor
			m.recordLoading = false
			m.recordPopup = m.recordPopup.SetTitle(frame.title).SetContent(m.renderRecordBody()).EnsureVisible(m.recordCursor)
			return m, nil
		}
		m.popupStack.CloseTop(&m)
	case matchKey(msg, keys.Up):
		if m.recordCursor > 0 {
			m.recordCursor--
		}
		m.recordPopup = m.recordPopup.SetContent(m.renderRecordBody()).EnsureVisible(m.recordCursor)
	case matchKey(msg, keys.Down):
		if m.recordCursor < len(m.recordResult.Columns)-1 {
			m.recordCursor++
		}
		m.recordPopup = m.recordPopup.SetContent(m.renderRecordBody()).EnsureVisible(m.recordCursor)
	case matchKey(msg, keys.Copy):
		if len(m.recordResult.Rows) > 0 && m.recordCursor < len(m.recordResult.Rows[0]) {
			return m, m.copyToClipboardCmd(m.recordResult.Rows[0][m.recordCursor])
		}
	case msg.Type == tea.KeyEnter:
		return m.followLookup()
	}
	return m, nil
}

// followLookup opens the record referenced by the highlighted lookup cell.
func (m Model) followLookup() (Model, tea.Cmd) {
	if m.recordLoading {
		return m, nil
	}
	info, ok := m.recordResult.Lookup(0, m.recordCursor)
	if !ok {
		m.statusMsg = "Not a lookup field"
		return m, nil
	}
	set, authoritative := m.catalog.EntitySetName(info.LogicalName)
	if !authoritative {
		m.statusMsg = fmt.Sprintf("Entity set for %s guessed as %s", info.LogicalName, set)
	}

	m.recordStack = append(m.recordStack, recordFrame{
		title:  m.recordPopup.Title(),
		result: m.recordResult,
		cursor: m.recordCursor,
	})
	m.recordLoading = true
	ref := recordRef{LogicalName: info.LogicalName, EntitySet: set, ID: info.ID}
	return m, tea.Batch(m.spinner.Tick, m.loadRecordCmd(ref))
}

func (m Model) handleRecordLoaded(msg RecordLoadedMsg) Model {
	if !m.recordLoading {
		return m
	}
	m.recordLoading = false
	if msg.Err != nil {
		// Stay on the current record
		if n := len(m.recordStack); n > 0 {
			m.recordStack = m.recordStack[:n-1]
		}
		m.errorMsg = errorText(msg.Err)
		return m
	}
	m.recordResult = msg.Result
	m.recordCursor = 0
	m.recordPopup = m.recordPopup.
		SetTitle(fmt.Sprintf(" Record: %s (%s) ", msg.Ref.LogicalName, msg.Ref.ID)).
		SetContent(m.renderRecordBody()).
		EnsureVisible(0)
	return m
}

// openJSONPopup shows the raw response body of the current result
func (m *Model) openJSONPopup() {
	res, _ := m.currentResult()
	if res == nil || res.RawJSON == "" {
		m.statusMsg = "No response to show"
		return
	}
	body := res.RawJSON
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(body), "", "  "); err == nil {
		body = pretty.String()
	}
	m.jsonPopup = m.jsonPopup.Show(" Raw JSON ", highlight.JSON(body, syntaxStyle), " Esc: Back │ ↑↓: Scroll ")
	m.popupStack.Push(popupJSON, func(m *Model) bool {
		if !m.jsonPopup.Visible() {
			return false
		}
		m.jsonPopup = m.jsonPopup.Hide()
		return true
	})
}

// openHelpPopup shows the key bindings
func (m *Model) openHelpPopup() {
	m.helpPopup = m.helpPopup.Show(" Keyboard Shortcuts ", m.renderHelpBody(), " Esc: Close ")
	m.popupStack.Push(popupHelp, func(m *Model) bool {
		if !m.helpPopup.Visible() {
			return false
		}
		m.helpPopup = m.helpPopup.Hide()
		return true
	})
}

func (m Model) handleExportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.exportStep == ExportEnterPath {
		switch msg.Type {
		case tea.KeyEnter:
			path := m.exportInput.Value()
			m.popupStack.CloseTop(&m)
			return m, m.exportCmd(path)
		case tea.KeyEsc:
			m.popupStack.CloseTop(&m)
			return m, nil
		}
		var cmd tea.Cmd
		m.exportInput, cmd = m.exportInput.Update(msg)
		return m, cmd
	}

	keys := m.keys
	switch {
	case matchKey(msg, keys.Back), matchKey(msg, keys.Exit):
		m.popupStack.CloseTop(&m)
	case msg.String() == "c":
		cmd := m.chooseExportFormat(export.CSV)
		return m, cmd
	case msg.String() == "j":
		cmd := m.chooseExportFormat(export.JSON)
		return m, cmd
	case matchKey(msg, keys.Up), matchKey(msg, keys.Down), matchKey(msg, keys.Left), matchKey(msg, keys.Right):
		if m.exportFormat == export.CSV {
			m.exportFormat = export.JSON
		} else {
			m.exportFormat = export.CSV
		}
	case msg.Type == tea.KeyEnter:
		cmd := m.chooseExportFormat(m.exportFormat)
		return m, cmd
	}
	return m, nil
}

// openEnvironmentPicker lists the configured environments
func (m *Model) openEnvironmentPicker() {
	names := m.config.ListEnvironments()
	if len(names) == 0 {
		m.statusMsg = "No environments configured"
		return
	}
	m.envPicker = true
	m.envCursor = 0
	for i, name := range names {
		if name == m.environment {
			m.envCursor = i
		}
	}
	m.popupStack.Push(popupEnvironments, func(m *Model) bool {
		if !m.envPicker {
			return false
		}
		m.envPicker = false
		return true
	})
}

func (m Model) handleEnvironmentKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	names := m.config.ListEnvironments()
	switch {
	case matchKey(msg, keys.Back), matchKey(msg, keys.Exit):
		m.popupStack.CloseTop(&m)
	case matchKey(msg, keys.Up):
		if m.envCursor > 0 {
			m.envCursor--
		}
	case matchKey(msg, keys.Down):
		if m.envCursor < len(names)-1 {
			m.envCursor++
		}
	case msg.Type == tea.KeyEnter:
		if m.envCursor >= len(names) {
			return m, nil
		}
		m.popupStack.CloseTop(&m)
		name := names[m.envCursor]
		if name == m.environment {
			return m, nil
		}
		if m.connect == nil {
			m.errorMsg = "Switching environments is not available"
			return m, nil
		}
		m.loading = true
		m.statusMsg = "Connecting to " + name + "..."
		return m, tea.Batch(m.spinner.Tick, m.switchEnvironmentCmd(name))
	}
	return m, nil
}
