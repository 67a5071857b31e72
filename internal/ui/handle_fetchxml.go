package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	eztable "github.com/nhath/ezdv/internal/ui/components/table"
)

// handleFetchXMLKeys drives the FetchXML console. The editor owns the
// keyboard until a result arrives; tab moves focus between the two.
func (m Model) handleFetchXMLKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys

	switch {
	case matchKey(msg, keys.Execute):
		return m.executeFetchXML()
	case msg.Type == tea.KeyEsc:
		if !m.fetchFocus {
			m.fetchEditor.Blur()
			m.view = ViewEntities
			return m, nil
		}
		m.fetchFocus = false
		cmd := m.fetchEditor.Focus()
		return m, cmd
	case msg.Type == tea.KeyTab && m.fetchResult != nil:
		m.fetchFocus = !m.fetchFocus
		if m.fetchFocus {
			m.fetchEditor.Blur()
			return m, nil
		}
		cmd := m.fetchEditor.Focus()
		return m, cmd
	}

	if !m.fetchFocus {
		var cmd tea.Cmd
		m.fetchEditor, cmd = m.fetchEditor.Update(msg)
		return m, cmd
	}

	switch {
	case matchKey(msg, keys.Exit):
		return m, tea.Quit
	case matchKey(msg, keys.RawJSON):
		m.openJSONPopup()
	case matchKey(msg, keys.Export):
		m.openExportPopup()
	case matchKey(msg, keys.Copy):
		return m, m.copyRowCmd(m.fetchResult, m.fetchTable)
	case matchKey(msg, keys.Pager):
		return m.pageResult(m.fetchResult)
	case msg.Type == tea.KeyEnter:
		if m.fetchResult == nil {
			return m, nil
		}
		if row, ok := eztable.HighlightedIndex(m.fetchTable); ok {
			m.openRecordPopup(*m.fetchResult, row)
		}
	case matchKey(msg, keys.Up), matchKey(msg, keys.Down),
		matchKey(msg, keys.Left), matchKey(msg, keys.Right),
		msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		m.fetchTable, cmd = m.fetchTable.Update(translatePaging(msg, keys))
		return m, cmd
	default:
		return m.handleGlobalKeys(msg)
	}
	return m, nil
}

func (m Model) executeFetchXML() (Model, tea.Cmd) {
	if m.loading {
		m.statusMsg = "Query already running"
		return m, nil
	}
	fetchXML := strings.TrimSpace(m.fetchEditor.Value())
	if fetchXML == "" {
		m.errorMsg = "FetchXML is empty"
		return m, nil
	}
	m.errorMsg = ""
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.runFetchXMLCmd(fetchXML))
}
