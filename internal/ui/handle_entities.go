package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// applyEntitySearch refilters the entity list from the search box
func (m *Model) applyEntitySearch() {
	m.entities = m.catalog.Search(m.searchInput.Value())
	if m.entityCursor >= len(m.entities) {
		m.entityCursor = max(len(m.entities)-1, 0)
	}
}

func (m Model) handleEntityListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys

	if m.searching {
		switch msg.Type {
		case tea.KeyEsc:
			m.searching = false
			m.searchInput.Blur()
			m.searchInput.SetValue("")
			m.applyEntitySearch()
			return m, nil
		case tea.KeyEnter:
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		case tea.KeyUp, tea.KeyDown:
			// fall through to list navigation
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			m.entityCursor = 0
			m.applyEntitySearch()
			return m, cmd
		}
	}

	switch {
	case matchKey(msg, keys.Exit):
		return m, tea.Quit
	case matchKey(msg, keys.Up):
		if m.entityCursor > 0 {
			m.entityCursor--
		}
	case matchKey(msg, keys.Down):
		if m.entityCursor < len(m.entities)-1 {
			m.entityCursor++
		}
	case msg.Type == tea.KeyPgUp:
		m.entityCursor = max(m.entityCursor-m.bodyHeight()/2, 0)
	case msg.Type == tea.KeyPgDown:
		m.entityCursor = max(min(m.entityCursor+m.bodyHeight()/2, len(m.entities)-1), 0)
	case msg.Type == tea.KeyEnter:
		if m.entityCursor < len(m.entities) {
			return m.openEntity(m.entities[m.entityCursor])
		}
	case matchKey(msg, keys.Search):
		m.searching = true
		cmd := m.searchInput.Focus()
		return m, cmd
	case matchKey(msg, keys.Back):
		if m.searchInput.Value() != "" {
			m.searchInput.SetValue("")
			m.applyEntitySearch()
		}
	default:
		return m.handleGlobalKeys(msg)
	}
	return m, nil
}

// handleGlobalKeys covers bindings available from every view when no
// text field has focus.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case matchKey(msg, keys.Help):
		m.openHelpPopup()
	case matchKey(msg, keys.FetchXML):
		m.view = ViewFetchXML
		m.fetchFocus = false
		cmd := m.fetchEditor.Focus()
		return m, cmd
	case matchKey(msg, keys.History):
		m.view = ViewHistory
		return m, m.loadHistoryCmd()
	case matchKey(msg, keys.Solutions):
		return m.showSolutions()
	case matchKey(msg, keys.Users):
		return m.showUsers()
	case matchKey(msg, keys.Environments):
		m.openEnvironmentPicker()
	}
	return m, nil
}
