package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/ezdv/internal/ui/components/entitydetail"
)

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail.ActiveTab() == entitydetail.TabQuery {
		return m.handleGuidedKeys(msg)
	}

	keys := m.keys

	// Attribute filter box
	if m.filtering {
		switch msg.Type {
		case tea.KeyEsc:
			m.filtering = false
			m.filterInput.Blur()
			m.filterInput.SetValue("")
			m.detail = m.detail.SetFilter("")
		case tea.KeyEnter:
			m.filtering = false
			m.filterInput.Blur()
		default:
			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			m.detail = m.detail.SetFilter(m.filterInput.Value())
			return m, cmd
		}
		return m, nil
	}

	switch {
	case matchKey(msg, keys.Back):
		if m.detail.Filter() != "" {
			m.filterInput.SetValue("")
			m.detail = m.detail.SetFilter("")
			return m, nil
		}
		m.view = ViewEntities
	case matchKey(msg, keys.Exit):
		return m, tea.Quit
	case matchKey(msg, keys.NextSection), matchKey(msg, keys.Right):
		m.detail = m.detail.NextTab()
	case matchKey(msg, keys.PrevTab), matchKey(msg, keys.Left):
		m.detail = m.detail.PrevTab()
	case matchKey(msg, keys.Search) && m.detail.ActiveTab() == entitydetail.TabAttributes:
		m.filtering = true
		cmd := m.filterInput.Focus()
		return m, cmd
	case msg.Type == tea.KeyEnter:
		m.detail = m.detail.SetTab(entitydetail.TabQuery)
	case matchKey(msg, keys.Execute):
		m.detail = m.detail.SetTab(entitydetail.TabQuery)
		return m.executeGuided()
	case matchKey(msg, keys.Up), matchKey(msg, keys.Down), msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(translatePaging(msg, keys))
		return m, cmd
	default:
		return m.handleGlobalKeys(msg)
	}
	return m, nil
}
