package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/ezdv/internal/ui/components/userlist"
)

// showSolutions switches to the solution list, loading it on first use
func (m Model) showSolutions() (Model, tea.Cmd) {
	m.view = ViewSolutions
	m.filtering = false
	m.filterInput.Blur()
	if m.solutions.Loaded() || m.solutions.Loading() || m.svc == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.solutions, cmd = m.solutions.Load(m.svc)
	return m, cmd
}

// showUsers switches to the user list, loading it on first use
func (m Model) showUsers() (Model, tea.Cmd) {
	m.view = ViewUsers
	m.filtering = false
	m.filterInput.Blur()
	if m.users.Loaded() || m.users.Loading() || m.svc == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.users, cmd = m.users.Load(m.svc)
	return m, cmd
}

// handleListFilter feeds the shared filter box. It reports whether the
// key was consumed.
func (m *Model) handleListFilter(msg tea.KeyMsg, apply func(string)) (tea.Cmd, bool) {
	if !m.filtering {
		return nil, false
	}
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		apply("")
	case tea.KeyEnter:
		m.filtering = false
		m.filterInput.Blur()
	default:
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		apply(m.filterInput.Value())
		return cmd, true
	}
	return nil, true
}

func (m *Model) startListFilter(placeholder, current string) tea.Cmd {
	m.filtering = true
	m.filterInput.Placeholder = placeholder
	m.filterInput.SetValue(current)
	return m.filterInput.Focus()
}

func (m Model) handleSolutionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	if cmd, ok := m.handleListFilter(msg, func(s string) { m.solutions = m.solutions.SetFilter(s) }); ok {
		return m, cmd
	}

	_, open := m.solutions.Opened()
	switch {
	case matchKey(msg, keys.Back):
		switch {
		case open:
			m.solutions = m.solutions.Close()
		case m.solutions.Filter() != "":
			m.filterInput.SetValue("")
			m.solutions = m.solutions.SetFilter("")
		default:
			m.view = ViewEntities
		}
	case matchKey(msg, keys.Exit):
		return m, tea.Quit
	case matchKey(msg, keys.Search) && !open:
		cmd := m.startListFilter("Filter solutions...", m.solutions.Filter())
		return m, cmd
	case msg.Type == tea.KeyEnter && !open && m.svc != nil:
		var cmd tea.Cmd
		m.solutions, cmd = m.solutions.OpenSelected(m.svc)
		return m, cmd
	case matchKey(msg, keys.Execute) && !open && m.svc != nil:
		var cmd tea.Cmd
		m.solutions, cmd = m.solutions.Load(m.svc)
		return m, cmd
	case matchKey(msg, keys.Up), matchKey(msg, keys.Down), matchKey(msg, keys.Left), matchKey(msg, keys.Right),
		msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		m.solutions, cmd = m.solutions.Update(translatePaging(msg, keys))
		return m, cmd
	default:
		return m.handleGlobalKeys(msg)
	}
	return m, nil
}

func (m Model) handleUserKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	if cmd, ok := m.handleListFilter(msg, func(s string) { m.users = m.users.SetFilter(s) }); ok {
		return m, cmd
	}

	_, open := m.users.Opened()
	if open {
		switch {
		case matchKey(msg, keys.NextSection), matchKey(msg, keys.Right):
			m.users = m.users.NextTab()
			return m, nil
		case matchKey(msg, keys.PrevTab), matchKey(msg, keys.Left):
			m.users = m.users.PrevTab()
			return m, nil
		}
	}

	switch {
	case matchKey(msg, keys.Back):
		switch {
		case open:
			m.users = m.users.Close()
		case m.users.Filter() != "":
			m.filterInput.SetValue("")
			m.users = m.users.SetFilter("")
		default:
			m.view = ViewEntities
		}
	case matchKey(msg, keys.Exit):
		return m, tea.Quit
	case matchKey(msg, keys.Search) && !open:
		cmd := m.startListFilter("Filter users...", m.users.Filter())
		return m, cmd
	case msg.Type == tea.KeyEnter && !open && m.svc != nil:
		var cmd tea.Cmd
		m.users, cmd = m.users.OpenSelected(m.svc)
		return m, cmd
	case matchKey(msg, keys.Toggle) && !open && m.svc != nil:
		var cmd tea.Cmd
		m.users, cmd = m.users.ToggleDisabled(m.svc)
		return m, cmd
	case matchKey(msg, keys.Execute) && !open && m.svc != nil:
		var cmd tea.Cmd
		m.users, cmd = m.users.Load(m.svc)
		return m, cmd
	case matchKey(msg, keys.Up), matchKey(msg, keys.Down), msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown,
		!open && (matchKey(msg, keys.Left) || matchKey(msg, keys.Right)):
		var cmd tea.Cmd
		m.users, cmd = m.users.Update(translatePaging(msg, keys))
		return m, cmd
	default:
		return m.handleGlobalKeys(msg)
	}
	return m, nil
}

// userTab is the detail tab shown for the opened user, if any
func (m Model) userTab() (userlist.Tab, bool) {
	if _, open := m.users.Opened(); !open {
		return 0, false
	}
	return m.users.ActiveTab(), true
}
