package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/ezdv/internal/history"
)

func (m Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys

	if m.historySearching {
		switch msg.Type {
		case tea.KeyEsc:
			m.historySearching = false
			m.historyInput.Blur()
			m.historyInput.SetValue("")
			return m, m.loadHistoryCmd()
		case tea.KeyEnter:
			m.historySearching = false
			m.historyInput.Blur()
			if term := m.historyInput.Value(); term != "" {
				return m, m.searchHistoryCmd(term)
			}
			return m, m.loadHistoryCmd()
		}
		var cmd tea.Cmd
		m.historyInput, cmd = m.historyInput.Update(msg)
		return m, cmd
	}

	switch {
	case matchKey(msg, keys.Exit):
		return m, tea.Quit
	case matchKey(msg, keys.Back):
		if m.historyInput.Value() != "" {
			m.historyInput.SetValue("")
			return m, m.loadHistoryCmd()
		}
		m.view = ViewEntities
	case matchKey(msg, keys.Up):
		m.historyList = m.historyList.MoveUp()
	case matchKey(msg, keys.Down):
		m.historyList = m.historyList.MoveDown()
	case msg.Type == tea.KeyEnter:
		m.historyList = m.historyList.ToggleExpanded()
	case matchKey(msg, keys.Search):
		m.historySearching = true
		cmd := m.historyInput.Focus()
		return m, cmd
	case matchKey(msg, keys.Execute):
		return m.replayHistory()
	case matchKey(msg, keys.Delete):
		return m, m.deleteHistoryCmd()
	case matchKey(msg, keys.Copy):
		if entry, ok := m.selectedHistory(); ok {
			return m, m.copyToClipboardCmd(entry.Query)
		}
	case msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		m.historyList, cmd = m.historyList.Update(msg)
		return m, cmd
	default:
		return m.handleGlobalKeys(msg)
	}
	return m, nil
}

// replayHistory reruns a FetchXML entry in the console. Guided entries
// reopen their entity so the query can be rebuilt.
func (m Model) replayHistory() (tea.Model, tea.Cmd) {
	entry, ok := m.selectedHistory()
	if !ok {
		return m, nil
	}

	if entry.Kind == history.KindFetchXML {
		m.view = ViewFetchXML
		m.fetchFocus = false
		m.fetchEditor.SetValue(entry.Query)
		focus := m.fetchEditor.Focus()
		var run tea.Cmd
		m, run = m.executeFetchXML()
		return m, tea.Batch(focus, run)
	}

	entity, found := m.catalog.Get(entry.Entity)
	if !found {
		m.errorMsg = "Unknown entity: " + entry.Entity
		return m, nil
	}
	m, cmd := m.openEntity(entity)
	m.statusMsg = "Previous query: " + entry.QueryPreview(60)
	return m, cmd
}

func (m Model) deleteHistoryCmd() tea.Cmd {
	store := m.historyStore
	entry, ok := m.selectedHistory()
	if store == nil || !ok {
		return nil
	}
	id := entry.ID
	reload := m.loadHistoryCmd()
	if term := m.historyInput.Value(); term != "" {
		reload = m.searchHistoryCmd(term)
	}
	return func() tea.Msg {
		if err := store.Delete(context.Background(), id); err != nil {
			return HistoryLoadedMsg{Err: err}
		}
		return reload()
	}
}
