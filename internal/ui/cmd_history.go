package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/ezdv/internal/history"
	"github.com/nhath/ezdv/internal/query"
)

const historyPageSize = 100

// loadHistoryCmd loads query history for the current environment
func (m Model) loadHistoryCmd() tea.Cmd {
	store := m.historyStore
	env := m.environment
	return func() tea.Msg {
		if store == nil {
			return HistoryLoadedMsg{}
		}
		entries, err := store.List(context.Background(), env, historyPageSize, 0)
		return HistoryLoadedMsg{Entries: entries, Err: err}
	}
}

// searchHistoryCmd filters history by query text or entity name
func (m Model) searchHistoryCmd(term string) tea.Cmd {
	store := m.historyStore
	env := m.environment
	return func() tea.Msg {
		if store == nil {
			return HistoryLoadedMsg{}
		}
		entries, err := store.Search(context.Background(), env, term, historyPageSize)
		return HistoryLoadedMsg{Entries: entries, Err: err}
	}
}

// recordHistoryCmd saves one execution. Failed requests are recorded with
// their error and no rows.
func (m Model) recordHistoryCmd(kind history.Kind, entity, qs string, started time.Time, res *query.QueryResult, execErr error) tea.Cmd {
	store := m.historyStore
	if store == nil {
		return nil
	}
	entry := &history.HistoryEntry{
		Environment: m.environment,
		Entity:      entity,
		Kind:        kind,
		Query:       qs,
		ExecutedAt:  started,
		DurationMs:  time.Since(started).Milliseconds(),
		Status:      history.StatusSuccess,
	}
	switch {
	case execErr != nil:
		entry.Status = history.StatusError
		entry.ErrorMessage = errorText(execErr)
	case res != nil && res.Failed():
		entry.Status = history.StatusError
		entry.ErrorMessage = res.Error
	case res != nil:
		entry.RowCount = res.RowCount()
		entry.Preview = previewRows(*res, m.config.HistoryPreviewRows)
	}
	return func() tea.Msg {
		return HistorySavedMsg{Err: store.Add(context.Background(), entry)}
	}
}
