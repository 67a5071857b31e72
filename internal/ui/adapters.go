package ui

import (
	"time"

	"github.com/nhath/ezdv/internal/history"
	"github.com/nhath/ezdv/internal/ui/components/historylist"
)

func historyItems(entries []history.HistoryEntry) []historylist.Item {
	items := make([]historylist.Item, len(entries))
	for i, e := range entries {
		items[i] = historylist.Item{
			ID:       e.ID,
			Entity:   e.Entity,
			Kind:     string(e.Kind),
			Query:    e.Query,
			Err:      e.ErrorMessage,
			Preview:  e.Preview,
			Rows:     e.RowCount,
			Duration: time.Duration(e.DurationMs) * time.Millisecond,
			At:       e.ExecutedAt,
		}
	}
	return items
}

// setHistory replaces the history view contents.
func (m *Model) setHistory(entries []history.HistoryEntry) {
	m.historyEntries = entries
	m.historyList = m.historyList.SetItems(historyItems(entries))
}

// selectedHistory returns the entry under the history cursor.
func (m Model) selectedHistory() (history.HistoryEntry, bool) {
	i := m.historyList.Cursor()
	if i < 0 || i >= len(m.historyEntries) {
		return history.HistoryEntry{}, false
	}
	return m.historyEntries[i], true
}
