package historylist

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []Item {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return []Item{
		{ID: 3, Entity: "account", Kind: "guided", Query: "accounts?$top=5", Rows: 5, Duration: 120 * time.Millisecond, At: at, Preview: "Contoso"},
		{ID: 2, Entity: "contact", Kind: "fetchxml", Query: "<fetch/>", Err: "entity not found", At: at},
		{ID: 1, Entity: "lead", Kind: "guided", Query: "leads", At: at},
	}
}

func TestMoveStaysInRange(t *testing.T) {
	m := New().SetSize(80, 10).SetItems(sampleItems())
	assert.Equal(t, 0, m.Cursor())

	m = m.MoveUp()
	assert.Equal(t, 0, m.Cursor())

	m = m.MoveDown().MoveDown().MoveDown()
	assert.Equal(t, 2, m.Cursor())

	it, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(1), it.ID)
}

func TestSetItemsClampsCursor(t *testing.T) {
	m := New().SetSize(80, 10).SetItems(sampleItems()).MoveDown().MoveDown()
	m = m.SetItems(sampleItems()[:1])
	assert.Equal(t, 0, m.Cursor())

	m = m.SetItems(nil)
	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "No queries yet")
}

func TestToggleExpanded(t *testing.T) {
	m := New().SetSize(80, 20).SetItems(sampleItems())
	assert.NotContains(t, m.View(), "Contoso")

	m = m.ToggleExpanded()
	assert.True(t, m.IsExpanded(3))
	assert.Contains(t, m.View(), "Contoso")

	m = m.ToggleExpanded()
	assert.False(t, m.IsExpanded(3))
}

func TestViewShowsOutcome(t *testing.T) {
	m := New().SetSize(100, 20).SetItems(sampleItems())
	view := m.View()
	assert.Contains(t, view, "120ms")
	assert.Contains(t, view, "5 rows")
	assert.Contains(t, view, "entity not found")
}

func TestHighlightFuncApplied(t *testing.T) {
	m := New().SetSize(100, 20).SetHighlightFunc(strings.ToUpper).SetItems(sampleItems())
	assert.Contains(t, m.View(), "ACCOUNTS?$TOP=5")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abcdef", truncate("abcdef", 10))
	assert.Equal(t, "abc...", truncate("abcdefghij", 6))
}
