package ui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/ezdv/internal/config"
	"github.com/nhath/ezdv/internal/guided"
	"github.com/nhath/ezdv/internal/ui/components/entitydetail"
	eztable "github.com/nhath/ezdv/internal/ui/components/table"
)

const (
	optionOrderBy = iota
	optionTop
	optionCount
)

// handleGuidedKeys drives the guided query on the Query tab
func (m Model) handleGuidedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingTop {
		return m.handleTopInput(msg)
	}
	if _, pending := m.guided.Pending(); pending {
		return m.handlePendingFilter(msg)
	}

	keys := m.keys
	switch {
	case matchKey(msg, keys.Execute):
		return m.executeGuided()
	case matchKey(msg, keys.NextSection):
		if m.guided.NextSection() {
			return m.executeGuided()
		}
		return m, nil
	case matchKey(msg, keys.PrevTab):
		m.detail = m.detail.SetTab(entitydetail.TabMetadata)
		return m, nil
	case matchKey(msg, keys.Back):
		m.view = ViewEntities
		return m, nil
	case matchKey(msg, keys.Clear):
		m.guided.Clear()
		m.optionRow = 0
		m.refreshResultsTable()
		m.statusMsg = "Query cleared"
		return m, nil
	case matchKey(msg, keys.Exit):
		return m, tea.Quit
	}

	switch m.guided.Mode() {
	case guided.ModeColumns:
		return m.handleColumnsKeys(msg)
	case guided.ModeFilter:
		return m.handleFilterKeys(msg)
	case guided.ModeOptions:
		return m.handleOptionsKeys(msg)
	case guided.ModeResults:
		return m.handleResultsKeys(msg)
	}
	return m, nil
}

func (m Model) handleColumnsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case matchKey(msg, keys.Up):
		m.guided.MoveColumnCursor(-1)
	case matchKey(msg, keys.Down):
		m.guided.MoveColumnCursor(1)
	case msg.Type == tea.KeyPgUp:
		m.guided.MoveColumnCursor(-m.columnWindow())
	case msg.Type == tea.KeyPgDown:
		m.guided.MoveColumnCursor(m.columnWindow())
	case matchKey(msg, keys.Toggle):
		m.guided.ToggleCurrentColumn()
	case matchKey(msg, keys.SelectAll):
		m.guided.SelectAll()
	case matchKey(msg, keys.ClearAll):
		m.guided.ClearSelection()
	case msg.Type == tea.KeyEnter:
		m.guided.BeginFilter()
	default:
		return m.handleGlobalKeys(msg)
	}
	return m, nil
}

// handlePendingFilter edits the filter being built: typed text goes to
// the value and up/down cycle the operator.
func (m Model) handlePendingFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case msg.Type == tea.KeyEnter:
		if err := m.guided.CommitFilter(); err != nil {
			m.errorMsg = err.Error()
		} else {
			m.errorMsg = ""
		}
	case msg.Type == tea.KeyEsc:
		m.guided.CancelFilter()
	case msg.Type == tea.KeyBackspace:
		m.guided.BackspacePendingValue()
	case msg.Type == tea.KeyUp:
		m.guided.CycleOperator(false)
	case msg.Type == tea.KeyDown:
		m.guided.CycleOperator(true)
	case matchKey(msg, keys.Execute):
		return m.executeGuided()
	case msg.Type == tea.KeySpace:
		m.guided.AppendPendingValue(" ")
	case msg.Type == tea.KeyRunes:
		m.guided.AppendPendingValue(string(msg.Runes))
	}
	return m, nil
}

func (m Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case matchKey(msg, keys.Up):
		m.guided.MoveFilterCursor(-1)
	case matchKey(msg, keys.Down):
		m.guided.MoveFilterCursor(1)
	case msg.Type == tea.KeyEnter:
		m.guided.BeginFilter()
	case matchKey(msg, keys.Delete):
		m.guided.RemoveCurrentFilter()
	case msg.Type == tea.KeyBackspace:
		m.guided.PopFilter()
	default:
		return m.handleGlobalKeys(msg)
	}
	return m, nil
}

func (m Model) handleOptionsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case matchKey(msg, keys.Up):
		m.optionRow = (m.optionRow + optionCount - 1) % optionCount
	case matchKey(msg, keys.Down):
		m.optionRow = (m.optionRow + 1) % optionCount
	case m.optionRow == optionOrderBy && matchKey(msg, keys.Left):
		m.guided.MoveColumnCursor(-1)
		m.guided.OrderByCurrentColumn()
	case m.optionRow == optionOrderBy && matchKey(msg, keys.Right):
		m.guided.MoveColumnCursor(1)
		m.guided.OrderByCurrentColumn()
	case m.optionRow == optionOrderBy && msg.Type == tea.KeyEnter:
		m.guided.OrderByCurrentColumn()
	case m.optionRow == optionOrderBy && matchKey(msg, keys.Delete):
		m.guided.ToggleOrderDirection()
	case m.optionRow == optionOrderBy && matchKey(msg, keys.ClearAll):
		m.guided.SetOrderBy("", false)
	case m.optionRow == optionTop && msg.Type == tea.KeyEnter:
		m.editingTop = true
		m.topInput.SetValue("")
		if n, ok := m.guided.Top(); ok {
			m.topInput.SetValue(strconv.Itoa(n))
		}
		m.topInput.CursorEnd()
		cmd := m.topInput.Focus()
		return m, cmd
	case m.optionRow == optionTop && matchKey(msg, keys.ClearAll):
		_ = m.guided.SetTopText("")
	default:
		return m.handleGlobalKeys(msg)
	}
	return m, nil
}

func (m Model) handleTopInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if err := m.guided.SetTopText(m.topInput.Value()); err != nil {
			m.errorMsg = err.Error()
			return m, nil
		}
		m.errorMsg = ""
		m.editingTop = false
		m.topInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.editingTop = false
		m.topInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.topInput, cmd = m.topInput.Update(msg)
	return m, cmd
}

func (m Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	res := m.guided.Result()
	switch {
	case matchKey(msg, keys.NextPage):
		return m.loadMore()
	case matchKey(msg, keys.RawJSON):
		m.openJSONPopup()
	case matchKey(msg, keys.Export):
		m.openExportPopup()
	case matchKey(msg, keys.Copy):
		return m, m.copyRowCmd(res, m.resultsTable)
	case matchKey(msg, keys.Pager):
		return m.pageResult(res)
	case msg.Type == tea.KeyEnter:
		if res == nil {
			return m, nil
		}
		if row, ok := eztable.HighlightedIndex(m.resultsTable); ok {
			m.openRecordPopup(*res, row)
		}
	case matchKey(msg, keys.Up), matchKey(msg, keys.Down),
		matchKey(msg, keys.Left), matchKey(msg, keys.Right),
		msg.Type == tea.KeyPgUp:
		var cmd tea.Cmd
		m.resultsTable, cmd = m.resultsTable.Update(translatePaging(msg, keys))
		return m, cmd
	default:
		return m.handleGlobalKeys(msg)
	}
	return m, nil
}

// translatePaging maps configured motion keys onto the keys bubble-table
// handles: up/down move rows, left/right flip pages.
func translatePaging(msg tea.KeyMsg, keys config.KeyMap) tea.KeyMsg {
	switch {
	case matchKey(msg, keys.Up):
		return tea.KeyMsg{Type: tea.KeyUp}
	case matchKey(msg, keys.Down):
		return tea.KeyMsg{Type: tea.KeyDown}
	case matchKey(msg, keys.Left):
		return tea.KeyMsg{Type: tea.KeyLeft}
	case matchKey(msg, keys.Right):
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return msg
}

// columnWindow is how many columns the Columns section shows at once
func (m Model) columnWindow() int {
	return max(m.bodyHeight()-12, 5)
}
