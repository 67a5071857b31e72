package ui

import (
	"os"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/evertras/bubble-table/table"

	"github.com/nhath/ezdv/internal/export"
	"github.com/nhath/ezdv/internal/query"
	eztable "github.com/nhath/ezdv/internal/ui/components/table"
)

// copyToClipboardCmd copies text to the system clipboard
func (m Model) copyToClipboardCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ClipboardCopiedMsg{Err: err}
		}
		return ClipboardCopiedMsg{Text: text}
	}
}

// openPager writes result as CSV to a temp file and opens it in the
// configured pager.
func (m Model) openPager(result *query.QueryResult) tea.Cmd {
	if m.config.Pager == "" || result == nil || result.RowCount() == 0 {
		return nil
	}
	parts := strings.Fields(m.config.Pager)
	if len(parts) == 0 {
		return nil
	}

	f, err := os.CreateTemp("", "ezdv-*.csv")
	if err != nil {
		return func() tea.Msg { return PagerFinishedMsg{Err: err} }
	}
	defer f.Close()

	if err := export.WriteCSV(f, *result); err != nil {
		os.Remove(f.Name())
		return func() tea.Msg { return PagerFinishedMsg{Err: err} }
	}

	c := exec.Command(parts[0], append(parts[1:], f.Name())...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		os.Remove(f.Name())
		return PagerFinishedMsg{Err: err}
	})
}

// copyRowCmd copies the highlighted row of res, tab separated
func (m Model) copyRowCmd(res *query.QueryResult, t table.Model) tea.Cmd {
	if res == nil {
		return nil
	}
	row, ok := eztable.HighlightedIndex(t)
	if !ok || row >= len(res.Rows) {
		return nil
	}
	return m.copyToClipboardCmd(strings.Join(res.Rows[row], "\t"))
}

// pageResult opens res in the external pager
func (m Model) pageResult(res *query.QueryResult) (Model, tea.Cmd) {
	if m.config.Pager == "" {
		m.statusMsg = "No pager configured"
		return m, nil
	}
	return m, m.openPager(res)
}
