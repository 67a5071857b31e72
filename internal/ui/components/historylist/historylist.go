// Package historylist renders past query executions as a scrollable list.
// Each entry takes two lines (query and outcome) and can be expanded to
// show the full query and the first rows it returned.
package historylist

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezdv/internal/ui/icons"
)

// Item is one execution as displayed in the list.
type Item struct {
	ID       int64
	Entity   string
	Kind     string
	Query    string
	Err      string
	Preview  string
	Rows     int
	Duration time.Duration
	At       time.Time
}

// Styles for the list
type Styles struct {
	Row      lipgloss.Style
	Selected lipgloss.Style
	Entity   lipgloss.Style
	Meta     lipgloss.Style
	Err      lipgloss.Style
	Ok       lipgloss.Style
	Faint    lipgloss.Style
}

// DefaultStyles returns default styling
func DefaultStyles() Styles {
	faint := lipgloss.Color("#4C566A")
	red := lipgloss.Color("#BF616A")
	return Styles{
		Row:      lipgloss.NewStyle().PaddingLeft(1),
		Selected: lipgloss.NewStyle().PaddingLeft(1).Background(lipgloss.Color("#434C5E")),
		Entity:   lipgloss.NewStyle().Foreground(lipgloss.Color("#88C0D0")).Bold(true),
		Meta:     lipgloss.NewStyle().Foreground(faint),
		Err:      lipgloss.NewStyle().Foreground(red),
		Ok:       lipgloss.NewStyle().Foreground(lipgloss.Color("#A3BE8C")),
		Faint:    lipgloss.NewStyle().Foreground(faint),
	}
}

// Model holds the list state.
type Model struct {
	items    []Item
	cursor   int
	open     map[int64]bool
	width    int
	vp       viewport.Model
	styles   Styles
	colorize func(string) string
}

// New creates an empty list.
func New() Model {
	return Model{
		open:   map[int64]bool{},
		vp:     viewport.New(80, 10),
		styles: DefaultStyles(),
	}
}

// SetItems replaces the entries, keeping the cursor in range.
func (m Model) SetItems(items []Item) Model {
	m.items = items
	m.cursor = min(m.cursor, max(len(items)-1, 0))
	return m.refresh()
}

func (m Model) Len() int { return len(m.items) }

// SetSize sets the list dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.vp.Width, m.vp.Height = width, height
	return m.refresh()
}

func (m Model) SetStyles(s Styles) Model {
	m.styles = s
	return m.refresh()
}

// SetHighlightFunc sets the function used to colour query text.
func (m Model) SetHighlightFunc(fn func(string) string) Model {
	m.colorize = fn
	return m.refresh()
}

// Cursor returns the index of the selected entry.
func (m Model) Cursor() int { return m.cursor }

// Selected returns the selected entry.
func (m Model) Selected() (Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return Item{}, false
	}
	return m.items[m.cursor], true
}

// IsExpanded reports whether the entry with id shows its details.
func (m Model) IsExpanded(id int64) bool { return m.open[id] }

// ToggleExpanded flips the detail view of the selected entry.
func (m Model) ToggleExpanded() Model {
	it, ok := m.Selected()
	if !ok {
		return m
	}
	if m.open[it.ID] {
		delete(m.open, it.ID)
	} else {
		m.open[it.ID] = true
	}
	return m.refresh()
}

func (m Model) MoveUp() Model {
	if m.cursor == 0 {
		return m
	}
	m.cursor--
	return m.refresh()
}

func (m Model) MoveDown() Model {
	if m.cursor >= len(m.items)-1 {
		return m
	}
	m.cursor++
	return m.refresh()
}

// Update forwards scrolling messages to the viewport.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.items) == 0 {
		return m.styles.Faint.Render("  (No queries yet)")
	}
	return m.vp.View()
}

// refresh re-renders every entry and scrolls the cursor into view.
func (m Model) refresh() Model {
	blocks := make([]string, len(m.items))
	top, bottom := 0, 0
	for i := range m.items {
		blocks[i] = m.render(i)
		h := lipgloss.Height(blocks[i])
		if i < m.cursor {
			top += h
		}
		if i == m.cursor {
			bottom = top + h
		}
	}
	m.vp.SetContent(strings.Join(blocks, "\n"))

	switch {
	case top < m.vp.YOffset:
		m.vp.SetYOffset(top)
	case bottom > m.vp.YOffset+m.vp.Height:
		m.vp.SetYOffset(bottom - m.vp.Height)
	}
	return m
}

func (m Model) render(i int) string {
	it := m.items[i]
	expanded := m.open[it.ID]

	q := it.Query
	if !expanded {
		q = truncate(q, max(m.width-len(it.Entity)-6, 10))
	}
	if m.colorize != nil {
		q = m.colorize(q)
	}

	lines := []string{m.styles.Entity.Render(it.Entity) + " " + q}

	mark, markStyle := icons.IconSuccess, m.styles.Ok
	if it.Err != "" {
		mark, markStyle = icons.IconError, m.styles.Err
	}
	meta := fmt.Sprintf(" %s · %dms · %d rows · %s", it.Kind, it.Duration.Milliseconds(), it.Rows, it.At.Format("2006-01-02 15:04:05"))
	lines = append(lines, markStyle.Render("  "+mark)+m.styles.Meta.Render(meta))

	if it.Err != "" {
		lines = append(lines, m.styles.Err.Render("  "+it.Err))
	}
	if expanded && it.Preview != "" {
		lines = append(lines, m.styles.Faint.Padding(0, 4).Render(it.Preview))
	}

	style := m.styles.Row
	if i == m.cursor {
		style = m.styles.Selected
	}
	return style.Width(max(m.width-2, 10)).Render(strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n <= 3 {
		return s
	}
	return string(r[:n-3]) + "..."
}
