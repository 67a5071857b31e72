// Package popup provides a reusable scrollable modal box.
package popup

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles for the popup
type Styles struct {
	Box    lipgloss.Style
	Header lipgloss.Style
	Body   lipgloss.Style
	Footer lipgloss.Style
}

// DefaultStyles returns default styling
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#88C0D0")).
			Padding(0, 1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#D8DEE9")),
		Body: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D8DEE9")),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4C566A")).
			Italic(true),
	}
}

// Model represents the popup state
type Model struct {
	visible  bool
	title    string
	footer   string
	content  string
	viewport viewport.Model
	width    int
	height   int
	styles   Styles
}

// New creates a hidden popup
func New() Model {
	return Model{
		viewport: viewport.New(60, 10),
		styles:   DefaultStyles(),
	}
}

// SetStyles sets custom styles
func (m Model) SetStyles(s Styles) Model {
	m.styles = s
	return m
}

// SetScreenSize sizes the box to fit inside a w x h screen.
func (m Model) SetScreenSize(w, h int) Model {
	m.width = max(min(120, w-4), 20)
	m.height = max(h-4, 5)
	// border, padding, title and footer lines
	m.viewport.Width = m.width - 4
	m.viewport.Height = max(m.height-6, 1)
	m.viewport.SetContent(m.content)
	return m
}

// Show makes the popup visible with content, scrolled to the top.
func (m Model) Show(title, content, footer string) Model {
	m.visible = true
	m.title = title
	m.footer = footer
	m.content = content
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
	return m
}

// SetContent replaces the body and keeps the scroll position.
func (m Model) SetContent(content string) Model {
	m.content = content
	m.viewport.SetContent(content)
	return m
}

// SetTitle replaces the title.
func (m Model) SetTitle(title string) Model {
	m.title = title
	return m
}

// Hide hides the popup
func (m Model) Hide() Model {
	m.visible = false
	return m
}

// Visible returns visibility state
func (m Model) Visible() bool {
	return m.visible
}

// Title returns the current title.
func (m Model) Title() string {
	return m.title
}

// EnsureVisible scrolls so that body line is on screen.
func (m Model) EnsureVisible(line int) Model {
	top := m.viewport.YOffset
	bottom := top + m.viewport.Height
	if line < top {
		m.viewport.SetYOffset(line)
	} else if line >= bottom {
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
	return m
}

// Scrollable reports whether the body is taller than the box.
func (m Model) Scrollable() bool {
	return m.viewport.TotalLineCount() > m.viewport.Height
}

// Update scrolls the body
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the box; the caller positions it.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder
	if m.title != "" {
		b.WriteString(m.styles.Header.Render(m.title))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Body.Render(m.viewport.View()))
	footer := m.footer
	if m.Scrollable() {
		footer += fmt.Sprintf(" %3.f%% ", m.viewport.ScrollPercent()*100)
	}
	if footer != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Footer.Render(footer))
	}

	return m.styles.Box.
		Width(m.width).
		MaxHeight(m.height).
		Render(b.String())
}
