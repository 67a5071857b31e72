package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezdv/internal/guided"
	"github.com/nhath/ezdv/internal/ui/components/entitydetail"
	"github.com/nhath/ezdv/internal/ui/highlight"
	"github.com/nhath/ezdv/internal/ui/icons"
)

func (m Model) renderDetail() string {
	var b strings.Builder
	b.WriteString(m.detail.View())
	if m.filtering {
		b.WriteString("\n")
		b.WriteString(m.filterInput.View())
	}
	if m.detail.ActiveTab() == entitydetail.TabQuery {
		b.WriteString(m.renderGuided())
	}
	return b.String()
}

// renderGuided draws the query preview, the section tabs and the active section
func (m Model) renderGuided() string {
	if m.detail.Loading() {
		return fmt.Sprintf("  %s Loading attributes...", m.spinner.View())
	}

	var b strings.Builder

	qs := m.guided.QueryString()
	b.WriteString(SectionStyle.Render(" Query: "))
	b.WriteString(highlight.Query(qs))
	if m.guided.EntitySetGuessed() {
		b.WriteString(MetaStyle.Render("  (entity set guessed)"))
	}
	b.WriteString("\n")

	var tabs []string
	for _, mode := range guided.Modes() {
		label := " " + mode.String() + " "
		if mode == m.guided.Mode() {
			tabs = append(tabs, ActiveSection.Render(label))
		} else {
			tabs = append(tabs, SectionStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, MetaStyle.Render("│")))
	b.WriteString("\n\n")

	switch m.guided.Mode() {
	case guided.ModeColumns:
		b.WriteString(m.renderColumns())
	case guided.ModeFilter:
		b.WriteString(m.renderFilters())
	case guided.ModeOptions:
		b.WriteString(m.renderOptions())
	case guided.ModeResults:
		b.WriteString(m.renderResults())
	}
	return b.String()
}

func (m Model) renderColumns() string {
	cols := m.guided.Columns()
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf(" Select Columns (%d selected) ", len(m.guided.SelectedNames()))))
	b.WriteString("\n")
	if len(cols) == 0 {
		b.WriteString(MetaStyle.Render("  (No attributes)"))
		return b.String()
	}

	cursor := m.guided.ColumnCursor()
	window := m.columnWindow()
	start := max(cursor-window/2, 0)
	end := min(start+window, len(cols))
	start = max(end-window, 0)

	for i := start; i < end; i++ {
		c := cols[i]
		line := fmt.Sprintf(" %s %s", icons.Checkbox(c.Selected), c.Name)
		if c.DisplayName != "" && c.DisplayName != c.Name {
			line += MetaStyle.Render("  " + c.DisplayName)
		}
		if c.Type != "" {
			line += MetaStyle.Render("  " + c.Type)
		}
		if i == cursor {
			b.WriteString(SelectedStyle.Render(icons.IconSelect) + line)
		} else {
			b.WriteString(" " + ItemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	if len(cols) > window {
		b.WriteString(MetaStyle.Render(fmt.Sprintf("  %d-%d of %d", start+1, end, len(cols))))
	}
	return b.String()
}

func (m Model) renderFilters() string {
	var b strings.Builder
	filters := m.guided.Filters()
	b.WriteString(TitleStyle.Render(fmt.Sprintf(" Filters (%d) ", len(filters))))
	b.WriteString("\n")

	if len(filters) == 0 {
		b.WriteString(MetaStyle.Render("  (No filters, press Enter to add one on the current column)"))
		b.WriteString("\n")
	}
	for i, f := range filters {
		line := fmt.Sprintf(" %s %s", icons.IconBullet, f.Describe())
		if i == m.guided.FilterCursor() {
			b.WriteString(SelectedStyle.Render(line))
		} else {
			b.WriteString(ItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if p, ok := m.guided.Pending(); ok {
		b.WriteString("\n")
		b.WriteString(SectionStyle.Render(" New filter: "))
		b.WriteString(ItemStyle.Render(p.Attribute + " "))
		b.WriteString(ActiveSection.Render(p.Operator.Label()))
		if p.Operator.NeedsValue() {
			b.WriteString(" ")
			b.WriteString(lipgloss.NewStyle().Background(CardBg()).Foreground(TextPrimary()).Render(p.Value + "█"))
		}
	}
	return b.String()
}

func (m Model) renderOptions() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(" Options "))
	b.WriteString("\n")

	order := m.guided.OrderBy().String()
	if order == "" {
		order = "(none)"
	}
	top := "(all)"
	if n, ok := m.guided.Top(); ok {
		top = strconv.Itoa(n)
	}
	if m.editingTop {
		top = m.topInput.View()
	}

	rows := []struct{ label, value string }{
		{"Order By:", order},
		{"Top:", top},
	}
	for i, r := range rows {
		label := fmt.Sprintf(" %-10s", r.label)
		if i == m.optionRow {
			b.WriteString(SelectedStyle.Render(label))
		} else {
			b.WriteString(SectionStyle.Render(label))
		}
		b.WriteString(" ")
		b.WriteString(ItemStyle.Render(r.value))
		b.WriteString("\n")
	}
	if m.optionRow == optionOrderBy {
		b.WriteString(MetaStyle.Render("  ←/→ choose column"))
	}
	return b.String()
}

func (m Model) renderResults() string {
	res := m.guided.Result()
	if m.guided.InFlight() && res == nil {
		return fmt.Sprintf("  %s Running query...", m.spinner.View())
	}
	if res == nil {
		if err := m.guided.Err(); err != nil {
			return ErrorStyle.Render("  " + errorText(err))
		}
		return MetaStyle.Render("  Press " + firstKey(m.keys.Execute, "f5") + " to run query")
	}
	if res.Failed() {
		return ErrorStyle.Render("  " + res.Error)
	}

	header := fmt.Sprintf(" Results (%d rows)", res.RowCount())
	if res.Count != nil {
		header = fmt.Sprintf(" Results (%d of %d rows)", res.RowCount(), *res.Count)
	}
	if res.HasMore() {
		header += fmt.Sprintf(" [Press '%s' for more]", firstKey(m.keys.NextPage, "n"))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render(header),
		m.resultsTable.View(),
	)
}
