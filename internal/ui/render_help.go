package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezdv/internal/guided"
	"github.com/nhath/ezdv/internal/ui/components/entitydetail"
	"github.com/nhath/ezdv/internal/ui/components/userlist"
)

type keyHint struct {
	key, desc string
}

// renderHelp draws the context hints under the status bar
func (m Model) renderHelp() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(TextPrimary()).
		Background(CardBg()).
		Padding(0, 1).
		Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(TextSecondary())
	sep := lipgloss.NewStyle().Foreground(TextFaint()).Render("  ")

	hints := m.contextHints()
	hints = append(hints, keyHint{firstKey(m.keys.Help, "?"), "Help"})

	rendered := make([]string, 0, len(hints))
	for _, h := range hints {
		rendered = append(rendered, keyStyle.Render(h.key)+descStyle.Render(" "+h.desc))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(rendered, sep))
}

func (m Model) contextHints() []keyHint {
	k := m.keys
	run := firstKey(k.Execute, "f5")
	nav := firstKey(k.Up, "up") + "/" + firstKey(k.Down, "down")

	switch m.popupStack.TopName() {
	case popupRecord:
		return []keyHint{{nav, "Field"}, {"enter", "Navigate"}, {firstKey(k.Copy, "y"), "Copy"}, {"esc", "Back"}}
	case popupExport:
		return []keyHint{{"enter", "Choose"}, {"esc", "Cancel"}}
	case popupEnvironments:
		return []keyHint{{nav, "Select"}, {"enter", "Connect"}, {"esc", "Cancel"}}
	case popupJSON, popupHelp:
		return []keyHint{{nav, "Scroll"}, {"esc", "Close"}}
	}

	switch m.view {
	case ViewEntities:
		if m.searching {
			return []keyHint{{"enter", "Done"}, {"esc", "Clear"}}
		}
		return []keyHint{
			{nav, "Navigate"}, {"enter", "Details"}, {firstKey(k.Search, "/"), "Search"},
			{firstKey(k.FetchXML, "f"), "FetchXML"}, {firstKey(k.History, "H"), "History"},
			{firstKey(k.Solutions, "S"), "Solutions"}, {firstKey(k.Users, "U"), "Users"},
			{firstKey(k.Environments, "E"), "Environments"}, {firstKey(k.Exit, "q"), "Quit"},
		}
	case ViewEntityDetail:
		if m.detail.ActiveTab() == entitydetail.TabQuery {
			return m.guidedHints()
		}
		return []keyHint{
			{firstKey(k.NextSection, "tab"), "Next Tab"}, {nav, "Scroll"}, {firstKey(k.Search, "/"), "Filter"},
			{"enter", "Query"}, {run, "Run"}, {"esc", "Back"},
		}
	case ViewFetchXML:
		if !m.fetchFocus {
			return []keyHint{{run, "Execute"}, {"tab", "Results"}, {"esc", "Back"}}
		}
		return []keyHint{
			{"tab", "Editor"}, {"enter", "Record"}, {firstKey(k.RawJSON, "r"), "JSON"},
			{firstKey(k.Export, "e"), "Export"}, {firstKey(k.Copy, "y"), "Copy"}, {"esc", "Editor"},
		}
	case ViewSolutions:
		if m.filtering {
			return []keyHint{{"enter", "Done"}, {"esc", "Clear"}}
		}
		if _, open := m.solutions.Opened(); open {
			return []keyHint{{nav, "Scroll"}, {"esc", "Back"}}
		}
		return []keyHint{
			{nav, "Navigate"}, {"enter", "Components"}, {firstKey(k.Search, "/"), "Filter"},
			{run, "Reload"}, {firstKey(k.Users, "U"), "Users"}, {"esc", "Entities"},
		}
	case ViewUsers:
		if m.filtering {
			return []keyHint{{"enter", "Done"}, {"esc", "Clear"}}
		}
		if tab, open := m.userTab(); open {
			hints := []keyHint{{firstKey(k.NextSection, "tab"), "Next Tab"}}
			if tab != userlist.TabInfo {
				hints = append(hints, keyHint{nav, "Scroll"})
			}
			return append(hints, keyHint{"esc", "Back"})
		}
		return []keyHint{
			{nav, "Navigate"}, {"enter", "Roles & Teams"}, {firstKey(k.Search, "/"), "Filter"},
			{firstKey(k.Toggle, "space"), "Show disabled"}, {run, "Reload"}, {"esc", "Entities"},
		}
	case ViewHistory:
		if m.historySearching {
			return []keyHint{{"enter", "Search"}, {"esc", "Clear"}}
		}
		return []keyHint{
			{nav, "Navigate"}, {"enter", "Expand"}, {run, "Rerun"}, {firstKey(k.Copy, "y"), "Copy"},
			{firstKey(k.Delete, "d"), "Delete"}, {firstKey(k.Search, "/"), "Search"}, {"esc", "Back"},
		}
	}
	return nil
}

func (m Model) guidedHints() []keyHint {
	k := m.keys
	run := firstKey(k.Execute, "f5")
	next := firstKey(k.NextSection, "tab")

	if m.editingTop {
		return []keyHint{{"enter", "Set"}, {"esc", "Cancel"}}
	}
	if _, pending := m.guided.Pending(); pending {
		return []keyHint{{"enter", "Add"}, {"↑/↓", "Op"}, {"esc", "Cancel"}}
	}

	switch m.guided.Mode() {
	case guided.ModeColumns:
		return []keyHint{
			{next, "Next"}, {"enter", "Filter by"}, {firstKey(k.Toggle, "space"), "Toggle"},
			{firstKey(k.SelectAll, "a"), "All"}, {firstKey(k.ClearAll, "c"), "Clear"}, {run, "Run"},
		}
	case guided.ModeFilter:
		return []keyHint{
			{next, "Next"}, {"enter", "Add"}, {firstKey(k.Delete, "d"), "Delete"},
			{"backspace", "Pop"}, {run, "Run"},
		}
	case guided.ModeOptions:
		return []keyHint{
			{next, "Next"}, {"enter", "Edit"}, {firstKey(k.Delete, "d"), "Direction"}, {run, "Run"},
		}
	case guided.ModeResults:
		return []keyHint{
			{next, "Next"}, {firstKey(k.NextPage, "n"), "Next Page"}, {"enter", "Record"},
			{firstKey(k.RawJSON, "r"), "JSON"}, {firstKey(k.Export, "e"), "Export"}, {run, "Run again"},
		}
	}
	return nil
}

// renderHelpBody lists every binding for the help popup
func (m Model) renderHelpBody() string {
	k := m.keys
	join := func(keys []string) string { return strings.Join(keys, ", ") }

	sections := []struct {
		title string
		hints []keyHint
	}{
		{"General", []keyHint{
			{join(k.Up) + " / " + join(k.Down), "Move"},
			{join(k.Left) + " / " + join(k.Right), "Previous / next page or column"},
			{join(k.Back), "Back / close"},
			{join(k.Exit), "Quit"},
			{join(k.Help), "This help"},
			{join(k.FetchXML), "FetchXML console"},
			{join(k.History), "Query history"},
			{join(k.Environments), "Switch environment"},
			{join(k.Solutions), "Solutions"},
			{join(k.Users), "Users, roles and teams"},
		}},
		{"Solutions and users", []keyHint{
			{"enter", "Open solution components / user roles"},
			{join(k.Search), "Filter the list"},
			{join(k.Toggle), "Include disabled users"},
			{join(k.Execute), "Reload the list"},
			{join(k.NextSection) + " / " + join(k.PrevTab), "Next / previous user tab"},
		}},
		{"Entity detail", []keyHint{
			{join(k.NextSection) + " / " + join(k.PrevTab), "Next / previous tab"},
			{join(k.Search), "Filter attributes"},
			{"enter", "Open query builder"},
		}},
		{"Query builder", []keyHint{
			{join(k.NextSection), "Next section (runs on Results)"},
			{join(k.Execute), "Run query"},
			{join(k.Toggle), "Toggle column"},
			{join(k.SelectAll) + " / " + join(k.ClearAll), "Select all / clear"},
			{"enter", "Filter by column, add filter, edit option"},
			{"up / down", "Cycle filter operator"},
			{join(k.Delete), "Remove filter / flip sort direction"},
			{join(k.Clear), "Clear query"},
		}},
		{"Results", []keyHint{
			{join(k.NextPage), "Load next page"},
			{"enter", "Record details"},
			{join(k.RawJSON), "Raw JSON"},
			{join(k.Export), "Export CSV / JSON"},
			{join(k.Copy), "Copy row or value"},
			{join(k.Pager), "Open in pager"},
		}},
	}

	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(SectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, h := range s.hints {
			b.WriteString("  ")
			b.WriteString(lipgloss.NewStyle().Foreground(AccentColor()).Width(24).Render(h.key))
			b.WriteString(ItemStyle.Render(h.desc))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
