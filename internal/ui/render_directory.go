package ui

import "strings"

// renderDirectory draws the solution or user list with the filter box
func (m Model) renderDirectory() string {
	var b strings.Builder
	if m.view == ViewUsers {
		b.WriteString(m.users.View())
	} else {
		b.WriteString(m.solutions.View())
	}
	if m.filtering {
		b.WriteString("\n")
		b.WriteString(m.filterInput.View())
	}
	if m.svc == nil {
		b.WriteString(MetaStyle.Render("  (Not connected)"))
	}
	return b.String()
}
