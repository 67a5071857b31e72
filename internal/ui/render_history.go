package ui

import (
	"fmt"
	"strings"
)

func (m Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf(" History: %s (%d)", m.environment, m.historyList.Len())))
	if m.historySearching || m.historyInput.Value() != "" {
		b.WriteString("  ")
		b.WriteString(m.historyInput.View())
	}
	b.WriteString("\n\n")
	if m.historyStore == nil {
		b.WriteString(MetaStyle.Render("  History is disabled"))
		return b.String()
	}
	b.WriteString(m.historyList.View())
	return b.String()
}
