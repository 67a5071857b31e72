package ui

import (
	"fmt"
	"strings"

	"github.com/nhath/ezdv/internal/ui/highlight"
)

func (m Model) renderFetchXML() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(" FetchXML "))
	b.WriteString("\n")

	editor := m.fetchEditor.View()
	if m.fetchFocus {
		// Show the submitted document highlighted while the grid has focus
		editor = highlight.XML(m.fetchEditor.Value(), syntaxStyle)
	}
	b.WriteString(InputStyle.Width(max(m.width-2, 20)).Render(editor))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(fmt.Sprintf("  %s Running FetchXML...", m.spinner.View()))
	case m.fetchResult == nil:
		b.WriteString(MetaStyle.Render("  Press " + firstKey(m.keys.Execute, "f5") + " to execute"))
	case m.fetchResult.Failed():
		b.WriteString(ErrorStyle.Render("  " + m.fetchResult.Error))
	default:
		header := fmt.Sprintf(" %s (%d rows)", m.fetchEntity, m.fetchResult.RowCount())
		if m.fetchFocus {
			b.WriteString(ActiveSection.Render(header))
		} else {
			b.WriteString(SectionStyle.Render(header))
		}
		b.WriteString("\n")
		b.WriteString(m.fetchTable.View())
	}
	return b.String()
}
