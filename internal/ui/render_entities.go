package ui

import (
	"fmt"
	"strings"

	"github.com/nhath/ezdv/internal/dataverse"
	"github.com/nhath/ezdv/internal/ui/icons"
)

func (m Model) renderEntities() string {
	var b strings.Builder

	header := fmt.Sprintf(" Entities (%d/%d)", len(m.entities), m.catalog.Len())
	b.WriteString(TitleStyle.Render(header))
	if m.searching || m.searchInput.Value() != "" {
		b.WriteString("  ")
		b.WriteString(m.searchInput.View())
	}
	b.WriteString("\n\n")

	if m.loadingCatalog {
		b.WriteString(fmt.Sprintf("  %s Loading entities...", m.spinner.View()))
		return b.String()
	}
	if len(m.entities) == 0 {
		if m.searchInput.Value() != "" {
			b.WriteString(MetaStyle.Render("  (No matching entities)"))
		} else {
			b.WriteString(MetaStyle.Render("  (No entities loaded)"))
		}
		return b.String()
	}

	// Keep the cursor inside the visible window
	visible := max(m.bodyHeight()-3, 1)
	start := 0
	if m.entityCursor >= visible {
		start = m.entityCursor - visible + 1
	}
	end := min(start+visible, len(m.entities))

	nameWidth := max(m.width/2-4, 20)
	for i := start; i < end; i++ {
		e := m.entities[i]
		line := fmt.Sprintf(" %s %-*s %s",
			icons.EntityIcon(isCustom(e)),
			nameWidth, limitString(e.LogicalName, nameWidth),
			limitString(e.Label(), max(m.width-nameWidth-8, 10)))
		if i == m.entityCursor {
			b.WriteString(SelectedStyle.Width(max(m.width-1, 10)).Render(line))
		} else {
			b.WriteString(ItemStyle.Render(line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func isCustom(e dataverse.EntityMetadata) bool {
	return e.IsCustomEntity != nil && *e.IsCustomEntity
}
