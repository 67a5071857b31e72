package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezdv/internal/export"
	"github.com/nhath/ezdv/internal/query"
	"github.com/nhath/ezdv/internal/ui/icons"
)

// renderRecordBody lists every column of the record as "name: value",
// one per line so the cursor maps to a viewport line.
func (m Model) renderRecordBody() string {
	res := m.recordResult
	if len(res.Rows) == 0 {
		if res.Failed() {
			return ErrorStyle.Render(res.Error)
		}
		return MetaStyle.Render("(No data)")
	}

	nameWidth := 0
	for _, c := range res.Columns {
		nameWidth = max(nameWidth, lipgloss.Width(c))
	}
	nameWidth = min(nameWidth, 40)

	row := res.Rows[0]
	lines := make([]string, 0, len(res.Columns))
	for i, col := range res.Columns {
		value := query.EmptyCell
		if i < len(row) {
			value = row[i]
		}
		name := fmt.Sprintf("%-*s", nameWidth, limitString(col, nameWidth))
		line := SectionStyle.Render(name) + ": "

		if info, ok := res.Lookup(0, i); ok {
			line += LookupStyle.Render(value)
			if info.LogicalName != "" {
				line += MetaStyle.Render(" (" + info.LogicalName + ")")
			}
			line += MetaStyle.Render(" [" + icons.IconLookup + " Lookup ↵]")
		} else {
			line += ItemStyle.Render(value)
		}

		if i == m.recordCursor {
			line = SelectedStyle.Render(icons.IconSelect) + " " + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	if m.recordLoading {
		lines = append(lines, "", m.spinner.View()+" Loading record...")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderExportPopup() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(" Export Results "))
	b.WriteString("\n\n")

	if m.exportStep == ExportEnterPath {
		b.WriteString(m.exportInput.View())
		b.WriteString("\n\n")
		b.WriteString(MetaStyle.Render("Enter: Save │ Esc: Cancel"))
		return PopupStyle.Width(min(max(m.width-10, 30), 80)).Render(b.String())
	}

	for _, f := range []export.Format{export.CSV, export.JSON} {
		line := fmt.Sprintf(" %s ", strings.ToUpper(string(f)))
		if f == m.exportFormat {
			b.WriteString(SelectedStyle.Render(icons.IconSelect + line))
		} else {
			b.WriteString(ItemStyle.Render(" " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(MetaStyle.Render("c: CSV │ j: JSON │ Enter: Choose │ Esc: Cancel"))
	return PopupStyle.Width(50).Render(b.String())
}

func (m Model) renderEnvironmentPicker() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(" Environments "))
	b.WriteString("\n\n")

	for i, name := range m.config.ListEnvironments() {
		url := ""
		if env, err := m.config.GetEnvironment(name); err == nil {
			url = env.URL
		}
		line := fmt.Sprintf(" %s %s", icons.EnvironmentMarker(name == m.environment), name)
		if i == m.envCursor {
			b.WriteString(SelectedStyle.Render(line))
		} else {
			b.WriteString(ItemStyle.Render(line))
		}
		if url != "" {
			b.WriteString(MetaStyle.Render("  " + limitString(url, 50)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(MetaStyle.Render("Enter: Connect │ Esc: Cancel"))
	return PopupStyle.Width(min(max(m.width-10, 40), 90)).Render(b.String())
}
