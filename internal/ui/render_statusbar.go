package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezdv/internal/ui/icons"
)

func (m Model) renderStatusBar() string {
	var parts []string

	// 1. View
	parts = append(parts, ModeStyle.Render(m.view.String()))

	// 2. Environment
	if m.environment != "" {
		env := ConnectionStyle.Render(fmt.Sprintf(" %s ", m.environment))
		if m.svc != nil {
			host := lipgloss.NewStyle().Background(CardBg()).Foreground(TextFaint()).Render(" " + limitString(m.svc.EnvironmentURL(), 40) + " ")
			env += host
		}
		parts = append(parts, env)
	} else {
		parts = append(parts, ConnectionStyle.Render(" NO ENVIRONMENT "))
	}

	// 3. Activity
	if m.loading || m.loadingCatalog || m.recordLoading {
		label := " Running..."
		if m.loadingCatalog {
			label = " Loading entities..."
		}
		loadingStyle := lipgloss.NewStyle().Foreground(AccentColor()).Padding(0, 1)
		parts = append(parts, loadingStyle.Render(m.spinner.View()+label))
	}

	// 4. Status message
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Background(SuccessColor()).Foreground(BgPrimary()).Padding(0, 1)
		parts = append(parts, statusStyle.Render(icons.IconSuccess+" "+m.statusMsg))
	}

	// 5. Error
	if m.errorMsg != "" {
		errorStyle := lipgloss.NewStyle().Background(ErrorColor()).Foreground(TextPrimary()).Padding(0, 1)
		parts = append(parts, errorStyle.Render(icons.IconError+" "+limitString(m.errorMsg, max(m.width/2, 40))))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return StatusBarStyle.Width(m.width).MaxHeight(1).Render(content)
}
