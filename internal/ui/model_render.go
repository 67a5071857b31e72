package ui

import (
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var body string
	switch m.view {
	case ViewEntities:
		body = m.renderEntities()
	case ViewEntityDetail:
		body = m.renderDetail()
	case ViewFetchXML:
		body = m.renderFetchXML()
	case ViewHistory:
		body = m.renderHistory()
	case ViewSolutions, ViewUsers:
		body = m.renderDirectory()
	}
	body = lipgloss.NewStyle().
		Width(m.width).
		Height(m.bodyHeight()).
		MaxHeight(m.bodyHeight()).
		Render(body)

	main := lipgloss.JoinVertical(lipgloss.Left,
		body,
		m.renderStatusBar(),
		m.renderHelp(),
	)

	// Popups stack in the order they were opened
	for _, name := range m.popupStack.Names() {
		if box := m.renderPopup(name); box != "" {
			main = overlay.Composite(box, main, overlay.Center, overlay.Center, 0, 0)
		}
	}
	return main
}

func (m Model) renderPopup(name string) string {
	switch name {
	case popupRecord:
		return m.recordPopup.View()
	case popupJSON:
		return m.jsonPopup.View()
	case popupHelp:
		return m.helpPopup.View()
	case popupExport:
		return m.renderExportPopup()
	case popupEnvironments:
		return m.renderEnvironmentPicker()
	}
	return ""
}
