// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezdv/internal/config"
	"github.com/nhath/ezdv/internal/ui/components/entitydetail"
	"github.com/nhath/ezdv/internal/ui/components/historylist"
	"github.com/nhath/ezdv/internal/ui/components/popup"
	"github.com/nhath/ezdv/internal/ui/components/solutionlist"
	"github.com/nhath/ezdv/internal/ui/components/userlist"
)

var (
	textPrimary   lipgloss.Color
	textSecondary lipgloss.Color
	textFaint     lipgloss.Color

	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	errorColor     lipgloss.Color
	highlightColor lipgloss.Color
	warningColor   lipgloss.Color
	lookupColor    lipgloss.Color

	bgPrimary   lipgloss.Color
	bgSecondary lipgloss.Color
	cardBg      lipgloss.Color

	syntaxStyle string

	// Styles
	StatusBarStyle  lipgloss.Style
	ModeStyle       lipgloss.Style
	ConnectionStyle lipgloss.Style
	TitleStyle      lipgloss.Style
	SectionStyle    lipgloss.Style
	ActiveSection   lipgloss.Style
	MetaStyle       lipgloss.Style
	ItemStyle       lipgloss.Style
	SelectedStyle   lipgloss.Style
	LookupStyle     lipgloss.Style
	SuccessStyle    lipgloss.Style
	ErrorStyle      lipgloss.Style
	WarningStyle    lipgloss.Style
	PopupStyle      lipgloss.Style
	InputStyle      lipgloss.Style
)

// Color getter functions for use in components
func TextPrimary() lipgloss.Color    { return textPrimary }
func TextSecondary() lipgloss.Color  { return textSecondary }
func TextFaint() lipgloss.Color      { return textFaint }
func AccentColor() lipgloss.Color    { return accentColor }
func SuccessColor() lipgloss.Color   { return successColor }
func ErrorColor() lipgloss.Color     { return errorColor }
func HighlightColor() lipgloss.Color { return highlightColor }
func WarningColor() lipgloss.Color   { return warningColor }
func BgPrimary() lipgloss.Color      { return bgPrimary }
func BgSecondary() lipgloss.Color    { return bgSecondary }
func CardBg() lipgloss.Color         { return cardBg }

// InitStyles initializes the global styles based on the provided configuration theme
func InitStyles(theme config.Theme) {
	textPrimary = lipgloss.Color(theme.TextPrimary)
	textSecondary = lipgloss.Color(theme.TextSecondary)
	textFaint = lipgloss.Color(theme.TextFaint)

	accentColor = lipgloss.Color(theme.Accent)
	successColor = lipgloss.Color(theme.Success)
	errorColor = lipgloss.Color(theme.Error)
	highlightColor = lipgloss.Color(theme.Highlight)
	warningColor = lipgloss.Color(theme.Warning)
	lookupColor = lipgloss.Color(theme.Lookup)

	bgPrimary = lipgloss.Color(theme.BgPrimary)
	bgSecondary = lipgloss.Color(theme.BgSecondary)
	cardBg = lipgloss.Color(theme.CardBg)

	syntaxStyle = theme.SyntaxStyle

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(bgSecondary)

	ModeStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(successColor).
		Foreground(bgPrimary)

	ConnectionStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(cardBg).
		Foreground(textPrimary)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor)

	SectionStyle = lipgloss.NewStyle().
		Foreground(textSecondary).
		Bold(true)

	ActiveSection = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true).
		Underline(true)

	MetaStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Italic(true)

	ItemStyle = lipgloss.NewStyle().
		Foreground(textPrimary)

	SelectedStyle = lipgloss.NewStyle().
		Foreground(bgPrimary).
		Background(highlightColor).
		Bold(true)

	LookupStyle = lipgloss.NewStyle().
		Foreground(lookupColor).
		Underline(true)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	WarningStyle = lipgloss.NewStyle().
		Foreground(bgPrimary).
		Background(warningColor).
		Bold(true).
		Padding(0, 1)

	PopupStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlightColor).
		Padding(0, 1)

	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(textFaint)
}

func detailStyles() entitydetail.Styles {
	return entitydetail.Styles{
		Title:       TitleStyle,
		Label:       lipgloss.NewStyle().Foreground(textSecondary),
		Value:       ItemStyle,
		Faint:       lipgloss.NewStyle().Foreground(textFaint),
		TabActive:   lipgloss.NewStyle().Foreground(successColor).Bold(true).Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(successColor).Padding(0, 1),
		TabInactive: lipgloss.NewStyle().Foreground(textFaint).Padding(0, 1),
	}
}

func solutionStyles() solutionlist.Styles {
	d := detailStyles()
	return solutionlist.Styles{Title: d.Title, Label: d.Label, Value: d.Value, Faint: d.Faint}
}

func userStyles() userlist.Styles {
	d := detailStyles()
	return userlist.Styles{
		Title:       d.Title,
		Label:       d.Label,
		Value:       d.Value,
		Faint:       d.Faint,
		TabActive:   d.TabActive,
		TabInactive: d.TabInactive,
	}
}

func popupStyles() popup.Styles {
	return popup.Styles{
		Box:    PopupStyle,
		Header: TitleStyle,
		Body:   ItemStyle,
		Footer: lipgloss.NewStyle().Foreground(textFaint),
	}
}

func historyStyles() historylist.Styles {
	return historylist.Styles{
		Row:      lipgloss.NewStyle().PaddingLeft(1),
		Selected: lipgloss.NewStyle().PaddingLeft(1).Background(cardBg),
		Entity:   lipgloss.NewStyle().Foreground(accentColor).Bold(true),
		Meta:     lipgloss.NewStyle().Foreground(textFaint),
		Err:      lipgloss.NewStyle().Foreground(errorColor),
		Ok:       lipgloss.NewStyle().Foreground(successColor),
		Faint:    lipgloss.NewStyle().Foreground(textFaint),
	}
}
