package tui

import (
	"github.com/blackwell-systems/brewdesk/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#F2A65A") // Homebrew amber
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray
	LinkColor      = lipgloss.Color("#60A5FA") // Blue

	statusStyle      = lipgloss.NewStyle().Foreground(MutedColor)
	statusErrorStyle = lipgloss.NewStyle().Foreground(ErrorColor)
	spinnerStyle     = lipgloss.NewStyle().Foreground(PrimaryColor)
)

// focusedClass is added to the focused node before rendering.
const focusedClass = "focused"

// Stylesheet returns the styles for the doctor screen's class names.
func Stylesheet() ui.Stylesheet {
	button := lipgloss.NewStyle().Foreground(TextColor)
	focused := lipgloss.NewStyle().Foreground(SurfaceColor).Background(PrimaryColor).Bold(true)
	row := lipgloss.NewStyle().PaddingLeft(2)

	return ui.Stylesheet{
		"doctor-view": lipgloss.NewStyle().Padding(0, 1),

		"header-row":    lipgloss.NewStyle().MarginBottom(1),
		"header-title":  lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor),
		"doctor-button": button.Foreground(SecondaryColor),

		"doctor-button.focused": focused,

		"deprecated-formulae-section": lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(WarningColor).
			Padding(0, 1).
			MarginBottom(1),
		"deprecated-formulae-title": lipgloss.NewStyle().Bold(true).Foreground(WarningColor),
		"deprecated-count":          lipgloss.NewStyle().Foreground(SurfaceColor).Background(WarningColor).Padding(0, 1),

		"deprecated-formula-item":                  row,
		"deprecated-formula-item.focused":          row.Background(SurfaceColor).Bold(true),
		"deprecated-formula-item.selected":         row.Foreground(PrimaryColor),
		"deprecated-formula-item.selected.focused": row.Foreground(PrimaryColor).Background(SurfaceColor).Bold(true),

		"deprecated-uninstall-button":         button.Foreground(ErrorColor),
		"deprecated-uninstall-button.focused": focused.Background(ErrorColor),

		"doctor-package-info":  lipgloss.NewStyle().MarginTop(1),
		"package-info":         lipgloss.NewStyle().BorderLeft(true).BorderStyle(lipgloss.NormalBorder()).BorderForeground(BorderColor).PaddingLeft(1),
		"package-info-name":    lipgloss.NewStyle().Bold(true),
		"cask-badge":           lipgloss.NewStyle().Foreground(MutedColor).Italic(true),
		"package-info-label":   lipgloss.NewStyle().Foreground(MutedColor),
		"package-info-loading": lipgloss.NewStyle().Foreground(MutedColor).Italic(true),
		"update-available":     lipgloss.NewStyle().Foreground(SecondaryColor),
		"package-dependency":   lipgloss.NewStyle().Foreground(LinkColor),

		"package-dependency.focused": focused.Background(LinkColor),

		"package-conflict": lipgloss.NewStyle().Foreground(ErrorColor),

		"doctor-log": lipgloss.NewStyle().
			TabWidth(lipgloss.NoTabConversion).
			Foreground(TextColor),
		"package-footer": lipgloss.NewStyle().Foreground(MutedColor).Italic(true).MarginTop(1),
	}
}
