package ui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the board views.
var (
	colorAccent  = lipgloss.Color("#8BC34A")
	colorMuted   = lipgloss.Color("240")
	colorBorder  = lipgloss.Color("238")
	colorHigh    = lipgloss.Color("#e53935")
	colorWarning = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#2196F3")
	colorWhite   = lipgloss.Color("#ffffff")
)

// Styles holds every style the board renders with.
type Styles struct {
	Header lipgloss.Style
	Muted  lipgloss.Style

	Column          lipgloss.Style
	ColumnTarget    lipgloss.Style
	ColumnHeader    lipgloss.Style
	Card            lipgloss.Style
	CardCursor      lipgloss.Style
	CardGrabbed     lipgloss.Style
	BadgeHigh       lipgloss.Style
	BadgeMedium     lipgloss.Style
	BadgeLow        lipgloss.Style
	Due             lipgloss.Style
	ToastSuccess    lipgloss.Style
	ToastError      lipgloss.Style
	ToastInfo       lipgloss.Style
	ErrorPanel      lipgloss.Style
	ErrorTitle      lipgloss.Style
	ModalBox        lipgloss.Style
	ModalTitle      lipgloss.Style
	ModalFieldLabel lipgloss.Style
}

// DefaultStyles builds the board styling.
func DefaultStyles() Styles {
	badge := lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1).Bold(true)
	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	return Styles{
		Header: lipgloss.NewStyle().
			Background(colorAccent).
			Foreground(colorWhite).
			Padding(0, 2).
			Bold(true),
		Muted: lipgloss.NewStyle().Foreground(colorMuted),

		Column:       column,
		ColumnTarget: column.BorderForeground(colorAccent),
		ColumnHeader: lipgloss.NewStyle().Bold(true).MarginBottom(1),

		Card: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
		CardCursor: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1),
		CardGrabbed: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1),

		BadgeHigh:   badge.Background(colorHigh),
		BadgeMedium: badge.Background(colorWarning),
		BadgeLow:    badge.Background(colorAccent),
		Due:         lipgloss.NewStyle().Foreground(colorMuted).Italic(true),

		ToastSuccess: lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		ToastError:   lipgloss.NewStyle().Foreground(colorHigh).Bold(true),
		ToastInfo:    lipgloss.NewStyle().Foreground(colorInfo),

		ErrorPanel: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorHigh).
			Padding(1, 2),
		ErrorTitle: lipgloss.NewStyle().Foreground(colorHigh).Bold(true),

		ModalBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2),
		ModalTitle:      lipgloss.NewStyle().Bold(true).MarginBottom(1),
		ModalFieldLabel: lipgloss.NewStyle().Foreground(colorMuted),
	}
}

// badgeStyle picks the style for a normalized priority.
func (s Styles) badgeStyle(priority string) lipgloss.Style {
	switch priority {
	case "high":
		return s.BadgeHigh
	case "low":
		return s.BadgeLow
	default:
		return s.BadgeMedium
	}
}
