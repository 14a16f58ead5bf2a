package viewer

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/crisislens/gdacs-viewer/internal/models"
)

// Appearance selects the light or dark style set, mirroring the CLI prompt.
type Appearance string

const (
	AppearanceLight Appearance = "light"
	AppearanceDark  Appearance = "dark"
)

type styles struct {
	fg lipgloss.Color

	Title    lipgloss.Style
	Panel    lipgloss.Style
	NoBorder lipgloss.Style
	Category lipgloss.Style
	Muted    lipgloss.Style
	Box      lipgloss.Style
	Country  lipgloss.Style
	IDLabel  lipgloss.Style
	HelpKey  lipgloss.Style
}

func newStyles(appearance Appearance) styles {
	fg := lipgloss.Color("#1A1A1A")
	if appearance == AppearanceDark {
		fg = lipgloss.Color("#FAFAFA")
	}

	base := lipgloss.NewStyle().Foreground(fg)
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fg).
		Padding(0, 1)

	return styles{
		fg:       fg,
		Title:    base.Bold(true),
		Panel:    border,
		NoBorder: lipgloss.NewStyle().Border(lipgloss.HiddenBorder()).Padding(0, 1),
		Category: base.Bold(true),
		Muted:    base.Faint(true),
		Box:      border.Faint(true),
		Country:  base.Bold(true),
		IDLabel:  base.Faint(true),
		HelpKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("#d7af00")).Bold(true),
	}
}

// alertStyle colors text with the alert level's display color.
func alertStyle(level string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(models.AlertColor(level)))
}
