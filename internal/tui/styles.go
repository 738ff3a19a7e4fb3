package tui

import (
	"github.com/charmbracelet/lipgloss"

	"pomo/internal/service"
)

// Palette is the set of colors for one theme.
type Palette struct {
	Fg      lipgloss.Color
	Muted   lipgloss.Color
	Focus   lipgloss.Color
	Break   lipgloss.Color
	Accent  lipgloss.Color
	Error   lipgloss.Color
	Border  lipgloss.Color
	Success lipgloss.Color
}

var (
	// LightPalette is used on light terminals.
	LightPalette = Palette{
		Fg:      lipgloss.Color("#383A42"),
		Muted:   lipgloss.Color("#A0A1A7"),
		Focus:   lipgloss.Color("#E45649"),
		Break:   lipgloss.Color("#50A14F"),
		Accent:  lipgloss.Color("#4078F2"),
		Error:   lipgloss.Color("#CA1243"),
		Border:  lipgloss.Color("#D3D3D3"),
		Success: lipgloss.Color("#50A14F"),
	}

	// DarkPalette is the One Dark palette.
	DarkPalette = Palette{
		Fg:      lipgloss.Color("#ABB2BF"),
		Muted:   lipgloss.Color("#636B78"),
		Focus:   lipgloss.Color("#E06C75"),
		Break:   lipgloss.Color("#98C379"),
		Accent:  lipgloss.Color("#61AFEF"),
		Error:   lipgloss.Color("#E06C75"),
		Border:  lipgloss.Color("#3F4451"),
		Success: lipgloss.Color("#98C379"),
	}
)

// Styles are the rendered styles of the focus screen.
type Styles struct {
	Palette Palette

	Frame    lipgloss.Style
	Phase    lipgloss.Style
	Clock    lipgloss.Style
	State    lipgloss.Style
	Task     lipgloss.Style
	Cursor   lipgloss.Style
	Item     lipgloss.Style
	DoneItem lipgloss.Style
	Notice   lipgloss.Style
	Error    lipgloss.Style
}

// StylesFor builds the styles for a theme. Unknown themes get the light palette.
func StylesFor(theme service.Theme) Styles {
	p := LightPalette
	if theme == service.ThemeDark {
		p = DarkPalette
	}
	return Styles{
		Palette: p,
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(1, 3),
		Phase:    lipgloss.NewStyle().Bold(true),
		Clock:    lipgloss.NewStyle().Foreground(p.Fg).Bold(true).PaddingLeft(2),
		State:    lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		Task:     lipgloss.NewStyle().Foreground(p.Accent),
		Cursor:   lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Item:     lipgloss.NewStyle().Foreground(p.Fg),
		DoneItem: lipgloss.NewStyle().Foreground(p.Muted).Strikethrough(true),
		Notice:   lipgloss.NewStyle().Foreground(p.Success).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(p.Error),
	}
}

// PhaseColor returns the accent color of a phase.
func (s Styles) PhaseColor(focus bool) lipgloss.Color {
	if focus {
		return s.Palette.Focus
	}
	return s.Palette.Break
}
