package terminal

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vango-dev/almanac/pkg/theme"
)

// palette holds the lipgloss styles derived from one resolved theme.
type palette struct {
	primary lipgloss.Color

	title   lipgloss.Style
	heading lipgloss.Style
	body    lipgloss.Style
	accent  lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style

	th theme.Resolved
}

func newPalette(th theme.Resolved) palette {
	primary := lipgloss.Color(th.Primary)
	body := lipgloss.NewStyle().Foreground(lipgloss.Color(th.ContentText))
	if th.FontStyle != theme.FontNormal {
		body = body.Italic(true)
	}
	return palette{
		primary: primary,
		title:   lipgloss.NewStyle().Bold(true).Foreground(primary),
		heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(th.Secondary)),
		body:    body,
		accent:  lipgloss.NewStyle().Foreground(lipgloss.Color(th.Accent)),
		label:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(th.Accent)),
		muted:   lipgloss.NewStyle().Faint(true),
		th:      th,
	}
}

// header styles a column header block after the theme's header style.
func (p palette) header(hs theme.HeaderStyle, width int) lipgloss.Style {
	base := lipgloss.NewStyle().Width(width).Padding(1, 2).Bold(true)
	switch hs {
	case theme.HeaderSolid:
		return base.
			Background(p.primary).
			Foreground(lipgloss.Color(p.th.Text))
	case theme.HeaderMinimal:
		return base.
			Padding(0, 0, 1, 0).
			Foreground(p.primary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color(p.th.Border))
	case theme.HeaderArtistic:
		return base.
			Italic(true).
			Foreground(p.primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.th.Accent))
	default:
		// Terminals cannot draw gradients; a two-tone block stands in.
		return base.
			Background(p.primary).
			Foreground(lipgloss.Color(p.th.Text)).
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color(p.th.Secondary))
	}
}
