// Package terminal draws reader views for the command line: lipgloss for
// the chrome, coloured from the resolved theme, and glamour for column
// bodies, which are markdown.
package terminal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vango-dev/almanac"
	"github.com/vango-dev/almanac/pkg/edition"
	"github.com/vango-dev/almanac/pkg/nav"
	"github.com/vango-dev/almanac/pkg/theme"
)

// DefaultWidth is the wrap width when none is given.
const DefaultWidth = 80

// Options configures a Renderer.
type Options struct {
	// Width is the wrap width in cells. Default: DefaultWidth.
	Width int

	// Style is a glamour style name or path. Default: the view's mode
	// ("light" or "dark").
	Style string
}

// Renderer renders views as styled terminal text.
type Renderer struct {
	width int
	style string
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	return &Renderer{width: opts.Width, style: opts.Style}
}

// Render draws v.
func (r *Renderer) Render(v *almanac.View) (string, error) {
	if v == nil {
		return "", errors.New("terminal: nil view")
	}
	if v.State.Kind() >= nav.KindCover && v.Edition == nil {
		return "", fmt.Errorf("terminal: %s view without an edition", v.State.Kind())
	}
	p := newPalette(v.Theme)

	var blocks []string
	switch v.State.Kind() {
	case nav.KindHome:
		blocks = r.home(v, p)
	case nav.KindArchive:
		blocks = r.archive(v, p)
	case nav.KindCover:
		md, err := r.markdown(v.Mode, v.Edition.EditorNote)
		if err != nil {
			return "", err
		}
		blocks = r.cover(v, p, md)
	case nav.KindIndex:
		blocks = r.index(v, p)
	case nav.KindColumn:
		md, err := r.markdown(v.Mode, v.Body)
		if err != nil {
			return "", err
		}
		blocks = r.column(v, p, md)
	}

	if v.Up != nil {
		blocks = append(blocks, p.muted.Render("← "+v.Up.Label+"  "+v.Up.Href))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...) + "\n", nil
}

// markdown renders body with glamour. An empty body renders as nothing.
func (r *Renderer) markdown(mode theme.Mode, body string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", nil
	}
	style := r.style
	if style == "" {
		style = mode.String()
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := tr.Render(body)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}

func (r *Renderer) home(v *almanac.View, p palette) []string {
	name := v.Magazine.MagazineName
	if name == "" {
		name = "Almanac"
	}
	blocks := []string{r.masthead(p, name, v.Magazine.Tagline)}
	if v.Latest != nil {
		blocks = append(blocks,
			p.heading.Render("Latest: "+v.Latest.Title),
			p.muted.Render(fmt.Sprintf("%s · %d columns  %s",
				v.Latest.Label, v.Latest.ColumnCount, nav.Href("/", nav.Cover(v.Latest.ID)))),
		)
	} else {
		blocks = append(blocks, p.muted.Render("No editions yet."))
	}
	if v.Magazine.About != "" {
		blocks = append(blocks, "", p.body.Width(r.width).Render(v.Magazine.About))
	}
	blocks = append(blocks, "", p.muted.Render("Archive  "+nav.Href("/", nav.Archive())))
	return blocks
}

func (r *Renderer) archive(v *almanac.View, p palette) []string {
	blocks := []string{p.heading.Render("Archive"), ""}
	if len(v.Archive) == 0 {
		return append(blocks, p.muted.Render("No editions yet."))
	}
	for _, s := range v.Archive {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(coverColor(s, v.Theme))).Render("  ")
		line := fmt.Sprintf("%s %-16s %s", swatch, s.Label, p.body.Render(s.Title))
		blocks = append(blocks, line+p.muted.Render(fmt.Sprintf("  (%d)  %s", s.ColumnCount, nav.Href("/", nav.Cover(s.ID)))))
	}
	return blocks
}

func (r *Renderer) cover(v *almanac.View, p palette, note string) []string {
	e := v.Edition
	blocks := []string{r.masthead(p, e.Title, v.Label)}
	if e.ThemeTitleLine1 != "" || e.ThemeTitleLine2 != "" {
		blocks = append(blocks, p.title.Render(strings.TrimSpace(e.ThemeTitleLine1+"\n"+e.ThemeTitleLine2)))
	}
	if e.Subtitle != "" {
		blocks = append(blocks, p.heading.Render(e.Subtitle))
	}
	if e.CoverDescription != "" {
		blocks = append(blocks, "", p.body.Width(r.width).Render(e.CoverDescription))
	}
	if note != "" {
		blocks = append(blocks, "", note)
	}
	blocks = append(blocks, "", p.muted.Render("Contents  "+nav.Href("/", nav.Index(e.ID))))
	return blocks
}

func (r *Renderer) index(v *almanac.View, p palette) []string {
	blocks := []string{p.heading.Render(v.Edition.Title + " · Contents"), ""}
	for i, c := range v.Columns {
		blocks = append(blocks, fmt.Sprintf("%2d. %s %s",
			i+1,
			p.accent.Render(c.Title),
			p.muted.Render("by "+c.Author.Name),
		))
		if c.Excerpt != "" {
			blocks = append(blocks, "    "+p.body.Width(r.width-4).Render(c.Excerpt))
		}
		blocks = append(blocks, p.muted.Render("    "+nav.Href("/", nav.Column(v.Edition.ID, c.ID))))
	}
	return blocks
}

func (r *Renderer) column(v *almanac.View, p palette, body string) []string {
	c := v.Column
	var header []string
	if v.Theme.CategoryLabel != "" {
		header = append(header, p.label.Render(strings.ToUpper(v.Theme.CategoryLabel)))
	}
	header = append(header, c.Title, "by "+c.Author.Name)

	blocks := []string{p.header(v.Theme.HeaderStyle, r.width).Render(strings.Join(header, "\n"))}
	if body == "" {
		blocks = append(blocks, "", p.muted.Render("This column has no text yet."))
	} else {
		blocks = append(blocks, body)
	}

	var links []string
	if v.Prev != nil {
		links = append(links, "‹ "+v.Prev.Label)
	}
	if v.Next != nil {
		links = append(links, v.Next.Label+" ›")
	}
	if len(links) > 0 {
		blocks = append(blocks, "", p.accent.Render(strings.Join(links, "   ")))
	}
	return blocks
}

func (r *Renderer) masthead(p palette, title, subtitle string) string {
	s := p.title.Render(title)
	if subtitle != "" {
		s += "\n" + p.muted.Render(subtitle)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder(), false, false, true, false).
		BorderForeground(p.primary).
		Width(r.width).
		Render(s)
}

func coverColor(s edition.Summary, th theme.Resolved) string {
	if s.CoverColor != "" {
		return s.CoverColor
	}
	return th.Primary
}
