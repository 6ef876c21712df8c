// Package theme resolves the visual tokens of a page by layering the
// global styles, an edition's theme and a column's theme.
//
// Precedence, lowest to highest:
//
//	global styles < edition coverColor < edition theme < column theme
//
// The highest layer that defines a token wins. A token no layer defines
// falls back to a built-in default, so a resolution is always complete.
// Background and content-text colours are chosen per display mode: a layer
// that only defines the other mode's variant does not define the token.
package theme

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/almanac/pkg/edition"
)

// Typography is the resolved type scale.
type Typography struct {
	TitleSize    string `json:"titleSize"`
	SubtitleSize string `json:"subtitleSize"`
	BodySize     string `json:"bodySize"`
	SmallSize    string `json:"smallSize"`
}

// Spacing is the resolved spacing scale.
type Spacing struct {
	XS string `json:"xs"`
	SM string `json:"sm"`
	MD string `json:"md"`
	LG string `json:"lg"`
	XL string `json:"xl"`
}

// Resolved is a fully populated theme for one mode.
type Resolved struct {
	Mode          Mode        `json:"mode"`
	Primary       string      `json:"primary"`
	Secondary     string      `json:"secondary"`
	Text          string      `json:"text"`
	Accent        string      `json:"accent"`
	Border        string      `json:"border"`
	Background    string      `json:"background"`
	ContentText   string      `json:"contentText"`
	FontFamily    string      `json:"fontFamily"`
	FontStyle     FontStyle   `json:"fontStyle"`
	HeaderFont    string      `json:"headerFont"`
	TitleFont     string      `json:"titleFont"`
	HeaderStyle   HeaderStyle `json:"headerStyle"`
	CategoryLabel string      `json:"categoryLabel"`
	Typography    Typography  `json:"typography"`
	Spacing       Spacing     `json:"spacing"`
}

// Scope selects the layers above the global one. The zero Scope resolves
// the global theme.
type Scope struct {
	Edition    *edition.Theme
	CoverColor string
	Column     *edition.ColumnTheme
}

// EditionScope returns the scope of an edition page. Either argument may
// be nil.
func EditionScope(e *edition.Edition, th *edition.Theme) Scope {
	s := Scope{Edition: th}
	if e != nil {
		s.CoverColor = e.CoverColor
	}
	return s
}

// WithColumn narrows s to a column page.
func (s Scope) WithColumn(c *edition.Column) Scope {
	if c != nil {
		s.Column = c.Theme
	}
	return s
}

// Engine resolves themes against a fixed global layer.
type Engine struct {
	global edition.GlobalStyle
}

// NewEngine creates an engine. The global styles are copied and never
// change afterwards.
func NewEngine(global edition.GlobalStyle) *Engine {
	return &Engine{global: global}
}

// Global returns the global layer.
func (e *Engine) Global() edition.GlobalStyle {
	return e.global
}

// Resolve merges the layers of scope for mode. It never fails: enum values
// it does not recognise resolve to their defaults, and any mode other than
// Dark resolves as Light.
func (e *Engine) Resolve(scope Scope, mode Mode) Resolved {
	if mode != Dark {
		mode = Light
	}
	g := e.global.Colors
	ed := scope.Edition
	if ed == nil {
		ed = &edition.Theme{}
	}
	col := scope.Column
	if col == nil {
		col = &edition.ColumnTheme{}
	}
	dark := mode == Dark

	r := Resolved{
		Mode: mode,
		Primary: first(
			col.PrimaryColor,
			when(dark, ed.DarkMode.Primary),
			ed.Colors.Primary,
			scope.CoverColor,
			g.Primary,
			DefaultPrimary,
		),
		Secondary: first(
			col.SecondaryColor,
			when(dark, ed.DarkMode.Secondary),
			ed.Colors.Secondary,
			g.Secondary,
			DefaultSecondary,
		),
		Text: first(
			col.TextColor,
			when(dark, ed.DarkMode.Text),
			ed.Colors.Text,
			g.Text,
			DefaultText,
		),
		Accent: first(col.AccentColor, ed.Colors.Accent, DefaultAccent),
		Border: first(g.Border, DefaultBorder),
		Background: first(
			pick(col.BackgroundColor, mode),
			pick(ed.BackgroundColor, mode),
			when(dark, ed.DarkMode.Background),
			when(!dark, ed.Colors.Background),
			when(!dark, g.Background),
			defaultBackground[mode],
		),
		ContentText: first(
			pick(col.ContentTextColor, mode),
			pick(ed.ContentTextColor, mode),
			defaultContentText[mode],
		),
		FontFamily:    first(col.FontFamily, ed.Typography.FontFamily, DefaultFontFamily),
		HeaderFont:    first(col.HeaderFont, ed.HeaderFont, DefaultHeaderFont),
		TitleFont:     first(ed.Font.Title, DefaultTitleFont),
		CategoryLabel: first(col.CategoryLabel, ed.CategoryLabel, DefaultCategoryLabel),
		Typography: Typography{
			TitleSize:    first(ed.Typography.TitleSize.String(), e.global.Typography.TitleSize.String(), defaultTypography.TitleSize),
			SubtitleSize: first(e.global.Typography.SubtitleSize.String(), defaultTypography.SubtitleSize),
			BodySize:     first(ed.Typography.BodySize.String(), e.global.Typography.BodySize.String(), defaultTypography.BodySize),
			SmallSize:    first(e.global.Typography.SmallSize.String(), defaultTypography.SmallSize),
		},
		Spacing: Spacing{
			XS: first(e.global.Spacing.XS.String(), defaultSpacing.XS),
			SM: first(e.global.Spacing.SM.String(), defaultSpacing.SM),
			MD: first(e.global.Spacing.MD.String(), defaultSpacing.MD),
			LG: first(e.global.Spacing.LG.String(), defaultSpacing.LG),
			XL: first(e.global.Spacing.XL.String(), defaultSpacing.XL),
		},
	}

	r.HeaderStyle = HeaderGradient
	if hs, ok := parseHeaderStyle(first(col.HeaderStyle, ed.HeaderStyle)); ok {
		r.HeaderStyle = hs
	}
	r.FontStyle = FontNormal
	if fs, ok := parseFontStyle(first(col.FontStyle, ed.FontStyle)); ok {
		r.FontStyle = fs
	}
	return r
}

// first returns the first non-blank value.
func first(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func when(cond bool, v string) string {
	if cond {
		return v
	}
	return ""
}

// pick returns p's variant for mode, or "" when p is nil.
func pick(p *edition.ModePair, mode Mode) string {
	if p == nil {
		return ""
	}
	if mode == Dark {
		return p.Dark
	}
	return p.Light
}

// Vars returns the theme as CSS custom properties.
func (r Resolved) Vars() map[string]string {
	return map[string]string{
		"--almanac-mode":          r.Mode.String(),
		"--almanac-primary":       r.Primary,
		"--almanac-secondary":     r.Secondary,
		"--almanac-text":          r.Text,
		"--almanac-accent":        r.Accent,
		"--almanac-border":        r.Border,
		"--almanac-background":    r.Background,
		"--almanac-content-text":  r.ContentText,
		"--almanac-font-family":   r.FontFamily,
		"--almanac-font-style":    string(r.FontStyle),
		"--almanac-header-font":   r.HeaderFont,
		"--almanac-title-font":    r.TitleFont,
		"--almanac-header-style":  string(r.HeaderStyle),
		"--almanac-title-size":    r.Typography.TitleSize,
		"--almanac-subtitle-size": r.Typography.SubtitleSize,
		"--almanac-body-size":     r.Typography.BodySize,
		"--almanac-small-size":    r.Typography.SmallSize,
		"--almanac-space-xs":      r.Spacing.XS,
		"--almanac-space-sm":      r.Spacing.SM,
		"--almanac-space-md":      r.Spacing.MD,
		"--almanac-space-lg":      r.Spacing.LG,
		"--almanac-space-xl":      r.Spacing.XL,
	}
}

// CSS renders Vars as a :root rule with properties in name order.
func (r Resolved) CSS() string {
	vars := r.Vars()
	names := make([]string, 0, len(vars))
	for n := range vars {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, n := range names {
		fmt.Fprintf(&b, "  %s: %s;\n", n, vars[n])
	}
	b.WriteString("}\n")
	return b.String()
}
