package theme

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/almanac/pkg/edition"
)

func TestResolve_Defaults(t *testing.T) {
	e := NewEngine(edition.GlobalStyle{})

	light := e.Resolve(Scope{}, Light)
	want := Resolved{
		Mode:          Light,
		Primary:       DefaultPrimary,
		Secondary:     DefaultSecondary,
		Text:          DefaultText,
		Accent:        DefaultAccent,
		Border:        DefaultBorder,
		Background:    "#FFFFFF",
		ContentText:   "#212121",
		FontFamily:    DefaultFontFamily,
		FontStyle:     FontNormal,
		HeaderFont:    DefaultHeaderFont,
		TitleFont:     DefaultTitleFont,
		HeaderStyle:   HeaderGradient,
		CategoryLabel: "",
		Typography:    defaultTypography,
		Spacing:       defaultSpacing,
	}
	if diff := cmp.Diff(want, light); diff != "" {
		t.Errorf("light defaults mismatch (-want +got):\n%s", diff)
	}

	dark := e.Resolve(Scope{}, Dark)
	if dark.Background != "#121212" || dark.ContentText != "#EDEDED" || dark.Mode != Dark {
		t.Errorf("dark defaults = %+v", dark)
	}
}

func TestResolve_Precedence(t *testing.T) {
	global := edition.GlobalStyle{Colors: edition.GlobalColors{Primary: "#111", Secondary: "#1a1", Text: "#1b1"}}
	e := NewEngine(global)
	ed := &edition.Theme{Colors: edition.ThemeColors{Primary: "#222"}}

	tests := []struct {
		name  string
		scope Scope
		want  string
	}{
		{"global only", Scope{}, "#111"},
		{"cover color over global", Scope{CoverColor: "#333"}, "#333"},
		{"edition over global", Scope{Edition: ed}, "#222"},
		{"edition theme over cover color", Scope{Edition: ed, CoverColor: "#333"}, "#222"},
		{"column over edition", Scope{Edition: ed, Column: &edition.ColumnTheme{PrimaryColor: "#444"}}, "#444"},
		{"empty column field falls through", Scope{Edition: ed, Column: &edition.ColumnTheme{PrimaryColor: ""}}, "#222"},
		{"blank column field falls through", Scope{Edition: ed, Column: &edition.ColumnTheme{PrimaryColor: "  "}}, "#222"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, mode := range []Mode{Light, Dark} {
				if got := e.Resolve(tt.scope, mode).Primary; got != tt.want {
					t.Errorf("%s Primary = %q, want %q", mode, got, tt.want)
				}
			}
		})
	}
}

func TestResolve_ColumnOverridesOnlyNamedFields(t *testing.T) {
	e := NewEngine(edition.GlobalStyle{Colors: edition.GlobalColors{Secondary: "#s0"}})
	scope := Scope{
		Edition: &edition.Theme{Colors: edition.ThemeColors{Primary: "#p1", Accent: "#a1"}},
		Column:  &edition.ColumnTheme{SecondaryColor: "#s2"},
	}
	r := e.Resolve(scope, Light)
	if r.Primary != "#p1" || r.Secondary != "#s2" || r.Accent != "#a1" || r.Text != DefaultText {
		t.Errorf("resolved = %+v", r)
	}
}

func TestResolve_DarkModeOverrides(t *testing.T) {
	e := NewEngine(edition.GlobalStyle{})
	ed := &edition.Theme{
		Colors:   edition.ThemeColors{Primary: "#lightP", Secondary: "#lightS", Text: "#lightT", Background: "#lightBG"},
		DarkMode: edition.DarkColors{Primary: "#darkP", Text: "#darkT", Background: "#darkBG"},
	}

	light := e.Resolve(Scope{Edition: ed}, Light)
	if light.Primary != "#lightP" || light.Text != "#lightT" || light.Background != "#lightBG" {
		t.Errorf("light = %+v", light)
	}

	dark := e.Resolve(Scope{Edition: ed}, Dark)
	if dark.Primary != "#darkP" || dark.Text != "#darkT" || dark.Background != "#darkBG" {
		t.Errorf("dark = %+v", dark)
	}
	if dark.Secondary != "#lightS" {
		t.Errorf("dark Secondary = %q, want fallback to colors.secondary", dark.Secondary)
	}

	col := &edition.ColumnTheme{PrimaryColor: "#colP"}
	if got := e.Resolve(Scope{Edition: ed, Column: col}, Dark).Primary; got != "#colP" {
		t.Errorf("column primary in dark = %q, want #colP", got)
	}
}

func TestResolve_ModeIsolation(t *testing.T) {
	e := NewEngine(edition.GlobalStyle{Colors: edition.GlobalColors{Background: "#globalLight"}})
	col := &edition.ColumnTheme{
		BackgroundColor:  &edition.ModePair{Light: "#FFF"},
		ContentTextColor: &edition.ModePair{Light: "#000"},
	}

	dark := e.Resolve(Scope{Column: col}, Dark)
	if dark.Background == "#FFF" || dark.Background == "#globalLight" {
		t.Errorf("dark Background leaked a light value: %q", dark.Background)
	}
	if dark.Background != "#121212" {
		t.Errorf("dark Background = %q, want default", dark.Background)
	}
	if dark.ContentText == "#000" {
		t.Errorf("dark ContentText leaked a light value")
	}

	light := e.Resolve(Scope{Column: col}, Light)
	if light.Background != "#FFF" || light.ContentText != "#000" {
		t.Errorf("light = %q %q", light.Background, light.ContentText)
	}
}

func TestResolve_ModePairLayers(t *testing.T) {
	e := NewEngine(edition.GlobalStyle{})
	scope := Scope{
		Edition: &edition.Theme{
			BackgroundColor:  &edition.ModePair{Light: "#edL", Dark: "#edD"},
			ContentTextColor: &edition.ModePair{Dark: "#edTD"},
		},
		Column: &edition.ColumnTheme{
			BackgroundColor:  &edition.ModePair{Dark: "#colD"},
			ContentTextColor: &edition.ModePair{Light: "#colTL"},
		},
	}

	light := e.Resolve(scope, Light)
	if light.Background != "#edL" || light.ContentText != "#colTL" {
		t.Errorf("light = %q %q", light.Background, light.ContentText)
	}
	dark := e.Resolve(scope, Dark)
	if dark.Background != "#colD" || dark.ContentText != "#edTD" {
		t.Errorf("dark = %q %q", dark.Background, dark.ContentText)
	}
}

func TestResolve_Enums(t *testing.T) {
	e := NewEngine(edition.GlobalStyle{})
	tests := []struct {
		name       string
		edition    *edition.Theme
		column     *edition.ColumnTheme
		wantHeader HeaderStyle
		wantFont   FontStyle
	}{
		{"defaults", nil, nil, HeaderGradient, FontNormal},
		{"edition values", &edition.Theme{HeaderStyle: "minimal", FontStyle: "italic"}, nil, HeaderMinimal, FontItalic},
		{"column wins", &edition.Theme{HeaderStyle: "minimal"}, &edition.ColumnTheme{HeaderStyle: "artistic", FontStyle: "oblique"}, HeaderArtistic, FontOblique},
		{"unknown header style", nil, &edition.ColumnTheme{HeaderStyle: "sparkly"}, HeaderGradient, FontNormal},
		{"unknown font style", nil, &edition.ColumnTheme{FontStyle: "bold"}, HeaderGradient, FontNormal},
		{"solid", nil, &edition.ColumnTheme{HeaderStyle: "solid"}, HeaderSolid, FontNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.Resolve(Scope{Edition: tt.edition, Column: tt.column}, Light)
			if r.HeaderStyle != tt.wantHeader || r.FontStyle != tt.wantFont {
				t.Errorf("got %q/%q, want %q/%q", r.HeaderStyle, r.FontStyle, tt.wantHeader, tt.wantFont)
			}
		})
	}
}

func TestResolve_OutOfRangeModeResolvesLight(t *testing.T) {
	e := NewEngine(edition.GlobalStyle{})
	light := e.Resolve(Scope{}, Light)
	for _, m := range []Mode{Mode(2), Mode(-1), Mode(99)} {
		r := e.Resolve(Scope{}, m)
		if diff := cmp.Diff(light, r); diff != "" {
			t.Errorf("Resolve(mode %d) mismatch (-light +got):\n%s", int(m), diff)
		}
	}
}

func TestResolve_FontsAndTypography(t *testing.T) {
	e := NewEngine(edition.GlobalStyle{
		Typography: edition.GlobalTypography{TitleSize: "40px", SmallSize: "11px"},
		Spacing:    edition.Spacing{MD: "18px"},
	})
	scope := Scope{
		Edition: &edition.Theme{
			Font:          edition.ThemeFont{Title: "Playfair Display"},
			Typography:    edition.ThemeTypography{BodySize: "17px", FontFamily: "Georgia"},
			HeaderFont:    "Lora",
			CategoryLabel: "ESSAYS",
		},
		Column: &edition.ColumnTheme{FontFamily: "Merriweather", CategoryLabel: "POETRY"},
	}
	r := e.Resolve(scope, Light)

	if r.TitleFont != "Playfair Display" || r.FontFamily != "Merriweather" || r.HeaderFont != "Lora" {
		t.Errorf("fonts = %q %q %q", r.TitleFont, r.FontFamily, r.HeaderFont)
	}
	if r.CategoryLabel != "POETRY" {
		t.Errorf("CategoryLabel = %q", r.CategoryLabel)
	}
	wantTypo := Typography{TitleSize: "40px", SubtitleSize: "20px", BodySize: "17px", SmallSize: "11px"}
	if diff := cmp.Diff(wantTypo, r.Typography); diff != "" {
		t.Errorf("typography mismatch (-want +got):\n%s", diff)
	}
	if r.Spacing.MD != "18px" || r.Spacing.XS != "4px" {
		t.Errorf("spacing = %+v", r.Spacing)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	e := NewEngine(edition.GlobalStyle{Colors: edition.GlobalColors{Primary: "#111"}})
	scope := Scope{Edition: &edition.Theme{Colors: edition.ThemeColors{Accent: "#a"}}}
	a := e.Resolve(scope, Dark)
	b := e.Resolve(scope, Dark)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("resolution not deterministic:\n%s", diff)
	}
}

func TestScopeHelpers(t *testing.T) {
	ed := &edition.Edition{CoverColor: "#c0", Columns: []edition.Column{
		{ID: "a", Title: "A", Theme: &edition.ColumnTheme{PrimaryColor: "#col"}},
		{ID: "b", Title: "B"},
	}}
	th := &edition.Theme{}
	s := EditionScope(ed, th)
	if s.CoverColor != "#c0" || s.Edition != th || s.Column != nil {
		t.Errorf("EditionScope = %+v", s)
	}
	c, _ := ed.Column("a")
	if s.WithColumn(c).Column == nil {
		t.Error("WithColumn should set the column theme")
	}
	c, _ = ed.Column("b")
	if s.WithColumn(c).Column != nil {
		t.Error("column without theme should leave Column nil")
	}
	if got := EditionScope(nil, nil); got != (Scope{}) {
		t.Errorf("EditionScope(nil, nil) = %+v", got)
	}
}

func TestMode(t *testing.T) {
	tests := []struct {
		in     string
		want   Mode
		wantOK bool
	}{
		{"light", Light, true},
		{"DARK", Dark, true},
		{" dark ", Dark, true},
		{"sepia", Light, false},
		{"", Light, false},
	}
	for _, tt := range tests {
		got, ok := ParseMode(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseMode(%q) = %v, %v", tt.in, got, ok)
		}
	}
	if Light.Toggle() != Dark || Dark.Toggle() != Light {
		t.Error("Toggle")
	}

	var m Mode
	if err := m.UnmarshalText([]byte("dark")); err != nil || m != Dark {
		t.Errorf("UnmarshalText = %v, %v", m, err)
	}
}

func TestCSS(t *testing.T) {
	css := NewEngine(edition.GlobalStyle{}).Resolve(Scope{}, Dark).CSS()
	if !strings.HasPrefix(css, ":root {\n") {
		t.Errorf("css = %q", css)
	}
	for _, want := range []string{"--almanac-background: #121212;", "--almanac-mode: dark;", "--almanac-header-style: gradient;"} {
		if !strings.Contains(css, want) {
			t.Errorf("css missing %q", want)
		}
	}
	if strings.Index(css, "--almanac-accent") > strings.Index(css, "--almanac-background") {
		t.Error("properties should be sorted by name")
	}
}
