package edition

// ModePair holds a value per display mode. An empty side is absent.
type ModePair struct {
	Light string `json:"light,omitempty"`
	Dark  string `json:"dark,omitempty"`
}

// ColumnTheme is the optional per-column override layer.
type ColumnTheme struct {
	PrimaryColor     string    `json:"primaryColor,omitempty"`
	SecondaryColor   string    `json:"secondaryColor,omitempty"`
	TextColor        string    `json:"textColor,omitempty"`
	AccentColor      string    `json:"accentColor,omitempty"`
	FontFamily       string    `json:"fontFamily,omitempty"`
	FontStyle        string    `json:"fontStyle,omitempty"`
	HeaderFont       string    `json:"headerFont,omitempty"`
	HeaderStyle      string    `json:"headerStyle,omitempty"`
	CategoryLabel    string    `json:"categoryLabel,omitempty"`
	BackgroundColor  *ModePair `json:"backgroundColor,omitempty"`
	ContentTextColor *ModePair `json:"contentTextColor,omitempty"`
}

// ThemeColors is the light palette of an edition theme.
type ThemeColors struct {
	Primary    string `json:"primary,omitempty"`
	Secondary  string `json:"secondary,omitempty"`
	Background string `json:"background,omitempty"`
	Text       string `json:"text,omitempty"`
	Accent     string `json:"accent,omitempty"`
}

// DarkColors overrides the palette in dark mode.
type DarkColors struct {
	Primary    string `json:"primary,omitempty"`
	Secondary  string `json:"secondary,omitempty"`
	Text       string `json:"text,omitempty"`
	Background string `json:"background,omitempty"`
}

// ThemeFont names the cover title font.
type ThemeFont struct {
	Title string `json:"title,omitempty"`
}

// ThemeTypography overrides global typography for one edition.
type ThemeTypography struct {
	TitleSize  Size   `json:"titleSize,omitempty"`
	BodySize   Size   `json:"bodySize,omitempty"`
	FontFamily string `json:"fontFamily,omitempty"`
}

// Theme is an edition's optional theme.json.
type Theme struct {
	Colors           ThemeColors     `json:"colors"`
	DarkMode         DarkColors      `json:"darkMode"`
	Font             ThemeFont       `json:"font"`
	Typography       ThemeTypography `json:"typography"`
	HeaderStyle      string          `json:"headerStyle,omitempty"`
	FontStyle        string          `json:"fontStyle,omitempty"`
	HeaderFont       string          `json:"headerFont,omitempty"`
	CategoryLabel    string          `json:"categoryLabel,omitempty"`
	BackgroundColor  *ModePair       `json:"backgroundColor,omitempty"`
	ContentTextColor *ModePair       `json:"contentTextColor,omitempty"`
}

// GlobalColors is the site-wide palette. Background is the light-mode value.
type GlobalColors struct {
	Primary    string `json:"primary,omitempty"`
	Secondary  string `json:"secondary,omitempty"`
	Background string `json:"background,omitempty"`
	Text       string `json:"text,omitempty"`
	Border     string `json:"border,omitempty"`
}

// GlobalTypography holds the site-wide type scale.
// Sizes are pixel numbers or CSS lengths.
type GlobalTypography struct {
	TitleSize    Size `json:"titleSize,omitempty"`
	SubtitleSize Size `json:"subtitleSize,omitempty"`
	BodySize     Size `json:"bodySize,omitempty"`
	SmallSize    Size `json:"smallSize,omitempty"`
}

// Spacing holds the site-wide spacing scale.
type Spacing struct {
	XS Size `json:"xs,omitempty"`
	SM Size `json:"sm,omitempty"`
	MD Size `json:"md,omitempty"`
	LG Size `json:"lg,omitempty"`
	XL Size `json:"xl,omitempty"`
}

// GlobalStyle is global/styles.json, the lowest cascade layer.
type GlobalStyle struct {
	Colors     GlobalColors     `json:"colors"`
	Typography GlobalTypography `json:"typography"`
	Spacing    Spacing          `json:"spacing"`
}

// GlobalConfig is global/config.json.
type GlobalConfig struct {
	MagazineName string `json:"magazineName"`
	Tagline      string `json:"tagline,omitempty"`
	About        string `json:"about,omitempty"`
}
