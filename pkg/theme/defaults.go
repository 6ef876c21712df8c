package theme

// Built-in values used when no layer defines a token.
const (
	DefaultPrimary       = "#2C3E50"
	DefaultSecondary     = "#3498DB"
	DefaultText          = "#FFFFFF"
	DefaultAccent        = "#E67E22"
	DefaultBorder        = "#E0E0E0"
	DefaultFontFamily    = "'Roboto', sans-serif"
	DefaultHeaderFont    = "inherit"
	DefaultTitleFont     = "Satisfy"
	DefaultCategoryLabel = ""
)

var (
	defaultBackground  = [2]string{Light: "#FFFFFF", Dark: "#121212"}
	defaultContentText = [2]string{Light: "#212121", Dark: "#EDEDED"}

	defaultTypography = Typography{
		TitleSize:    "32px",
		SubtitleSize: "20px",
		BodySize:     "16px",
		SmallSize:    "12px",
	}

	defaultSpacing = Spacing{
		XS: "4px",
		SM: "8px",
		MD: "16px",
		LG: "24px",
		XL: "32px",
	}
)

// HeaderStyle selects how a column header is drawn.
type HeaderStyle string

const (
	HeaderGradient HeaderStyle = "gradient"
	HeaderSolid    HeaderStyle = "solid"
	HeaderMinimal  HeaderStyle = "minimal"
	HeaderArtistic HeaderStyle = "artistic"
)

func parseHeaderStyle(s string) (HeaderStyle, bool) {
	switch h := HeaderStyle(s); h {
	case HeaderGradient, HeaderSolid, HeaderMinimal, HeaderArtistic:
		return h, true
	}
	return "", false
}

// FontStyle is the CSS font-style of column text.
type FontStyle string

const (
	FontNormal  FontStyle = "normal"
	FontItalic  FontStyle = "italic"
	FontOblique FontStyle = "oblique"
)

func parseFontStyle(s string) (FontStyle, bool) {
	switch f := FontStyle(s); f {
	case FontNormal, FontItalic, FontOblique:
		return f, true
	}
	return "", false
}
