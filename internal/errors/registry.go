package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://almanac.vango.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Not Found (A100-A109)
	// ============================================

	"A100": {
		Category: CategoryNotFound,
		Message:  "Edition not found",
		Detail:   "No edition with this id is registered.",
		DocURL:   docBase + "A100",
	},
	"A101": {
		Category: CategoryNotFound,
		Message:  "Column not found",
		Detail:   "The edition does not declare a column with this id.",
		DocURL:   docBase + "A101",
	},
	"A102": {
		Category: CategoryNotFound,
		Message:  "Column body not found",
		Detail:   "The column is declared but its body file is missing.",
		DocURL:   docBase + "A102",
	},

	// ============================================
	// Malformed Content (A110-A119)
	// ============================================

	"A110": {
		Category: CategoryMalformed,
		Message:  "Malformed edition config",
		Detail:   "config.json could not be parsed or is missing a required field.",
		DocURL:   docBase + "A110",
	},
	"A111": {
		Category: CategoryMalformed,
		Message:  "Malformed edition theme",
		Detail:   "theme.json exists but could not be parsed.",
		DocURL:   docBase + "A111",
	},
	"A112": {
		Category: CategoryMalformed,
		Message:  "Malformed column body",
		Detail:   "The column body file could not be parsed.",
		DocURL:   docBase + "A112",
	},
	"A113": {
		Category: CategoryMalformed,
		Message:  "Malformed global file",
		Detail:   "global/config.json or global/styles.json could not be parsed.",
		DocURL:   docBase + "A113",
	},

	// ============================================
	// Configuration (A120-A129)
	// ============================================

	"A120": {
		Category: CategoryConfig,
		Message:  "Configuration file error",
		Detail:   "almanac.json could not be read or parsed.",
		DocURL:   docBase + "A120",
	},
	"A121": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or inconsistent.",
		DocURL:   docBase + "A121",
	},
	"A122": {
		Category: CategoryConfig,
		Message:  "Content source unavailable",
		Detail:   "The configured content source could not be opened.",
		DocURL:   docBase + "A122",
	},

	// ============================================
	// Request (A130-A139)
	// ============================================

	"A130": {
		Category: CategoryRequest,
		Message:  "Invalid request parameter",
		DocURL:   docBase + "A130",
	},

	// ============================================
	// CLI (A140-A149)
	// ============================================

	"A140": {
		Category: CategoryCLI,
		Message:  "Invalid command arguments",
		DocURL:   docBase + "A140",
	},
}

// Register adds a custom error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
