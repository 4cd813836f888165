package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Lifecycle errors (W001-W009)
	// ============================================

	"W001": {
		Category: CategoryMisuse,
		Message:  "State update introduces an undeclared field",
	},
	"W002": {
		Category: CategoryLifecycle,
		Message:  "WillStart hook failed",
	},
	"W003": {
		Category: CategoryTemplate,
		Message:  "Template not found",
	},
	"W004": {
		Category: CategoryRender,
		Message:  "Render failed",
	},
	"W005": {
		Category: CategoryMisuse,
		Message:  "Mount target is nil",
	},

	// ============================================
	// Config / CLI errors (W010-W019)
	// ============================================

	"W010": {
		Category: CategoryConfig,
		Message:  "Config file not found",
	},
	"W011": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
	},
	"W012": {
		Category: CategoryCLI,
		Message:  "Inspector server failed",
	},
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
