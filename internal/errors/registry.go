package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://hybrids.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Definition Errors (E100-E119)
	// ============================================

	"E101": {
		Category: CategoryDefinition,
		Message:  "Invalid match specification",
		Detail:   "A parent property must match ancestors by tag name (string), by definition reference (*hybrid.Definition) or by predicate (func(*hybrid.Definition) bool).",
		DocURL:   docBase + "E101",
	},
	"E102": {
		Category: CategoryRuntime,
		Message:  "Circular computed dependency",
		Detail:   "A computed property re-entered its own evaluation, directly or through other computed properties. Break the cycle by reading one side without tracking or by restructuring the getters.",
		DocURL:   docBase + "E102",
	},
	"E103": {
		Category: CategoryRuntime,
		Message:  "Unknown property",
		Detail:   "The property is not declared in the element's definition.",
		DocURL:   docBase + "E103",
	},
	"E104": {
		Category: CategoryRuntime,
		Message:  "Read-only property",
		Detail:   "Parent links are maintained by the resolver and computed properties without a setter cannot be written.",
		DocURL:   docBase + "E104",
	},
	"E105": {
		Category: CategoryDefinition,
		Message:  "Tag already defined",
		Detail:   "Each tag name can only be defined once per runtime.",
		DocURL:   docBase + "E105",
	},
	"E106": {
		Category: CategoryDefinition,
		Message:  "Invalid tag name",
		Detail:   "Custom element tag names must be lowercase, start with a letter and contain a hyphen.",
		DocURL:   docBase + "E106",
	},
	"E107": {
		Category: CategoryDefinition,
		Message:  "Invalid property descriptor",
		Detail:   "Computed properties need a getter, and parent properties cannot declare a getter or a setter.",
		DocURL:   docBase + "E107",
	},
	"E108": {
		Category: CategoryRuntime,
		Message:  "Computed getter failed",
		Detail:   "The getter returned an error or panicked. The cached value was left stale and will be retried on the next read.",
		DocURL:   docBase + "E108",
	},
	"E109": {
		Category: CategoryRuntime,
		Message:  "Property read on nil host",
		Detail:   "A property was read through a nil element, usually a parent link that did not resolve.",
		DocURL:   docBase + "E109",
	},
	"E110": {
		Category: CategoryDefinition,
		Message:  "Undefined tag",
		Detail:   "No definition is registered for the tag.",
		DocURL:   docBase + "E110",
	},

	// ============================================
	// Config Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Cannot read config file",
		Detail:   "The configuration file could not be opened.",
		DocURL:   docBase + "E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The configuration file could not be parsed or contains invalid values.",
		DocURL:   docBase + "E121",
	},

	// ============================================
	// Fixture Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryFixture,
		Message:  "Invalid fixture",
		Detail:   "The scenario file could not be parsed or references unknown tags or nodes.",
		DocURL:   docBase + "E140",
	},
	"E141": {
		Category: CategoryFixture,
		Message:  "Fixture step failed",
		Detail:   "A step of the scenario did not produce the expected result.",
		DocURL:   docBase + "E141",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
