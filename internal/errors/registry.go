package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// State Diagnostics (R001-R009)
	// ============================================

	"R001": {
		Category:   CategoryState,
		Message:    "No data found",
		Detail:     "The status is Success but the current data is absent. Nothing is rendered.",
		Suggestion: "Set the current data before (or together with) the Success status when using Manipulate().",
	},
	"R002": {
		Category:   CategoryState,
		Message:    "No error found",
		Detail:     "The status is Error but the current error is absent. Nothing is rendered.",
		Suggestion: "Set the current error before (or together with) the Error status when using Manipulate().",
	},
	"R003": {
		Category: CategoryState,
		Message:  "Unknown status",
		Detail:   "The status is not one of Idle, Loading, Success or Error. Nothing is rendered.",
	},
	"R004": {
		Category:   CategoryState,
		Message:    "Payload type mismatch",
		Detail:     "A shared record holds a payload whose type differs from the adapter's data type. The payload is treated as absent.",
		Suggestion: "Bind adapters of the same data type to a key.",
	},

	// ============================================
	// Producer Errors (R010-R019)
	// ============================================

	"R010": {
		Category: CategoryProducer,
		Message:  "Producer failed",
		Detail:   "The producer passed to HandleData returned an error.",
	},
	"R011": {
		Category: CategoryProducer,
		Message:  "Producer panicked",
		Detail:   "The producer passed to HandleData panicked. The panic is recorded as the current error and re-raised.",
	},

	// ============================================
	// Snapshot Errors (R020-R029)
	// ============================================

	"R020": {
		Category: CategorySnapshot,
		Message:  "Snapshot could not be decoded",
		Detail:   "The snapshot is not a JSON object of state records.",
	},
	"R021": {
		Category: CategorySnapshot,
		Message:  "Snapshot could not be encoded",
		Detail:   "A payload in the store cannot be represented as JSON.",
	},
	"R022": {
		Category: CategorySnapshot,
		Message:  "Invalid status",
		Detail:   "Status must be one of Idle, Loading, Success or Error.",
	},
	"R023": {
		Category: CategorySnapshot,
		Message:  "Record not found",
		Detail:   "No record is registered under the requested key.",
	},

	// ============================================
	// Config Errors (R030-R039)
	// ============================================

	"R030": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Detail:     "The configuration file could not be parsed as YAML.",
		Suggestion: "Check the file against the documented renderstate.yaml layout.",
	},
	"R031": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range.",
	},

	// ============================================
	// CLI Errors (R040-R049)
	// ============================================

	"R040": {
		Category: CategoryCLI,
		Message:  "Cannot read file",
		Detail:   "The file passed on the command line could not be opened.",
	},
	"R041": {
		Category: CategoryCLI,
		Message:  "Devtools server failed",
		Detail:   "The inspector HTTP server stopped with an error.",
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
