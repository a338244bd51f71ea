package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E099)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "Hook called outside component render",
		Detail:   "UseState and UseLayoutEffect need an owner. Call them from a component's render function.",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "Hook order changed",
		Detail:   "Hooks must be called unconditionally and in the same order on every render of a component.",
	},
	"E010": {
		Category: CategoryRuntime,
		Message:  "Flush budget exceeded",
		Detail:   "Rendering and effects kept scheduling more work. An effect probably sets state to a new value on every run.",
	},
	"E011": {
		Category: CategoryRuntime,
		Message:  "Component panicked",
		Detail:   "A component render function or one of its effects panicked. The session stopped flushing.",
	},
	"E012": {
		Category: CategoryRuntime,
		Message:  "Session unmounted",
		Detail:   "The session has been unmounted and can no longer render.",
	},
	"E013": {
		Category: CategoryRuntime,
		Message:  "Session already mounted",
		Detail:   "Mount was called on a session that already has a root component.",
	},

	// ============================================
	// Store Errors (E100-E199)
	// ============================================

	"E100": {
		Category: CategoryStore,
		Message:  "Reducer is nil",
		Detail:   "A store needs a reducer function to compute the next state.",
	},
	"E101": {
		Category: CategoryStore,
		Message:  "Reducers may not dispatch actions",
		Detail:   "A reducer called Dispatch on the store it is reducing for.",
	},
	"E102": {
		Category: CategoryStore,
		Message:  "Store accessed while reducing",
		Detail:   "GetState, Subscribe and unsubscribe may not be called while the reducer is running. Pass what the reducer needs through the action instead.",
	},
	"E103": {
		Category: CategoryStore,
		Message:  "Listener is nil",
		Detail:   "Subscribe needs a non-nil listener function.",
	},

	// ============================================
	// Config Errors (E200-E299)
	// ============================================

	"E200": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "prsh.json could not be read or parsed.",
	},
	"E201": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration field is out of range.",
	},

	// ============================================
	// CLI Errors (E300-E399)
	// ============================================

	"E300": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The live server stopped with an error.",
	},
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
