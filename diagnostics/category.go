package diagnostics

import "github.com/crytic/soldrive/compilation/types"

// Category describes the class a reported condition belongs to. Each class is rendered differently.
type Category int

const (
	// CategoryUserError describes invalid input detected before the engine runs, such as a missing file
	CategoryUserError Category = iota
	// CategoryCompilerError describes a structured, source-located failure of the engine
	CategoryCompilerError
	// CategoryInternalError describes a violated invariant inside the engine or between the driver and the engine
	CategoryInternalError
	// CategoryUnimplementedFeature describes a known limitation of the engine
	CategoryUnimplementedFeature
	// CategoryDocstringError describes malformed documentation comments
	CategoryDocstringError
	// CategoryUnknownError describes a failure of unrecognized shape
	CategoryUnknownError
)

// String returns a readable name for the category.
func (c Category) String() string {
	switch c {
	case CategoryUserError:
		return "UserError"
	case CategoryCompilerError:
		return "CompilerError"
	case CategoryInternalError:
		return "InternalError"
	case CategoryUnimplementedFeature:
		return "UnimplementedFeature"
	case CategoryDocstringError:
		return "DocstringError"
	case CategoryUnknownError:
		return "UnknownError"
	default:
		return "Category(?)"
	}
}

// Diagnostic describes a single reportable condition. It is created where the condition is detected and is never
// mutated afterwards.
type Diagnostic struct {
	// Category describes the class of the condition
	Category Category
	// Location describes where in the source the condition applies, if anywhere
	Location *types.SourceLocation
	// Message describes the condition
	Message string
}

// NewUserError returns a Diagnostic describing invalid user input.
func NewUserError(message string) Diagnostic {
	return Diagnostic{Category: CategoryUserError, Message: message}
}
