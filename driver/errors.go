package driver

import (
	"fmt"

	"github.com/crytic/soldrive/diagnostics"
)

// InputError describes invalid user input detected before the engine is involved, such as a missing file or an
// invalid remapping. It is reported once and ends the run.
type InputError struct {
	// Diagnostic describes the condition
	Diagnostic diagnostics.Diagnostic
}

// newInputError creates an InputError with a formatted message.
func newInputError(format string, args ...any) *InputError {
	return &InputError{Diagnostic: diagnostics.NewUserError(fmt.Sprintf(format, args...))}
}

// Error implements the error interface.
func (e *InputError) Error() string {
	return e.Diagnostic.Message
}
