package diagnostics

import (
	"fmt"

	"github.com/crytic/soldrive/compilation/types"
	"github.com/pkg/errors"
)

// ClassifyError maps err to exactly one Fault variant. The most specific recognized type found in the chain of err
// wins; anything unrecognized becomes an UnknownFault carrying the error text.
func ClassifyError(err error) Fault {
	var compilerError *types.CompilerError
	if errors.As(err, &compilerError) {
		return &CompilerErrorFault{Err: compilerError, cause: err}
	}

	var internalError *types.InternalCompilerError
	if errors.As(err, &internalError) {
		return &InternalErrorFault{Err: internalError, cause: err}
	}

	var unimplementedError *types.UnimplementedFeatureError
	if errors.As(err, &unimplementedError) {
		return &UnimplementedFeatureFault{Err: unimplementedError, cause: err}
	}

	var structuredError *types.Error
	if errors.As(err, &structuredError) {
		return &StructuredErrorFault{Err: structuredError, cause: err}
	}

	var exception *types.Exception
	if errors.As(err, &exception) {
		return &UnstructuredFault{Err: exception, cause: err}
	}

	if err == nil {
		return &UnknownFault{}
	}
	return &UnknownFault{Message: err.Error(), cause: err}
}

// ClassifyPanic maps a value recovered from a panic to exactly one Fault variant. Errors are classified like
// ClassifyError, strings and fmt.Stringer values become the message of an UnknownFault, and any other value yields an
// UnknownFault with no message.
func ClassifyPanic(recovered any) Fault {
	switch value := recovered.(type) {
	case error:
		return ClassifyError(value)
	case string:
		return &UnknownFault{Message: value}
	case fmt.Stringer:
		return &UnknownFault{Message: value.String()}
	default:
		return &UnknownFault{}
	}
}
