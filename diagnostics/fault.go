package diagnostics

import (
	"github.com/crytic/soldrive/compilation/types"
)

// Fault describes a failure raised while configuring or invoking the compilation engine. The set of variants is
// closed: every variant is defined in this package and has a dedicated FaultVisitor method, so a new variant cannot be
// added without every visitor handling it.
type Fault interface {
	// Accept calls the visitor method matching the variant.
	Accept(visitor FaultVisitor)

	// Diagnostic returns the Diagnostic describing the fault.
	Diagnostic() Diagnostic

	// Cause returns the error the fault was classified from, or nil if it was not an error.
	Cause() error

	// sealed prevents types outside this package from implementing Fault.
	sealed()
}

// FaultVisitor describes an exhaustive match over the Fault variants.
type FaultVisitor interface {
	VisitCompilerError(fault *CompilerErrorFault)
	VisitInternalError(fault *InternalErrorFault)
	VisitUnimplementedFeature(fault *UnimplementedFeatureFault)
	VisitStructuredError(fault *StructuredErrorFault)
	VisitUnstructured(fault *UnstructuredFault)
	VisitUnknown(fault *UnknownFault)
}

// CompilerErrorFault describes a structured, source-located failure of the engine.
type CompilerErrorFault struct {
	Err   *types.CompilerError
	cause error
}

// InternalErrorFault describes a violated invariant inside the engine.
type InternalErrorFault struct {
	Err   *types.InternalCompilerError
	cause error
}

// UnimplementedFeatureFault describes a known limitation of the engine.
type UnimplementedFeatureFault struct {
	Err   *types.UnimplementedFeatureError
	cause error
}

// StructuredErrorFault describes a structured failure carrying a compiler error type.
type StructuredErrorFault struct {
	Err   *types.Error
	cause error
}

// UnstructuredFault describes a failure with a message but no structure.
type UnstructuredFault struct {
	Err   *types.Exception
	cause error
}

// UnknownFault describes a failure of unrecognized shape. Message is empty when the failure carried no text.
type UnknownFault struct {
	Message string
	cause   error
}

// Accept implements Fault by calling FaultVisitor.VisitCompilerError.
func (f *CompilerErrorFault) Accept(visitor FaultVisitor) { visitor.VisitCompilerError(f) }

// Cause implements Fault.
func (f *CompilerErrorFault) Cause() error { return f.cause }

// Accept implements Fault by calling FaultVisitor.VisitInternalError.
func (f *InternalErrorFault) Accept(visitor FaultVisitor) { visitor.VisitInternalError(f) }

// Cause implements Fault.
func (f *InternalErrorFault) Cause() error { return f.cause }

// Accept implements Fault by calling FaultVisitor.VisitUnimplementedFeature.
func (f *UnimplementedFeatureFault) Accept(visitor FaultVisitor) { visitor.VisitUnimplementedFeature(f) }

// Cause implements Fault.
func (f *UnimplementedFeatureFault) Cause() error { return f.cause }

// Accept implements Fault by calling FaultVisitor.VisitStructuredError.
func (f *StructuredErrorFault) Accept(visitor FaultVisitor) { visitor.VisitStructuredError(f) }

// Cause implements Fault.
func (f *StructuredErrorFault) Cause() error { return f.cause }

// Accept implements Fault by calling FaultVisitor.VisitUnstructured.
func (f *UnstructuredFault) Accept(visitor FaultVisitor) { visitor.VisitUnstructured(f) }

// Cause implements Fault.
func (f *UnstructuredFault) Cause() error { return f.cause }

// Accept implements Fault by calling FaultVisitor.VisitUnknown.
func (f *UnknownFault) Accept(visitor FaultVisitor) { visitor.VisitUnknown(f) }

// Cause implements Fault.
func (f *UnknownFault) Cause() error { return f.cause }

func (f *CompilerErrorFault) sealed()        {}
func (f *InternalErrorFault) sealed()        {}
func (f *UnimplementedFeatureFault) sealed() {}
func (f *StructuredErrorFault) sealed()      {}
func (f *UnstructuredFault) sealed()         {}
func (f *UnknownFault) sealed()              {}

// Diagnostic implements Fault.
func (f *CompilerErrorFault) Diagnostic() Diagnostic {
	return Diagnostic{Category: CategoryCompilerError, Location: f.Err.Location, Message: f.Err.Message}
}

// Diagnostic implements Fault.
func (f *InternalErrorFault) Diagnostic() Diagnostic {
	return Diagnostic{Category: CategoryInternalError, Message: f.Err.Message}
}

// Diagnostic implements Fault.
func (f *UnimplementedFeatureFault) Diagnostic() Diagnostic {
	return Diagnostic{Category: CategoryUnimplementedFeature, Location: f.Err.Location, Message: f.Err.Message}
}

// Diagnostic implements Fault.
func (f *StructuredErrorFault) Diagnostic() Diagnostic {
	if f.IsDocstringError() {
		return Diagnostic{Category: CategoryDocstringError, Location: f.Err.Location, Message: f.Err.Message}
	}
	return Diagnostic{Category: CategoryCompilerError, Location: f.Err.Location, Message: f.Err.Message}
}

// Diagnostic implements Fault.
func (f *UnstructuredFault) Diagnostic() Diagnostic {
	return Diagnostic{Category: CategoryInternalError, Message: f.Err.Message}
}

// Diagnostic implements Fault.
func (f *UnknownFault) Diagnostic() Diagnostic {
	return Diagnostic{Category: CategoryUnknownError, Message: f.Message}
}

// IsDocstringError returns whether the failure is a documentation parsing error.
func (f *StructuredErrorFault) IsDocstringError() bool {
	return f.Err.Type == types.ErrorTypeDocstringParsingError
}
