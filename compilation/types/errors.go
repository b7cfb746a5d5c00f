package types

import "fmt"

// CompilerError describes a source-located failure raised by a compilation engine, as opposed to a diagnostic
// reported about the compiled code.
type CompilerError struct {
	// Message describes the failure
	Message string
	// Location describes where in the source the failure occurred, if known
	Location *SourceLocation
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Message
}

// InternalCompilerError describes a violated invariant inside the compiler or between the driver and the engine.
type InternalCompilerError struct {
	// Message describes the violated invariant
	Message string
}

// Error implements the error interface.
func (e *InternalCompilerError) Error() string {
	return e.Message
}

// UnimplementedFeatureError describes a known limitation of the engine.
type UnimplementedFeatureError struct {
	// Message describes the missing feature
	Message string
	// Location describes the source construct that requires the feature, if known
	Location *SourceLocation
}

// Error implements the error interface.
func (e *UnimplementedFeatureError) Error() string {
	return e.Message
}

// Error describes a structured failure with a compiler error type, raised instead of being reported as a diagnostic.
type Error struct {
	// Type describes the compiler's type name for the failure
	Type ErrorType
	// Message describes the failure
	Message string
	// Location describes where in the source the failure occurred, if known
	Location *SourceLocation
	// SecondaryLocations describes related locations, each with a note
	SecondaryLocations []SecondarySourceLocation
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Exception describes an unstructured failure raised by a compilation engine.
type Exception struct {
	// Message describes the failure
	Message string
}

// Error implements the error interface.
func (e *Exception) Error() string {
	return e.Message
}
