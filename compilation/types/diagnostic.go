package types

// ErrorType describes the type name the compiler attaches to a reported error or warning.
type ErrorType string

const (
	// ErrorTypeParserError describes a failure to parse a source unit
	ErrorTypeParserError ErrorType = "ParserError"
	// ErrorTypeSyntaxError describes a syntactic rule violation found after parsing
	ErrorTypeSyntaxError ErrorType = "SyntaxError"
	// ErrorTypeDeclarationError describes an unknown or conflicting declaration
	ErrorTypeDeclarationError ErrorType = "DeclarationError"
	// ErrorTypeDocstringParsingError describes malformed NatSpec documentation
	ErrorTypeDocstringParsingError ErrorType = "DocstringParsingError"
	// ErrorTypeTypeError describes a type checking failure
	ErrorTypeTypeError ErrorType = "TypeError"
	// ErrorTypeWarning describes an advisory that does not fail the compilation
	ErrorTypeWarning ErrorType = "Warning"
	// ErrorTypeInfo describes an informational message
	ErrorTypeInfo ErrorType = "Info"
	// ErrorTypeJSONError describes a malformed compiler input document
	ErrorTypeJSONError ErrorType = "JSONError"
	// ErrorTypeIOError describes a failure of the compiler to read or write a file
	ErrorTypeIOError ErrorType = "IOError"
	// ErrorTypeCompilerError describes a source-located failure inside the compiler
	ErrorTypeCompilerError ErrorType = "CompilerError"
	// ErrorTypeInternalCompilerError describes a violated invariant inside the compiler
	ErrorTypeInternalCompilerError ErrorType = "InternalCompilerError"
	// ErrorTypeUnimplementedFeatureError describes a language feature the compiler does not support yet
	ErrorTypeUnimplementedFeatureError ErrorType = "UnimplementedFeatureError"
	// ErrorTypeException describes an unstructured failure inside the compiler
	ErrorTypeException ErrorType = "Exception"
	// ErrorTypeUnknownException describes a failure of unknown shape inside the compiler
	ErrorTypeUnknownException ErrorType = "UnknownException"
)

// Severity describes how severe a CompilerDiagnostic is.
type Severity string

const (
	// SeverityError describes a diagnostic that fails the compilation
	SeverityError Severity = "error"
	// SeverityWarning describes an advisory diagnostic
	SeverityWarning Severity = "warning"
	// SeverityInfo describes an informational diagnostic
	SeverityInfo Severity = "info"
)

// SourceLocation describes a byte range [Start, End) within the source unit SourceName.
type SourceLocation struct {
	// SourceName describes the logical path of the source unit
	SourceName string `json:"file"`
	// Start describes the byte offset where the range starts, or -1 if unknown
	Start int `json:"start"`
	// End describes the byte offset where the range ends, or -1 if unknown
	End int `json:"end"`
}

// IsValid returns whether the location refers to a known range of a named unit.
func (l *SourceLocation) IsValid() bool {
	return l != nil && l.SourceName != "" && l.Start >= 0 && l.End >= l.Start
}

// SecondarySourceLocation describes an additional location related to a diagnostic, with a note explaining it.
type SecondarySourceLocation struct {
	SourceLocation
	// Message describes the note attached to the location
	Message string `json:"message"`
}

// CompilerDiagnostic describes a single error or advisory reported by the compiler.
type CompilerDiagnostic struct {
	// Type describes the compiler's type name for the diagnostic
	Type ErrorType

	// Severity describes whether the diagnostic fails the compilation
	Severity Severity

	// Message describes the diagnostic
	Message string

	// Location describes where in the source the diagnostic applies, if anywhere
	Location *SourceLocation

	// SecondaryLocations describes related locations, each with a note
	SecondaryLocations []SecondarySourceLocation
}

// IsError returns whether the diagnostic fails the compilation.
func (d CompilerDiagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// IsWarning returns whether the diagnostic is advisory.
func (d CompilerDiagnostic) IsWarning() bool {
	return d.Severity == SeverityWarning
}

// IsSyntactic returns whether the diagnostic stops the syntax stage.
func (d CompilerDiagnostic) IsSyntactic() bool {
	return d.Type == ErrorTypeParserError || d.Type == ErrorTypeSyntaxError
}
