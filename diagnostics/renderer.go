package diagnostics

import (
	"fmt"
	"strings"
)

const (
	// compilerErrorLabel labels source-located engine failures
	compilerErrorLabel = "Compiler error"
	// internalErrorHeader prefixes the dump of an internal failure
	internalErrorHeader = "Internal compiler error during compilation:"
	// unimplementedFeatureHeader prefixes the dump of a known limitation
	unimplementedFeatureHeader = "Unimplemented feature:"
	// docstringErrorPrefix prefixes documentation parsing failures
	docstringErrorPrefix = "Documentation parsing error: "
	// unstructuredErrorPrefix prefixes the dump of an unstructured failure
	unstructuredErrorPrefix = "Exception during compilation: "
	// unknownErrorPrefix starts the message for failures of unrecognized shape
	unknownErrorPrefix = "Unknown exception during compilation"
)

// faultRenderer renders each Fault variant into its distinct textual form.
type faultRenderer struct {
	formatter *SourceReferenceFormatter
	sb        strings.Builder
}

// RenderFault returns the text reported for fault on the diagnostic channel. Source-located variants are rendered
// through formatter; internal, unimplemented and unstructured variants are rendered as a raw dump of the error,
// including any stack trace captured with it.
func RenderFault(fault Fault, formatter *SourceReferenceFormatter) string {
	renderer := &faultRenderer{formatter: formatter}
	fault.Accept(renderer)
	return renderer.sb.String()
}

// dump renders err with every detail it carries.
func dump(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	return fmt.Sprintf("%+v", err)
}

func (r *faultRenderer) VisitCompilerError(fault *CompilerErrorFault) {
	r.sb.WriteString(r.formatter.Format(compilerErrorLabel, fault.Err.Message, fault.Err.Location, nil))
}

func (r *faultRenderer) VisitInternalError(fault *InternalErrorFault) {
	r.sb.WriteString(internalErrorHeader + "\n")
	r.sb.WriteString(dump(fault.cause, fault.Err.Message) + "\n")
}

func (r *faultRenderer) VisitUnimplementedFeature(fault *UnimplementedFeatureFault) {
	r.sb.WriteString(unimplementedFeatureHeader + "\n")
	r.sb.WriteString(dump(fault.cause, fault.Err.Message) + "\n")
}

func (r *faultRenderer) VisitStructuredError(fault *StructuredErrorFault) {
	if fault.IsDocstringError() {
		r.sb.WriteString(docstringErrorPrefix + fault.Err.Message + "\n")
		return
	}
	r.sb.WriteString(r.formatter.Format(string(fault.Err.Type), fault.Err.Message, fault.Err.Location, fault.Err.SecondaryLocations))
}

func (r *faultRenderer) VisitUnstructured(fault *UnstructuredFault) {
	r.sb.WriteString(unstructuredErrorPrefix + dump(fault.cause, fault.Err.Message) + "\n")
}

func (r *faultRenderer) VisitUnknown(fault *UnknownFault) {
	if fault.Message == "" {
		r.sb.WriteString(unknownErrorPrefix + ".\n")
		return
	}
	r.sb.WriteString(unknownErrorPrefix + ": " + fault.Message + "\n")
}
