package diagnostics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/crytic/soldrive/compilation/types"
	"github.com/crytic/soldrive/logging/colors"
)

// SourceProvider describes a lookup of source unit content by logical path. *types.SourceUnits satisfies it.
type SourceProvider interface {
	Get(path string) (string, bool)
}

// SourceReferenceFormatter renders labelled messages with a human-readable excerpt of the source they refer to:
//
//	TypeError: Type mismatch.
//	 --> a.sol:3:9:
//	  |
//	3 |     x = true;
//	  |         ^^^^
type SourceReferenceFormatter struct {
	// sources describes where excerpt text is read from
	sources SourceProvider

	// colored describes whether ANSI colors are used
	colored bool
}

// NewSourceReferenceFormatter creates a SourceReferenceFormatter reading excerpts from sources.
func NewSourceReferenceFormatter(sources SourceProvider, colored bool) *SourceReferenceFormatter {
	return &SourceReferenceFormatter{
		sources: sources,
		colored: colored,
	}
}

// color returns f if the formatter is colored and colors.Reset otherwise.
func (f *SourceReferenceFormatter) color(fn colors.ColorFunc) colors.ColorFunc {
	if f.colored {
		return fn
	}
	return colors.Reset
}

// headerColor returns the color used for a label. Warnings are yellow, everything else is red.
func (f *SourceReferenceFormatter) headerColor(label string) colors.ColorFunc {
	if label == string(types.ErrorTypeWarning) {
		return f.color(colors.YellowBold)
	}
	return f.color(colors.RedBold)
}

// FormatDiagnostic renders a diagnostic reported by the engine, labelled with its error type.
func (f *SourceReferenceFormatter) FormatDiagnostic(diagnostic types.CompilerDiagnostic) string {
	return f.Format(string(diagnostic.Type), diagnostic.Message, diagnostic.Location, diagnostic.SecondaryLocations)
}

// Format renders `label: message`, the excerpt for location, then a note with an excerpt for every secondary
// location, followed by an empty line. Locations whose source is unknown render without an excerpt.
func (f *SourceReferenceFormatter) Format(label string, message string, location *types.SourceLocation, secondary []types.SecondarySourceLocation) string {
	var sb strings.Builder

	// Header line
	sb.WriteString(f.headerColor(label)(label))
	sb.WriteString(f.color(colors.WhiteBold)(": " + message))
	sb.WriteString("\n")
	f.writeExcerpt(&sb, label, location)

	for i := range secondary {
		sb.WriteString(f.color(colors.CyanBold)("Note"))
		sb.WriteString(f.color(colors.WhiteBold)(": " + secondary[i].Message))
		sb.WriteString("\n")
		f.writeExcerpt(&sb, label, &secondary[i].SourceLocation)
	}

	sb.WriteString("\n")
	return sb.String()
}

// sourceReference describes the line of text a location starts on, along with positions inside it.
type sourceReference struct {
	// line describes the zero-based line number of the start of the location
	line int
	// startColumn describes the byte column where the location starts
	startColumn int
	// endColumn describes the byte column where the location ends, if it ends on the same line
	endColumn int
	// multiline describes whether the location ends on a later line
	multiline bool
	// text describes the full line the location starts on
	text string
}

// extractReference computes the sourceReference for location. Returns false if the location or its source is unknown.
func (f *SourceReferenceFormatter) extractReference(location *types.SourceLocation) (sourceReference, bool) {
	if !location.IsValid() || f.sources == nil {
		return sourceReference{}, false
	}
	source, ok := f.sources.Get(location.SourceName)
	if !ok || location.Start > len(source) {
		return sourceReference{}, false
	}
	end := min(location.End, len(source))

	lineStart := strings.LastIndexByte(source[:location.Start], '\n') + 1
	lineEnd := strings.IndexByte(source[location.Start:], '\n')
	if lineEnd == -1 {
		lineEnd = len(source)
	} else {
		lineEnd += location.Start
	}

	reference := sourceReference{
		line:        strings.Count(source[:location.Start], "\n"),
		startColumn: location.Start - lineStart,
		text:        source[lineStart:lineEnd],
	}
	reference.multiline = end > lineEnd
	if !reference.multiline {
		reference.endColumn = end - lineStart
	}
	return reference, true
}

// writeExcerpt writes the ` --> file:line:column:` line and the excerpt for location.
func (f *SourceReferenceFormatter) writeExcerpt(sb *strings.Builder, label string, location *types.SourceLocation) {
	reference, ok := f.extractReference(location)
	if !ok {
		if location != nil && location.SourceName != "" {
			sb.WriteString(f.color(colors.BlueBold)(" --> "))
			sb.WriteString(location.SourceName + "\n")
		}
		return
	}

	frame := f.color(colors.BlueBold)
	highlight := f.headerColor(label)
	lineNumber := strconv.Itoa(reference.line + 1)
	leftpad := strings.Repeat(" ", len(lineNumber))

	// Location line
	sb.WriteString(frame(leftpad + "--> "))
	sb.WriteString(fmt.Sprintf("%s:%d:%d:\n", location.SourceName, reference.line+1, reference.startColumn+1))

	// Empty frame line
	sb.WriteString(leftpad + frame(" |") + "\n")

	// Source line
	sb.WriteString(frame(lineNumber + " | "))
	if reference.multiline {
		sb.WriteString(reference.text[:reference.startColumn])
		sb.WriteString(highlight(reference.text[reference.startColumn:]))
		sb.WriteString("\n")

		sb.WriteString(leftpad + frame(" | "))
		sb.WriteString(strings.Repeat(" ", reference.startColumn))
		sb.WriteString(highlight("^ (Relevant source part starts here and spans across multiple lines)."))
		sb.WriteString("\n")
		return
	}
	sb.WriteString(reference.text[:reference.startColumn])
	sb.WriteString(highlight(reference.text[reference.startColumn:reference.endColumn]))
	sb.WriteString(reference.text[reference.endColumn:])
	sb.WriteString("\n")

	// Caret line, keeping tabs so the carets line up with the source
	sb.WriteString(leftpad + frame(" | "))
	for _, ch := range reference.text[:reference.startColumn] {
		if ch == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}
	}
	sb.WriteString(highlight(strings.Repeat("^", max(reference.endColumn-reference.startColumn, 1))))
	sb.WriteString("\n")
}
