package platforms

import (
	"fmt"
	"strings"

	"github.com/crytic/soldrive/compilation/types"
	"github.com/crytic/soldrive/logging"
)

// importDirective describes a single `import` directive found in a source unit.
type importDirective struct {
	// path describes the import path exactly as written
	path string
	// start describes the byte offset of the `import` keyword
	start int
	// end describes the byte offset just past the terminating semicolon
	end int
}

// scanImports returns the import directives of source in the order they appear. Comments and string literals are
// skipped, so that only real directives are reported. Every directive form names its path in the first string literal
// following the keyword:
//
//	import "a.sol";
//	import "a.sol" as A;
//	import * as A from "a.sol";
//	import {B, C as D} from "a.sol";
func scanImports(source string) []importDirective {
	directives := make([]importDirective, 0)
	for i := 0; i < len(source); {
		switch {
		case strings.HasPrefix(source[i:], "//"):
			i = skipLineComment(source, i)
		case strings.HasPrefix(source[i:], "/*"):
			i = skipBlockComment(source, i)
		case source[i] == '"' || source[i] == '\'':
			_, i = skipString(source, i)
		case isIdentifierStart(source[i]):
			j := i
			for j < len(source) && isIdentifierPart(source[j]) {
				j++
			}
			if source[i:j] == "import" {
				if directive, ok := parseImportDirective(source, i, j); ok {
					directives = append(directives, directive)
					i = directive.end
					continue
				}
			}
			i = j
		default:
			i++
		}
	}
	return directives
}

// parseImportDirective parses the remainder of a directive whose `import` keyword spans [start, pos).
func parseImportDirective(source string, start int, pos int) (importDirective, bool) {
	directive := importDirective{start: start}
	found := false
	for i := pos; i < len(source); {
		switch {
		case strings.HasPrefix(source[i:], "//"):
			i = skipLineComment(source, i)
		case strings.HasPrefix(source[i:], "/*"):
			i = skipBlockComment(source, i)
		case source[i] == '"' || source[i] == '\'':
			literal, next := skipString(source, i)
			if !found {
				directive.path = literal
				found = true
			}
			i = next
		case source[i] == ';':
			directive.end = i + 1
			return directive, found
		default:
			i++
		}
	}
	directive.end = len(source)
	return directive, found
}

// skipLineComment returns the offset of the newline ending the comment starting at i.
func skipLineComment(source string, i int) int {
	end := strings.IndexByte(source[i:], '\n')
	if end == -1 {
		return len(source)
	}
	return i + end
}

// skipBlockComment returns the offset just past the comment starting at i.
func skipBlockComment(source string, i int) int {
	end := strings.Index(source[i+2:], "*/")
	if end == -1 {
		return len(source)
	}
	return i + 2 + end + 2
}

// skipString returns the content of the string literal starting at i along with the offset just past it. Escaped
// characters are kept verbatim. An unterminated literal ends at the end of its line.
func skipString(source string, i int) (string, int) {
	quote := source[i]
	var sb strings.Builder
	for j := i + 1; j < len(source); j++ {
		switch source[j] {
		case '\\':
			if j+1 < len(source) {
				sb.WriteByte(source[j+1])
				j++
			}
		case quote:
			return sb.String(), j + 1
		case '\n':
			return sb.String(), j
		default:
			sb.WriteByte(source[j])
		}
	}
	return sb.String(), len(source)
}

func isIdentifierStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentifierPart(c byte) bool {
	return isIdentifierStart(c) || (c >= '0' && c <= '9')
}

// importResolver pulls every source unit transitively imported by the known units through a read callback.
type importResolver struct {
	// remappings describes the import remappings applied to every import path
	remappings []types.Remapping

	// reader describes the callback used to read source units that are not known yet
	reader types.ReadCallback

	// logger describes the logger used for resolution logs
	logger *logging.Logger
}

// newImportResolver creates an importResolver applying remappings and reading missing units with reader.
func newImportResolver(remappings []types.Remapping, reader types.ReadCallback, logger *logging.Logger) *importResolver {
	return &importResolver{
		remappings: remappings,
		reader:     reader,
		logger:     logger,
	}
}

// resolve adds every unit imported by sources, directly or not, to sources. An import that cannot be read is reported
// as a ParserError diagnostic located at its directive. Every missing unit is requested from the reader at most once.
func (r *importResolver) resolve(sources *types.SourceUnits) []types.CompilerDiagnostic {
	diagnostics := make([]types.CompilerDiagnostic, 0)
	attempted := make(map[string]bool)

	queue := sources.Paths()
	for len(queue) > 0 {
		unit := queue[0]
		queue = queue[1:]

		content, _ := sources.Get(unit)
		for _, directive := range scanImports(content) {
			resolved := types.ApplyRemappings(r.remappings, unit, types.AbsoluteImportPath(directive.path, unit))
			if sources.Has(resolved) || attempted[resolved] {
				continue
			}
			attempted[resolved] = true

			result := types.ReadFailure("File import callback not supported.")
			if r.reader != nil {
				result = r.reader(types.ReadCallbackKindSource, resolved)
			}
			if !result.Success {
				r.logger.Debug("Failed to read import ", resolved, " of ", unit, ": ", result.Content)
				diagnostics = append(diagnostics, types.CompilerDiagnostic{
					Type:     types.ErrorTypeParserError,
					Severity: types.SeverityError,
					Message:  fmt.Sprintf("Source \"%s\" not found: %s", resolved, result.Content),
					Location: &types.SourceLocation{SourceName: unit, Start: directive.start, End: directive.end},
				})
				continue
			}

			r.logger.Trace("Resolved import ", resolved, " of ", unit)
			sources.Set(resolved, result.Content)
			queue = append(queue, resolved)
		}
	}
	return diagnostics
}
