package types

import "strings"

// Remapping describes an import remapping of the form `[context:]prefix=target`. Imports issued from a source unit
// whose path starts with Context and whose import path starts with Prefix have Prefix replaced by Target.
type Remapping struct {
	// Context describes the source unit path prefix this remapping is restricted to. Empty means every unit.
	Context string `json:"context,omitempty"`

	// Prefix describes the import path prefix which is replaced. It is never empty.
	Prefix string `json:"prefix"`

	// Target describes the replacement for Prefix.
	Target string `json:"target"`
}

// ParseRemapping parses a remapping string of the form `[context:]prefix=target`. The context ends at the first `:`
// before the first `=`. Returns false if the string contains no `=` or the prefix would be empty.
func ParseRemapping(remapping string) (Remapping, bool) {
	eq := strings.IndexByte(remapping, '=')
	if eq == -1 {
		return Remapping{}, false
	}

	var r Remapping
	if colon := strings.IndexByte(remapping[:eq], ':'); colon == -1 {
		r.Prefix = remapping[:eq]
	} else {
		r.Context = remapping[:colon]
		r.Prefix = remapping[colon+1 : eq]
	}
	r.Target = remapping[eq+1:]

	if r.Prefix == "" {
		return Remapping{}, false
	}
	return r, true
}

// String returns the remapping in the `[context:]prefix=target` form accepted by ParseRemapping and by solc.
func (r Remapping) String() string {
	if r.Context == "" {
		return r.Prefix + "=" + r.Target
	}
	return r.Context + ":" + r.Prefix + "=" + r.Target
}

// ApplyRemappings rewrites importPath, imported from the unit at context, using the best matching remapping.
// The remapping with the longest matching context wins, then the one with the longest matching prefix. When two
// remappings match equally well, the later one wins. If nothing matches, importPath is returned unchanged.
func ApplyRemappings(remappings []Remapping, context string, importPath string) string {
	longestContext := 0
	longestPrefix := 0
	bestTarget := ""

	for _, remapping := range remappings {
		remappingContext := sanitizePath(remapping.Context)
		prefix := sanitizePath(remapping.Prefix)

		// Skip if a closer context already matched
		if len(remappingContext) < longestContext {
			continue
		}
		if !strings.HasPrefix(context, remappingContext) {
			continue
		}
		// Skip if a longer prefix already matched within the same context
		if len(prefix) < longestPrefix && len(remappingContext) == longestContext {
			continue
		}
		if !strings.HasPrefix(importPath, prefix) {
			continue
		}

		longestContext = len(remappingContext)
		longestPrefix = len(prefix)
		bestTarget = sanitizePath(remapping.Target)
	}

	return bestTarget + importPath[longestPrefix:]
}

// sanitizePath strips a single trailing slash.
func sanitizePath(path string) string {
	return strings.TrimSuffix(path, "/")
}

// AbsoluteImportPath resolves importPath as written in an import directive of the unit named reference. Paths whose
// first segment is `.` or `..` are resolved against the directory of reference; every other path is already absolute
// in the import namespace and is returned unchanged.
func AbsoluteImportPath(importPath string, reference string) string {
	segments := strings.Split(importPath, "/")
	if segments[0] != "." && segments[0] != ".." {
		return importPath
	}

	// Drop the file name of the referencing unit
	result := parentPath(reference)
	for _, segment := range segments {
		switch segment {
		case "..":
			result = parentPath(result)
		case ".", "":
			continue
		default:
			result = joinPath(result, segment)
		}
	}
	return result
}

// parentPath returns path with its last component removed.
func parentPath(path string) string {
	i := strings.LastIndexByte(path, '/')
	switch i {
	case -1:
		return ""
	case 0:
		return "/"
	default:
		return path[:i]
	}
}

// joinPath appends a single component to path.
func joinPath(path string, component string) string {
	if path == "" {
		return component
	}
	if strings.HasSuffix(path, "/") {
		return path + component
	}
	return path + "/" + component
}
