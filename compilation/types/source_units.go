package types

import "golang.org/x/exp/slices"

// SourceUnits describes an insertion-ordered mapping of logical source paths to their full text content. Setting a
// path that already exists replaces its content and keeps its original position.
type SourceUnits struct {
	// paths describes the insertion order of the keys of contents
	paths []string

	// contents maps each logical path to its content
	contents map[string]string
}

// NewSourceUnits returns an empty SourceUnits.
func NewSourceUnits() *SourceUnits {
	return &SourceUnits{
		paths:    make([]string, 0),
		contents: make(map[string]string),
	}
}

// Set records content under path.
func (s *SourceUnits) Set(path string, content string) {
	if _, exists := s.contents[path]; !exists {
		s.paths = append(s.paths, path)
	}
	s.contents[path] = content
}

// Get returns the content stored under path, and whether it exists.
func (s *SourceUnits) Get(path string) (string, bool) {
	content, ok := s.contents[path]
	return content, ok
}

// Has returns whether path is known.
func (s *SourceUnits) Has(path string) bool {
	_, ok := s.contents[path]
	return ok
}

// Paths returns every known path in insertion order. The returned slice is a copy.
func (s *SourceUnits) Paths() []string {
	return slices.Clone(s.paths)
}

// Len returns the number of known paths.
func (s *SourceUnits) Len() int {
	return len(s.paths)
}

// Clone returns an independent copy of the mapping, used to hand a read-only snapshot to a compilation engine.
func (s *SourceUnits) Clone() *SourceUnits {
	clone := NewSourceUnits()
	for _, path := range s.paths {
		clone.Set(path, s.contents[path])
	}
	return clone
}
