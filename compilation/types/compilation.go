package types

import "encoding/json"

// Compilation represents the outcome of a single compilation run, along with the artifacts the driver reads back.
type Compilation struct {
	// Success describes whether the run completed without any error-severity diagnostic.
	Success bool

	// ProducedArtifacts describes whether at least one artifact file was written.
	ProducedArtifacts bool

	// ParsingSuccessful describes whether every source unit was parsed, so that syntax trees are available even if a
	// later stage failed.
	ParsingSuccessful bool

	// Sources describes the CompiledSource objects provided in a compilation, in source unit order.
	Sources []CompiledSource

	// Contracts describes every contract of every source, in source unit order then declaration order.
	Contracts []CompiledContract

	// Diagnostics describes every diagnostic the engine reported, in the order it reported them.
	Diagnostics []CompilerDiagnostic
}

// NewCompilation returns a new, empty Compilation object.
func NewCompilation() *Compilation {
	return &Compilation{
		Sources:     make([]CompiledSource, 0),
		Contracts:   make([]CompiledContract, 0),
		Diagnostics: make([]CompilerDiagnostic, 0),
	}
}

// Source returns the CompiledSource for path.
func (c *Compilation) Source(path string) (*CompiledSource, bool) {
	for i := range c.Sources {
		if c.Sources[i].Path == path {
			return &c.Sources[i], true
		}
	}
	return nil, false
}

// AST returns the compact syntax tree of the unit at path, if the engine produced one.
func (c *Compilation) AST(path string) (json.RawMessage, bool) {
	source, ok := c.Source(path)
	if !ok || len(source.Ast) == 0 {
		return nil, false
	}
	return source.Ast, true
}

// ContractNames returns the fully qualified name of every contract, in the order they were reported.
func (c *Compilation) ContractNames() []string {
	names := make([]string, 0, len(c.Contracts))
	for _, contract := range c.Contracts {
		names = append(names, contract.QualifiedName())
	}
	return names
}

// Contract returns the contract with the given fully qualified name.
func (c *Compilation) Contract(qualifiedName string) (*CompiledContract, bool) {
	for i := range c.Contracts {
		if c.Contracts[i].QualifiedName() == qualifiedName {
			return &c.Contracts[i], true
		}
	}
	return nil, false
}

// HasErrors returns whether any error-severity diagnostic was reported.
func (c *Compilation) HasErrors() bool {
	for _, diagnostic := range c.Diagnostics {
		if diagnostic.IsError() {
			return true
		}
	}
	return false
}
