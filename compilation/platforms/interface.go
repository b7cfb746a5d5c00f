package platforms

import "github.com/crytic/soldrive/compilation/types"

// Engine describes the interface all compilation engines must implement.
type Engine interface {
	// Compile runs the full pipeline over settings. Diagnostics about the compiled code are reported in the returned
	// Compilation. Failures of the engine itself are returned as errors of the types declared in compilation/types.
	Compile(settings types.Settings) (*types.Compilation, error)

	// Platform returns the name of the engine.
	Platform() string
}

// OutputCache describes a store of raw compiler outputs, keyed by the compiler version and the input document.
type OutputCache interface {
	// Lookup returns the output stored for the given compiler version and input, if any.
	Lookup(compilerVersion string, input []byte) ([]byte, bool)

	// Store records output for the given compiler version and input.
	Store(compilerVersion string, input []byte, output []byte)
}
