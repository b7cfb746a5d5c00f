package types

import "encoding/json"

// CompiledSource represents a source descriptor for a smart contract compilation, including its syntax tree.
type CompiledSource struct {
	// Path describes the logical path of the source unit.
	Path string

	// ID describes the index the compiler assigned to the unit. Source locations and source maps refer to it.
	ID int

	// Ast describes the abstract syntax tree artifact of a source file compilation in the compact format, exactly as
	// the compiler emitted it.
	Ast json.RawMessage
}
