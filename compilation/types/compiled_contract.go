package types

import (
	"encoding/json"
	"strings"
)

// CompiledContract represents a single contract unit from a smart contract compilation.
type CompiledContract struct {
	// Name describes the contract name as declared.
	Name string

	// SourcePath describes the logical path of the source unit declaring the contract.
	SourcePath string

	// Kind describes the kind of contract, i.e. contract, library, interface.
	Kind ContractKind

	// Abstract describes whether the contract is declared abstract.
	Abstract bool

	// Abi describes a contract's application binary interface as emitted by the compiler.
	Abi json.RawMessage

	// InitBytecode describes the bytecode used to deploy a contract.
	InitBytecode []byte

	// RuntimeBytecode represents the rudimentary bytecode to be expected once the contract has been successfully
	// deployed.
	RuntimeBytecode []byte

	// SrcMapsInit describes the source mappings to associate source file and bytecode segments in InitBytecode.
	SrcMapsInit string

	// SrcMapsRuntime describes the source mappings to associate source file and bytecode segments in RuntimeBytecode.
	SrcMapsRuntime string

	// DevDoc describes the developer-facing NatSpec documentation.
	DevDoc json.RawMessage

	// UserDoc describes the user-facing NatSpec documentation.
	UserDoc json.RawMessage
}

// QualifiedName returns the contract name qualified by its source unit, as `<path>:<name>`.
func (c *CompiledContract) QualifiedName() string {
	return c.SourcePath + ":" + c.Name
}

// IsDeployable returns whether the contract is a non-abstract `contract`, the only kind artifacts are produced for.
func (c *CompiledContract) IsDeployable() bool {
	return c.Kind == ContractKindContract && !c.Abstract
}

// SplitQualifiedName splits a `<path>:<name>` contract name into its parts. A name without a path yields an empty path.
func SplitQualifiedName(qualifiedName string) (string, string) {
	i := strings.LastIndexByte(qualifiedName, ':')
	if i == -1 {
		return "", qualifiedName
	}
	return qualifiedName[:i], qualifiedName[i+1:]
}
