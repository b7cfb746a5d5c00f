package types

import (
	"encoding/json"
	"regexp"
	"strconv"
)

// ContractKind represents the kind of contract definition represented by an AST node
type ContractKind string

const (
	// ContractKindContract represents a contract node
	ContractKindContract ContractKind = "contract"
	// ContractKindLibrary represents a library node
	ContractKindLibrary ContractKind = "library"
	// ContractKindInterface represents an interface node
	ContractKindInterface ContractKind = "interface"
)

// srcPattern matches the `start:length:sourceUnitID` form of the `src` attribute of every AST node.
var srcPattern = regexp.MustCompile(`^(-?[0-9]+):(-?[0-9]+):(-?[0-9]+)$`)

// SourceRange describes the decoded `src` attribute of an AST node.
type SourceRange struct {
	// Start describes the byte offset where the node starts
	Start int
	// Length describes the byte length of the node
	Length int
	// SourceUnitID describes the index of the source unit containing the node
	SourceUnitID int
}

// ParseSourceRange decodes a `start:length:sourceUnitID` string. Returns false if it is malformed.
func ParseSourceRange(src string) (SourceRange, bool) {
	candidates := srcPattern.FindStringSubmatch(src)
	// FindStringSubmatch includes the whole match as the first element
	if len(candidates) != 4 {
		return SourceRange{}, false
	}

	var values [3]int
	for i := range values {
		value, err := strconv.Atoi(candidates[i+1])
		if err != nil {
			return SourceRange{}, false
		}
		values[i] = value
	}
	return SourceRange{Start: values[0], Length: values[1], SourceUnitID: values[2]}, true
}

// Node interface represents a generic AST node
type Node interface {
	GetNodeType() string
}

// ContractDefinition is the contract definition node
type ContractDefinition struct {
	// NodeType represents the node type (currently we only evaluate source unit node types)
	NodeType string `json:"nodeType"`
	// Src is the source range of the definition
	Src string `json:"src"`
	// Name is the declared name of the contract
	Name string `json:"name"`
	// Kind is a ContractKind that represents what type of contract definition this is (contract, interface, or library)
	Kind ContractKind `json:"contractKind,omitempty"`
	// Abstract describes whether the contract is declared abstract
	Abstract bool `json:"abstract,omitempty"`
	// FullyImplemented describes whether every function has a body. Compilers prior to 0.6 report abstractness this way.
	FullyImplemented *bool `json:"fullyImplemented,omitempty"`
}

// GetNodeType implements the Node interface and returns the node type for the contract definition
func (s ContractDefinition) GetNodeType() string {
	return s.NodeType
}

// IsAbstract returns whether the contract cannot be deployed on its own.
func (s ContractDefinition) IsAbstract() bool {
	return s.Abstract || (s.FullyImplemented != nil && !*s.FullyImplemented)
}

// AST is the abstract syntax tree
type AST struct {
	// NodeType represents the node type (currently we only evaluate source unit node types)
	NodeType string `json:"nodeType"`
	// Nodes is a list of Nodes within the AST
	Nodes []Node `json:"nodes"`
	// Src is the source range of the AST
	Src string `json:"src"`
	// AbsolutePath is the logical path of the source unit
	AbsolutePath string `json:"absolutePath"`
}

// UnmarshalJSON unmarshals from JSON
func (a *AST) UnmarshalJSON(data []byte) error {
	// Unmarshal the top-level AST into our own representation. Defer the unmarshaling of all the individual nodes until later
	type Alias AST
	aux := &struct {
		Nodes []json.RawMessage `json:"nodes"`
		*Alias
	}{
		Alias: (*Alias)(a),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	// Iterate through all the nodes of the source unit
	a.Nodes = make([]Node, 0, len(aux.Nodes))
	for _, nodeData := range aux.Nodes {
		// Unmarshal the node data to retrieve the node type
		var nodeType struct {
			NodeType string `json:"nodeType"`
		}
		if err := json.Unmarshal(nodeData, &nodeType); err != nil {
			return err
		}

		// Unmarshal the contents of the node based on the node type
		switch nodeType.NodeType {
		case "ContractDefinition":
			var contractDefinition ContractDefinition
			if err := json.Unmarshal(nodeData, &contractDefinition); err != nil {
				return err
			}
			a.Nodes = append(a.Nodes, contractDefinition)
		default:
			continue
		}
	}

	return nil
}

// ContractDefinitions returns the contract definitions of the unit in declaration order.
func (a *AST) ContractDefinitions() []ContractDefinition {
	definitions := make([]ContractDefinition, 0)
	for _, node := range a.Nodes {
		if definition, ok := node.(ContractDefinition); ok {
			definitions = append(definitions, definition)
		}
	}
	return definitions
}

// GetSourceUnitID returns the source unit ID based on the source of the AST
func (a *AST) GetSourceUnitID() int {
	if sourceRange, ok := ParseSourceRange(a.Src); ok {
		return sourceRange.SourceUnitID
	}
	return -1
}
