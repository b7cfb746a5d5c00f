package platforms

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/crytic/soldrive/compilation/types"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// structCopy describes a memory struct local initialised from a state variable.
type structCopy struct {
	// id describes the node id of the local declaration
	id float64
	// name describes the name of the local
	name string
	// stateID describes the node id of the state variable it was copied from
	stateID float64
	// stateName describes the name of the state variable it was copied from
	stateName string
	// location describes where the local is declared
	location *types.SourceLocation
}

// analyzeStructUsage warns about memory copies of storage structs whose members are assigned but which are never
// written back, a common mistake when the intent was to modify storage:
//
//	S memory s = stored;
//	s.value = 1; // does not modify stored
func analyzeStructUsage(sources []types.CompiledSource) ([]types.CompilerDiagnostic, error) {
	// Decode every tree and map source unit ids back to their paths
	trees := make([]any, 0, len(sources))
	paths := make(map[int]string, len(sources))
	for _, source := range sources {
		var tree any
		if err := json.Unmarshal(source.Ast, &tree); err != nil {
			return nil, errors.WithStack(&types.InternalCompilerError{
				Message: fmt.Sprintf("could not parse the syntax tree of %s: %v", source.Path, err),
			})
		}
		trees = append(trees, tree)
		paths[source.ID] = source.Path
	}

	// State variables can be referenced across units through inheritance
	stateVariables := make(map[float64]string)
	for _, tree := range trees {
		walkAstNodes(tree, func(node map[string]any) {
			if node["nodeType"] == "VariableDeclaration" && node["stateVariable"] == true {
				id, _ := node["id"].(float64)
				name, _ := node["name"].(string)
				stateVariables[id] = name
			}
		})
	}

	diagnostics := make([]types.CompilerDiagnostic, 0)
	for _, tree := range trees {
		walkAstNodes(tree, func(node map[string]any) {
			if node["nodeType"] != "FunctionDefinition" && node["nodeType"] != "ModifierDefinition" {
				return
			}
			for _, copied := range unsyncedStructCopies(node, stateVariables, paths) {
				diagnostics = append(diagnostics, types.CompilerDiagnostic{
					Type:     types.ErrorTypeWarning,
					Severity: types.SeverityWarning,
					Message: fmt.Sprintf("\"%s\" is a memory copy of storage variable \"%s\". Assignments to its members do not modify storage.",
						copied.name, copied.stateName),
					Location: copied.location,
				})
			}
		})
	}

	// Map iteration makes the walk order arbitrary
	slices.SortStableFunc(diagnostics, func(a, b types.CompilerDiagnostic) int {
		if a.Location.SourceName != b.Location.SourceName {
			return strings.Compare(a.Location.SourceName, b.Location.SourceName)
		}
		return a.Location.Start - b.Location.Start
	})
	return diagnostics, nil
}

// unsyncedStructCopies returns the struct copies declared in function that are modified through a member access and
// never assigned back to the state variable they were copied from.
func unsyncedStructCopies(function map[string]any, stateVariables map[float64]string, paths map[int]string) []structCopy {
	copies := make(map[float64]structCopy)
	walkAstNodes(function, func(node map[string]any) {
		if node["nodeType"] != "VariableDeclarationStatement" {
			return
		}
		declarations, _ := node["declarations"].([]any)
		if len(declarations) != 1 {
			return
		}
		declaration, ok := declarations[0].(map[string]any)
		if !ok || declaration["storageLocation"] != "memory" || !strings.HasPrefix(typeString(declaration), "struct ") {
			return
		}
		stateID, ok := referencedDeclaration(node["initialValue"])
		if !ok {
			return
		}
		stateName, ok := stateVariables[stateID]
		if !ok {
			return
		}

		id, _ := declaration["id"].(float64)
		name, _ := declaration["name"].(string)
		copies[id] = structCopy{
			id:        id,
			name:      name,
			stateID:   stateID,
			stateName: stateName,
			location:  nodeLocation(declaration, paths),
		}
	})
	if len(copies) == 0 {
		return nil
	}

	modified := make(map[float64]bool)
	writtenBack := make(map[float64]bool)
	walkAstNodes(function, func(node map[string]any) {
		if node["nodeType"] != "Assignment" {
			return
		}
		if id, ok := memberAccessBase(node["leftHandSide"]); ok {
			if _, isCopy := copies[id]; isCopy {
				modified[id] = true
			}
		}
		target, targetOk := referencedDeclaration(node["leftHandSide"])
		value, valueOk := referencedDeclaration(node["rightHandSide"])
		if copied, isCopy := copies[value]; targetOk && valueOk && isCopy && copied.stateID == target {
			writtenBack[value] = true
		}
	})

	unsynced := make([]structCopy, 0)
	for id, copied := range copies {
		if modified[id] && !writtenBack[id] && copied.location != nil {
			unsynced = append(unsynced, copied)
		}
	}
	return unsynced
}

// referencedDeclaration returns the declaration id referenced by an Identifier node.
func referencedDeclaration(node any) (float64, bool) {
	identifier, ok := node.(map[string]any)
	if !ok || identifier["nodeType"] != "Identifier" {
		return 0, false
	}
	id, ok := identifier["referencedDeclaration"].(float64)
	return id, ok
}

// memberAccessBase returns the declaration referenced at the base of an expression of the form `x.a`, `x.a.b` or
// `x.a[i]`.
func memberAccessBase(node any) (float64, bool) {
	sawMemberAccess := false
	for {
		expression, ok := node.(map[string]any)
		if !ok {
			return 0, false
		}
		switch expression["nodeType"] {
		case "MemberAccess":
			sawMemberAccess = true
			node = expression["expression"]
		case "IndexAccess":
			node = expression["baseExpression"]
		case "Identifier":
			if !sawMemberAccess {
				return 0, false
			}
			return referencedDeclaration(expression)
		default:
			return 0, false
		}
	}
}

// typeString returns the type description of a declaration node.
func typeString(node map[string]any) string {
	descriptions, _ := node["typeDescriptions"].(map[string]any)
	typeStr, _ := descriptions["typeString"].(string)
	return typeStr
}

// nodeLocation returns the location described by the `src` member of node.
func nodeLocation(node map[string]any, paths map[int]string) *types.SourceLocation {
	src, _ := node["src"].(string)
	sourceRange, ok := types.ParseSourceRange(src)
	if !ok {
		return nil
	}
	path, ok := paths[sourceRange.SourceUnitID]
	if !ok {
		return nil
	}
	return &types.SourceLocation{
		SourceName: path,
		Start:      sourceRange.Start,
		End:        sourceRange.Start + sourceRange.Length,
	}
}

// walkAstNodes walks/iterates across an AST for each node, calling the provided walk function with each discovered node
// as an argument.
func walkAstNodes(ast any, walkFunc func(node map[string]any)) {
	// Try to parse our node as different types and walk all children.
	if d, ok := ast.(map[string]any); ok {
		// If this dictionary contains keys 'id' and 'nodeType', we can assume it's an AST node
		_, hasId := d["id"]
		_, hasNodeType := d["nodeType"]
		if hasId && hasNodeType {
			walkFunc(d)
		}

		// Walk all keys of the dictionary.
		for _, v := range d {
			walkAstNodes(v, walkFunc)
		}
	} else if slice, ok := ast.([]any); ok {
		// Walk all elements of a slice.
		for _, elem := range slice {
			walkAstNodes(elem, walkFunc)
		}
	}
}
