package platforms

import (
	"encoding/json"
	"testing"

	"github.com/crytic/soldrive/compilation/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// node creates an AST node with the given id, type and members.
func node(id int, nodeType string, src string, members map[string]any) map[string]any {
	members["id"] = id
	members["nodeType"] = nodeType
	members["src"] = src
	return members
}

// identifier creates an Identifier node referencing declaration.
func identifier(id int, declaration int) map[string]any {
	return node(id, "Identifier", "0:1:0", map[string]any{"referencedDeclaration": declaration})
}

// structCopyFunction creates a function copying state variable 2 into a memory local, assigning one of its members
// and optionally writing the local back.
func structCopyFunction(id int, localSrc string, writeBack bool) map[string]any {
	local := id + 1
	statements := []any{
		node(id+2, "VariableDeclarationStatement", localSrc, map[string]any{
			"declarations": []any{
				node(local, "VariableDeclaration", localSrc, map[string]any{
					"name":             "copy",
					"storageLocation":  "memory",
					"typeDescriptions": map[string]any{"typeString": "struct C.S memory"},
				}),
			},
			"initialValue": identifier(id+3, 2),
		}),
		node(id+4, "ExpressionStatement", "0:1:0", map[string]any{
			"expression": node(id+5, "Assignment", "0:1:0", map[string]any{
				"leftHandSide":  node(id+6, "MemberAccess", "0:1:0", map[string]any{"expression": identifier(id+7, local), "memberName": "value"}),
				"rightHandSide": node(id+8, "Literal", "0:1:0", map[string]any{"value": "1"}),
			}),
		}),
	}
	if writeBack {
		statements = append(statements, node(id+9, "ExpressionStatement", "0:1:0", map[string]any{
			"expression": node(id+10, "Assignment", "0:1:0", map[string]any{
				"leftHandSide":  identifier(id+11, 2),
				"rightHandSide": identifier(id+12, local),
			}),
		}))
	}
	return node(id, "FunctionDefinition", "0:1:0", map[string]any{
		"body": node(id+20, "Block", "0:1:0", map[string]any{"statements": statements}),
	})
}

// TestAnalyzeStructUsage verifies only copies that are modified and never written back are reported.
func TestAnalyzeStructUsage(t *testing.T) {
	ast := node(100, "SourceUnit", "0:300:0", map[string]any{
		"nodes": []any{
			node(1, "ContractDefinition", "0:300:0", map[string]any{
				"nodes": []any{
					node(2, "VariableDeclaration", "10:8:0", map[string]any{"name": "stored", "stateVariable": true}),
					structCopyFunction(200, "150:20:0", false),
					structCopyFunction(300, "50:20:0", false),
					structCopyFunction(400, "250:20:0", true),
				},
			}),
		},
	})
	data, err := json.Marshal(ast)
	require.NoError(t, err)

	warnings, err := analyzeStructUsage([]types.CompiledSource{{Path: "c.sol", ID: 0, Ast: data}})
	require.NoError(t, err)
	require.Len(t, warnings, 2)

	// Warnings are ordered by position
	assert.Equal(t, &types.SourceLocation{SourceName: "c.sol", Start: 50, End: 70}, warnings[0].Location)
	assert.Equal(t, &types.SourceLocation{SourceName: "c.sol", Start: 150, End: 170}, warnings[1].Location)
	assert.True(t, warnings[0].IsWarning())
	assert.Contains(t, warnings[0].Message, "\"copy\" is a memory copy of storage variable \"stored\"")
}

// TestAnalyzeStructUsageInvalidTree verifies malformed trees are reported as internal failures.
func TestAnalyzeStructUsageInvalidTree(t *testing.T) {
	_, err := analyzeStructUsage([]types.CompiledSource{{Path: "c.sol", Ast: json.RawMessage("{")}})
	assert.Error(t, err)
}
