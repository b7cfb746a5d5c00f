package platforms

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/crytic/soldrive/compilation/types"
	"github.com/crytic/soldrive/logging"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContract creates a compiled contract named name in path.
func testContract(path string, name string, kind types.ContractKind) types.CompiledContract {
	return types.CompiledContract{
		Name:            name,
		SourcePath:      path,
		Kind:            kind,
		Abi:             json.RawMessage(testABI),
		InitBytecode:    []byte{0x60, 0x80, 0x60, 0x40, 0x52},
		RuntimeBytecode: []byte{0x60, 0x80, 0x60, 0x40, 0x52},
		SrcMapsRuntime:  testSourceMap,
	}
}

// TestSelectMainContract verifies automatic and explicit main contract selection.
func TestSelectMainContract(t *testing.T) {
	compilation := types.NewCompilation()
	compilation.Contracts = []types.CompiledContract{
		testContract("lib.sol", "Helper", types.ContractKindContract),
		testContract("a.sol", "L", types.ContractKindLibrary),
		testContract("a.sol", "A", types.ContractKindContract),
	}
	settings := types.Settings{MainInput: "a.sol"}

	// The only deployable contract of the main input is selected
	contract, diagnostic := selectMainContract(compilation, settings)
	assert.Nil(t, diagnostic)
	require.NotNil(t, contract)
	assert.Equal(t, "a.sol:A", contract.QualifiedName())

	// An override may name any contract, qualified or not
	settings.MainContract = "Helper"
	contract, _ = selectMainContract(compilation, settings)
	assert.Equal(t, "lib.sol:Helper", contract.QualifiedName())
	settings.MainContract = "a.sol:L"
	contract, _ = selectMainContract(compilation, settings)
	assert.Equal(t, "a.sol:L", contract.QualifiedName())

	settings.MainContract = "Missing"
	contract, diagnostic = selectMainContract(compilation, settings)
	assert.Nil(t, contract)
	require.NotNil(t, diagnostic)
	assert.Equal(t, types.ErrorTypeDeclarationError, diagnostic.Type)
	assert.True(t, diagnostic.IsError())

	// Several candidates require an explicit choice
	compilation.Contracts = append(compilation.Contracts, testContract("a.sol", "B", types.ContractKindContract))
	settings.MainContract = ""
	contract, diagnostic = selectMainContract(compilation, settings)
	assert.Nil(t, contract)
	require.NotNil(t, diagnostic)
	assert.True(t, diagnostic.IsWarning())
	assert.Contains(t, diagnostic.Message, "A, B")
}

// TestWriteArtifacts verifies each artifact is written when enabled.
func TestWriteArtifacts(t *testing.T) {
	directory := t.TempDir()
	compilation := types.NewCompilation()
	compilation.Contracts = []types.CompiledContract{testContract("src/a.sol", "A", types.ContractKindContract)}
	settings := types.Settings{
		MainInput:       "src/a.sol",
		OutputDirectory: directory,
		GenerateABI:     true,
		GenerateCode:    true,
		DebugInfo:       true,
	}

	produced, err := writeArtifacts(compilation, settings, logging.GlobalLogger)
	require.NoError(t, err)
	assert.True(t, produced)

	abiData, err := os.ReadFile(filepath.Join(directory, "a.abi.json"))
	require.NoError(t, err)
	assert.JSONEq(t, testABI, string(abiData))

	debugData, err := os.ReadFile(filepath.Join(directory, "a.debug.json"))
	require.NoError(t, err)
	var info debugInfo
	require.NoError(t, json.Unmarshal(debugData, &info))
	assert.Equal(t, "src/a.sol:A", info.Contract)
	require.Len(t, info.Instructions, 3)
	assert.Equal(t, "PUSH1", info.Instructions[0].Opcode)
	assert.Equal(t, "80", info.Instructions[0].Operand)
	assert.Equal(t, 4, info.Instructions[2].Offset)
	assert.Equal(t, "MSTORE", info.Instructions[2].Opcode)

	// A custom prefix, interface description only
	settings.FileNamePrefix = "out"
	settings.GenerateCode = false
	produced, err = writeArtifacts(compilation, settings, logging.GlobalLogger)
	require.NoError(t, err)
	assert.True(t, produced)
	assert.FileExists(t, filepath.Join(directory, "out.abi.json"))
	assert.NoFileExists(t, filepath.Join(directory, "out.code"))
	assert.NoFileExists(t, filepath.Join(directory, "out.debug.json"))
}

// TestWriteArtifactsInvalidABI verifies malformed interface descriptions are rejected.
func TestWriteArtifactsInvalidABI(t *testing.T) {
	compilation := types.NewCompilation()
	contract := testContract("a.sol", "A", types.ContractKindContract)
	compilation.Contracts = []types.CompiledContract{contract}
	directory := t.TempDir()
	settings := types.Settings{MainInput: "a.sol", OutputDirectory: directory, GenerateABI: true}

	for _, abi := range []string{
		`[{"type":"function","name":"f","inputs":[{"name":"x","type":"notatype"}]}]`,
		`{"type":"function","name":"f"}`,
	} {
		compilation.Contracts[0].Abi = json.RawMessage(abi)
		produced, err := writeArtifacts(compilation, settings, logging.GlobalLogger)
		var internalError *types.InternalCompilerError
		assert.True(t, errors.As(err, &internalError), abi)
		assert.False(t, produced)
		assert.NoFileExists(t, filepath.Join(directory, "a.abi.json"))
	}
}
