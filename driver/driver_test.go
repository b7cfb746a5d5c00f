package driver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/crytic/soldrive/compilation/platforms"
	"github.com/crytic/soldrive/compilation/types"
	"github.com/crytic/soldrive/output"
	"github.com/crytic/soldrive/utils/testutils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compileFunc scripts the behavior of a fakeEngine.
type compileFunc func(settings types.Settings, reader types.ReadCallback) (*types.Compilation, error)

// fakeEngine is a platforms.Engine whose compilation is scripted by a test.
type fakeEngine struct {
	compile  compileFunc
	reader   types.ReadCallback
	settings *types.Settings
}

func (e *fakeEngine) Platform() string {
	return "fake"
}

func (e *fakeEngine) Compile(settings types.Settings) (*types.Compilation, error) {
	e.settings = &settings
	return e.compile(settings, e.reader)
}

// harness runs a Driver against a fakeEngine and captures both channels.
type harness struct {
	engine       *fakeEngine
	factoryCalls int
	content      bytes.Buffer
	diagnostic   bytes.Buffer
}

func newHarness(compile compileFunc) *harness {
	return &harness{engine: &fakeEngine{compile: compile}}
}

func (h *harness) newEngine(reader types.ReadCallback) (platforms.Engine, error) {
	h.factoryCalls++
	h.engine.reader = reader
	return h.engine, nil
}

// run runs the driver with options inside a directory holding files.
func (h *harness) run(t *testing.T, files map[string]string, options Options, stdin string) bool {
	var success bool
	testutils.ExecuteInDirectory(t, testutils.WriteTestFiles(t, files), func() {
		streams := output.NewStreams(&h.content, &h.diagnostic, false)
		success = NewDriver(options, streams, strings.NewReader(stdin), h.newEngine).Run()
	})
	return success
}

// compactAST returns a minimal compact syntax tree.
func compactAST(id int) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"nodeType":"SourceUnit","id":%d,"src":"0:13:%d","nodes":[]}`, id, id))
}

// prettyAST returns compactAST as the driver prints it.
func prettyAST(id int) string {
	return fmt.Sprintf("{\n  \"nodeType\": \"SourceUnit\",\n  \"id\": %d,\n  \"src\": \"0:13:%d\",\n  \"nodes\": []\n}", id, id)
}

// succeed returns a successful compilation with a syntax tree for every unit of settings.
func succeed(settings types.Settings) *types.Compilation {
	compilation := types.NewCompilation()
	compilation.Success = true
	compilation.ParsingSuccessful = true
	for i, path := range settings.Sources.Paths() {
		compilation.Sources = append(compilation.Sources, types.CompiledSource{Path: path, ID: i, Ast: compactAST(i)})
	}
	return compilation
}

var singleFile = map[string]string{"a.sol": "contract A {}"}

// TestRunNoOutputRequested verifies that a plain run enables both artifacts and reports the advisory.
func TestRunNoOutputRequested(t *testing.T) {
	h := newHarness(func(settings types.Settings, _ types.ReadCallback) (*types.Compilation, error) {
		return succeed(settings), nil
	})
	require.True(t, h.run(t, singleFile, Options{Inputs: []string{"a.sol"}}, ""))

	settings := h.engine.settings
	require.NotNil(t, settings)
	assert.True(t, settings.GenerateABI)
	assert.True(t, settings.GenerateCode)
	assert.True(t, settings.Optimize)
	assert.Equal(t, "a.sol", settings.MainInput)
	assert.Nil(t, settings.Remappings)
	assert.Len(t, settings.AllowedDirectories, 1)

	assert.Empty(t, h.content.String())
	assert.Equal(t, "Compiler run successful, no output requested.\n", h.diagnostic.String())
}

// TestRunSelectsRequestedArtifact verifies an explicitly requested artifact kind disables the other.
func TestRunSelectsRequestedArtifact(t *testing.T) {
	h := newHarness(func(settings types.Settings, _ types.ReadCallback) (*types.Compilation, error) {
		return succeed(settings), nil
	})
	require.True(t, h.run(t, singleFile, Options{Inputs: []string{"a.sol"}, ABI: true, DebugInfo: true, MainContract: "A"}, ""))
	assert.True(t, h.engine.settings.GenerateABI)
	assert.False(t, h.engine.settings.GenerateCode)
	assert.True(t, h.engine.settings.DebugInfo)
	assert.Equal(t, "A", h.engine.settings.MainContract)
}

// TestRunCompactAST verifies the layout of compact syntax tree output.
func TestRunCompactAST(t *testing.T) {
	h := newHarness(func(settings types.Settings, _ types.ReadCallback) (*types.Compilation, error) {
		return succeed(settings), nil
	})
	require.True(t, h.run(t, singleFile, Options{Inputs: []string{"a.sol"}, ASTCompactJSON: true}, ""))

	expected := "JSON AST (compact format):\n\n" +
		"\n======= a.sol =======\n" +
		prettyAST(0) + "\n"
	assert.Equal(t, expected, h.content.String())
	assert.Empty(t, h.diagnostic.String())
}

// TestRunLegacyAST verifies the legacy format is converted from the compact tree.
func TestRunLegacyAST(t *testing.T) {
	h := newHarness(func(settings types.Settings, _ types.ReadCallback) (*types.Compilation, error) {
		return succeed(settings), nil
	})
	require.True(t, h.run(t, singleFile, Options{Inputs: []string{"a.sol"}, ASTJSON: true}, ""))

	assert.True(t, strings.HasPrefix(h.content.String(), "JSON AST:\n\n\n======= a.sol =======\n"))
	assert.Contains(t, h.content.String(), "\"name\": \"SourceUnit\"")
	assert.NotContains(t, h.content.String(), "nodeType")
}

// TestRunImportedUnits verifies that units read on behalf of the engine are part of the syntax tree output.
func TestRunImportedUnits(t *testing.T) {
	files := map[string]string{"a.sol": "import \"lib/b.sol\";", "lib/b.sol": "contract B {}"}
	h := newHarness(func(settings types.Settings, reader types.ReadCallback) (*types.Compilation, error) {
		result := reader(types.ReadCallbackKindSource, "lib/b.sol")
		if !result.Success {
			return nil, errors.New(result.Content)
		}
		compilation := succeed(settings)
		compilation.Sources = append(compilation.Sources, types.CompiledSource{Path: "lib/b.sol", ID: 1, Ast: compactAST(1)})
		return compilation, nil
	})
	require.True(t, h.run(t, files, Options{Inputs: []string{"a.sol"}, ASTCompactJSON: true}, ""))

	expected := "JSON AST (compact format):\n\n" +
		"\n======= a.sol =======\n" + prettyAST(0) + "\n" +
		"\n======= lib/b.sol =======\n" + prettyAST(1) + "\n"
	assert.Equal(t, expected, h.content.String())

	// The engine only ever sees a snapshot of the loaded inputs
	assert.False(t, h.engine.settings.Sources.Has("lib/b.sol"))
}

// TestRunMissingFile verifies a missing input is reported before the engine is created.
func TestRunMissingFile(t *testing.T) {
	h := newHarness(nil)
	assert.False(t, h.run(t, singleFile, Options{Inputs: []string{"a.sol", "missing.sol"}}, ""))
	assert.Equal(t, "missing.sol is not found.\n", h.diagnostic.String())
	assert.Equal(t, 0, h.factoryCalls)
}

// TestRunNotAFile verifies a directory input is reported before the engine is created.
func TestRunNotAFile(t *testing.T) {
	h := newHarness(nil)
	files := map[string]string{"dir/a.sol": "contract A {}"}
	assert.False(t, h.run(t, files, Options{Inputs: []string{"dir"}}, ""))
	assert.Equal(t, "dir is not a valid file.\n", h.diagnostic.String())
	assert.Equal(t, 0, h.factoryCalls)
}

// TestRunMutuallyExclusiveOptions verifies conflicting options are rejected before any input is touched.
func TestRunMutuallyExclusiveOptions(t *testing.T) {
	h := newHarness(nil)
	assert.False(t, h.run(t, singleFile, Options{Inputs: []string{"missing.sol"}, ABI: true, Code: true}, ""))
	assert.Equal(t, "Options --abi and --code are mutually exclusive.\n", h.diagnostic.String())
	assert.Equal(t, 0, h.factoryCalls)

	h = newHarness(nil)
	assert.False(t, h.run(t, singleFile, Options{Inputs: []string{"a.sol"}, ASTJSON: true, ASTCompactJSON: true}, ""))
	assert.Equal(t, "Options --ast-json and --ast-compact-json are mutually exclusive.\n", h.diagnostic.String())
	assert.Equal(t, 0, h.factoryCalls)
}

// TestRunNoInputs verifies the run ends when no source was loaded.
func TestRunNoInputs(t *testing.T) {
	for _, inputs := range [][]string{nil, {"lib=./vendor"}} {
		h := newHarness(nil)
		assert.False(t, h.run(t, singleFile, Options{Inputs: inputs}, ""))
		assert.Equal(t, "No input files given. If you wish to use the standard input please specify \"-\" explicitly.\n", h.diagnostic.String())
		assert.Equal(t, 0, h.factoryCalls)
	}
}

// TestRunRemappings verifies remapping tokens configure remappings and are not loaded as files.
func TestRunRemappings(t *testing.T) {
	h := newHarness(func(settings types.Settings, _ types.ReadCallback) (*types.Compilation, error) {
		return succeed(settings), nil
	})
	require.True(t, h.run(t, singleFile, Options{Inputs: []string{"ctxA:lib=./vendor", "a.sol"}}, ""))

	settings := h.engine.settings
	assert.Equal(t, []types.Remapping{{Context: "ctxA", Prefix: "lib", Target: "./vendor"}}, settings.Remappings)
	assert.Equal(t, []string{"a.sol"}, settings.Sources.Paths())
	assert.Equal(t, "a.sol", settings.MainInput)

	h = newHarness(nil)
	assert.False(t, h.run(t, singleFile, Options{Inputs: []string{"=./vendor", "a.sol"}}, ""))
	assert.Equal(t, "Invalid remapping: \"=./vendor\".\n", h.diagnostic.String())
	assert.Equal(t, 0, h.factoryCalls)
}

// TestRunStdin verifies `-` reads standard input.
func TestRunStdin(t *testing.T) {
	h := newHarness(func(settings types.Settings, _ types.ReadCallback) (*types.Compilation, error) {
		return succeed(settings), nil
	})
	require.True(t, h.run(t, singleFile, Options{Inputs: []string{"-"}}, "contract S {}"))

	content, ok := h.engine.settings.Sources.Get(StdinSourceName)
	require.True(t, ok)
	assert.Equal(t, "contract S {}", content)
	assert.Equal(t, StdinSourceName, h.engine.settings.MainInput)
}

// TestRunFaults verifies every fault category is rendered with its label and makes the run fail without panicking.
func TestRunFaults(t *testing.T) {
	location := &types.SourceLocation{SourceName: "a.sol", Start: 0, End: 8}
	testCases := []struct {
		name     string
		raise    func() error
		expected string
	}{
		{"compiler", func() error { return &types.CompilerError{Message: "Stack too deep.", Location: location} }, "Compiler error: Stack too deep.\n --> a.sol:1:1:\n"},
		{"internal", func() error { return errors.WithStack(&types.InternalCompilerError{Message: "Invariant."}) }, "Internal compiler error during compilation:\nInvariant."},
		{"unimplemented", func() error { return &types.UnimplementedFeatureError{Message: "Not yet."} }, "Unimplemented feature:\nNot yet.\n"},
		{"docstring", func() error {
			return &types.Error{Type: types.ErrorTypeDocstringParsingError, Message: "Bad tag.", Location: location}
		}, "Documentation parsing error: Bad tag.\n"},
		{"structured", func() error {
			return &types.Error{Type: types.ErrorTypeTypeError, Message: "Bad type.", Location: location}
		}, "TypeError: Bad type.\n --> a.sol:1:1:\n"},
		{"unstructured", func() error { return &types.Exception{Message: "Bad state."} }, "Exception during compilation: Bad state.\n"},
		{"unknown", func() error { return fmt.Errorf("odd") }, "Unknown exception during compilation: odd\n"},
		{"panic with message", func() error { panic("boom") }, "Unknown exception during compilation: boom\n"},
		{"panic without message", func() error { panic(42) }, "Unknown exception during compilation.\n"},
		{"panic with error", func() error { panic(&types.InternalCompilerError{Message: "Invariant."}) }, "Internal compiler error during compilation:\nInvariant."},
	}

	for _, tc := range testCases {
		h := newHarness(func(types.Settings, types.ReadCallback) (*types.Compilation, error) {
			return nil, tc.raise()
		})
		assert.NotPanics(t, func() {
			assert.False(t, h.run(t, singleFile, Options{Inputs: []string{"a.sol"}, ASTCompactJSON: true}, ""), tc.name)
		})
		assert.True(t, strings.HasPrefix(h.diagnostic.String(), tc.expected), tc.name)
		assert.Empty(t, h.content.String(), tc.name)
		if tc.name == "internal" {
			assert.NotContains(t, h.diagnostic.String(), "-->")
		}
	}
}

// TestRunFactoryFailure verifies a failure to create the engine is a fault like any other.
func TestRunFactoryFailure(t *testing.T) {
	var diagnostic bytes.Buffer
	streams := output.NewStreams(&bytes.Buffer{}, &diagnostic, false)
	newEngine := func(types.ReadCallback) (platforms.Engine, error) {
		return nil, errors.New("no solc binary is configured")
	}
	testutils.ExecuteInDirectory(t, testutils.WriteTestFiles(t, singleFile), func() {
		assert.False(t, NewDriver(Options{Inputs: []string{"a.sol"}}, streams, strings.NewReader(""), newEngine).Run())
	})
	assert.Equal(t, "Unknown exception during compilation: no solc binary is configured\n", diagnostic.String())
}

// TestRunCompilationErrors verifies that diagnostics and syntax trees are emitted before the halt notice.
func TestRunCompilationErrors(t *testing.T) {
	h := newHarness(func(settings types.Settings, _ types.ReadCallback) (*types.Compilation, error) {
		compilation := succeed(settings)
		compilation.Success = false
		compilation.Diagnostics = append(compilation.Diagnostics, types.CompilerDiagnostic{
			Type:     types.ErrorTypeTypeError,
			Severity: types.SeverityError,
			Message:  "Bad type.",
			Location: &types.SourceLocation{SourceName: "a.sol", Start: 9, End: 10},
		})
		return compilation, nil
	})
	assert.False(t, h.run(t, singleFile, Options{Inputs: []string{"a.sol"}, ASTCompactJSON: true, DevDoc: true}, ""))

	assert.Equal(t, "JSON AST (compact format):\n\n\n======= a.sol =======\n"+prettyAST(0)+"\n", h.content.String())
	diagnostic := h.diagnostic.String()
	assert.True(t, strings.HasPrefix(diagnostic, "TypeError: Bad type.\n --> a.sol:1:10:\n"))
	assert.True(t, strings.HasSuffix(diagnostic, "\nCompilation halted after AST generation due to errors.\n"))
	assert.NotContains(t, diagnostic, "no output requested")
}

// TestRunParsingFailure verifies no syntax tree is emitted when parsing failed.
func TestRunParsingFailure(t *testing.T) {
	h := newHarness(func(settings types.Settings, _ types.ReadCallback) (*types.Compilation, error) {
		compilation := types.NewCompilation()
		compilation.Diagnostics = append(compilation.Diagnostics, types.CompilerDiagnostic{
			Type:     types.ErrorTypeParserError,
			Severity: types.SeverityError,
			Message:  "Expected ';'.",
		})
		return compilation, nil
	})
	assert.False(t, h.run(t, singleFile, Options{Inputs: []string{"a.sol"}, ASTCompactJSON: true}, ""))
	assert.Empty(t, h.content.String())
	assert.Equal(t, "ParserError: Expected ';'.\n\n\nCompilation halted after AST generation due to errors.\n", h.diagnostic.String())
}

// TestRunMissingAST verifies a unit without a syntax tree is an internal error.
func TestRunMissingAST(t *testing.T) {
	h := newHarness(func(types.Settings, types.ReadCallback) (*types.Compilation, error) {
		compilation := types.NewCompilation()
		compilation.Success = true
		compilation.ParsingSuccessful = true
		return compilation, nil
	})
	assert.False(t, h.run(t, singleFile, Options{Inputs: []string{"a.sol"}, ASTJSON: true}, ""))
	assert.Empty(t, h.content.String())
	assert.True(t, strings.HasPrefix(h.diagnostic.String(), "Internal compiler error during compilation:\nno syntax tree was produced for a.sol"))
}

// documentedCompilation returns a successful compilation with a documented contract A in a.sol.
func documentedCompilation(settings types.Settings) *types.Compilation {
	compilation := succeed(settings)
	compilation.Contracts = append(compilation.Contracts, types.CompiledContract{
		Name:       "A",
		SourcePath: "a.sol",
		Kind:       types.ContractKindContract,
		DevDoc:     json.RawMessage(`{"kind":"dev"}`),
		UserDoc:    json.RawMessage(`{"kind":"user"}`),
	})
	return compilation
}

// TestRunDocumentation verifies documentation output and the per-contract banner.
func TestRunDocumentation(t *testing.T) {
	h := newHarness(func(settings types.Settings, _ types.ReadCallback) (*types.Compilation, error) {
		return documentedCompilation(settings), nil
	})
	require.True(t, h.run(t, singleFile, Options{Inputs: []string{"a.sol"}, DevDoc: true, UserDoc: true}, ""))
	expected := "\n======= a.sol:A =======\n" +
		"Developer Documentation\n{\n  \"kind\": \"dev\"\n}\n" +
		"User Documentation\n{\n  \"kind\": \"user\"\n}\n"
	assert.Equal(t, expected, h.content.String())
	assert.Empty(t, h.diagnostic.String())

	// A single documentation kind needs no banner
	h = newHarness(func(settings types.Settings, _ types.ReadCallback) (*types.Compilation, error) {
		return documentedCompilation(settings), nil
	})
	require.True(t, h.run(t, singleFile, Options{Inputs: []string{"a.sol"}, UserDoc: true}, ""))
	assert.Equal(t, "User Documentation\n{\n  \"kind\": \"user\"\n}\n", h.content.String())
}

// TestRunAdvisorySuppressedByDiagnostics verifies any diagnostic output counts as output.
func TestRunAdvisorySuppressedByDiagnostics(t *testing.T) {
	h := newHarness(func(settings types.Settings, _ types.ReadCallback) (*types.Compilation, error) {
		compilation := succeed(settings)
		compilation.Diagnostics = append(compilation.Diagnostics, types.CompilerDiagnostic{
			Type:     types.ErrorTypeWarning,
			Severity: types.SeverityWarning,
			Message:  "Heads up.",
		})
		return compilation, nil
	})
	require.True(t, h.run(t, singleFile, Options{Inputs: []string{"a.sol"}}, ""))
	assert.Equal(t, "Warning: Heads up.\n\n", h.diagnostic.String())

	h = newHarness(func(settings types.Settings, _ types.ReadCallback) (*types.Compilation, error) {
		return succeed(settings), nil
	})
	require.True(t, h.run(t, singleFile, Options{Inputs: []string{"a.sol"}, Optimize: true}, ""))
	assert.Equal(t, "Flag '--optimize' is deprecated. Code is optimized by default.\n", h.diagnostic.String())
	assert.True(t, h.engine.settings.Optimize)
}

// TestRunFixture verifies a run over a checked-in source file.
func TestRunFixture(t *testing.T) {
	fixture := testutils.CopyToTestDirectory(t, "testdata/simple.sol")
	h := newHarness(func(settings types.Settings, _ types.ReadCallback) (*types.Compilation, error) {
		return succeed(settings), nil
	})
	streams := output.NewStreams(&h.content, &h.diagnostic, false)
	testutils.ExecuteInDirectory(t, fixture, func() {
		require.True(t, NewDriver(Options{Inputs: []string{"simple.sol"}}, streams, strings.NewReader(""), h.newEngine).Run())
	})

	content, ok := h.engine.settings.Sources.Get("simple.sol")
	require.True(t, ok)
	assert.Contains(t, content, "contract Simple")
}
