package driver

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crytic/soldrive/compilation/types"
	"github.com/crytic/soldrive/utils/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolveInputToken verifies how positional tokens are interpreted.
func TestResolveInputToken(t *testing.T) {
	token, err := ResolveInputToken("contracts/a.sol")
	require.NoError(t, err)
	assert.False(t, token.IsRemapping())
	assert.Equal(t, "contracts/a.sol", token.Path)

	token, err = ResolveInputToken("ctx:lib=./vendor/lib")
	require.NoError(t, err)
	require.True(t, token.IsRemapping())
	assert.Equal(t, types.Remapping{Context: "ctx", Prefix: "lib", Target: "./vendor/lib"}, *token.Remapping)
	assert.Equal(t, "./vendor/lib", token.Path)
	assert.Equal(t, "ctx:lib=./vendor/lib", token.Token)

	// Resolving performs no I/O, so a missing target is fine
	token, err = ResolveInputToken("lib=/does/not/exist")
	require.NoError(t, err)
	assert.True(t, token.IsRemapping())

	_, err = ResolveInputToken("=x")
	var inputError *InputError
	require.True(t, errors.As(err, &inputError))
	assert.Equal(t, "Invalid remapping: \"=x\".", inputError.Error())
}

// TestLoadInputs verifies the state collected from a mix of tokens.
func TestLoadInputs(t *testing.T) {
	directory := testutils.WriteTestFiles(t, map[string]string{
		"a.sol":     "contract A {}",
		"sub/b.sol": "contract B {}",
	})
	testutils.ExecuteInDirectory(t, directory, func() {
		inputs, err := LoadInputs([]string{"lib=vendor/lib", "sub/b.sol", "a.sol"}, strings.NewReader(""))
		require.NoError(t, err)

		assert.Equal(t, []types.Remapping{{Prefix: "lib", Target: "vendor/lib"}}, inputs.Remappings)
		assert.Equal(t, []string{"sub/b.sol", "a.sol"}, inputs.Sources.Paths())
		assert.Equal(t, "sub/b.sol", inputs.MainInput)
		assert.Equal(t, []string{"vendor", filepath.Join(directory, "sub"), directory}, inputs.AllowedDirectories)

		content, ok := inputs.Sources.Get("a.sol")
		require.True(t, ok)
		assert.Equal(t, "contract A {}", content)
	})
}

// TestLoadInputsStdin verifies that `-` is read into its own logical path.
func TestLoadInputsStdin(t *testing.T) {
	inputs, err := LoadInputs([]string{StdinToken}, strings.NewReader("contract S {}"))
	require.NoError(t, err)
	assert.Equal(t, []string{StdinSourceName}, inputs.Sources.Paths())
	assert.Equal(t, StdinSourceName, inputs.MainInput)
	assert.Empty(t, inputs.AllowedDirectories)

	// Repeating `-` keeps the content read the first time
	inputs, err = LoadInputs([]string{StdinToken, StdinToken}, strings.NewReader("contract S {}"))
	require.NoError(t, err)
	content, ok := inputs.Sources.Get(StdinSourceName)
	require.True(t, ok)
	assert.Equal(t, "contract S {}", content)
	assert.Equal(t, 1, inputs.Sources.Len())
}

// TestLoadInputsFailures verifies every input error message.
func TestLoadInputsFailures(t *testing.T) {
	directory := testutils.WriteTestFiles(t, map[string]string{"dir/a.sol": "contract A {}", "a.sol": "contract A {}"})
	testCases := []struct {
		tokens   []string
		expected string
	}{
		{[]string{"missing.sol"}, "missing.sol is not found."},
		{[]string{"dir"}, "dir is not a valid file."},
		{[]string{"a.sol/b.sol"}, "a.sol/b.sol is not found."},
		{[]string{"dir/a.sol", ":=x"}, "Invalid remapping: \":=x\"."},
		{nil, "No input files given. If you wish to use the standard input please specify \"-\" explicitly."},
	}

	testutils.ExecuteInDirectory(t, directory, func() {
		for _, tc := range testCases {
			_, err := LoadInputs(tc.tokens, strings.NewReader(""))
			var inputError *InputError
			require.True(t, errors.As(err, &inputError), tc.expected)
			assert.Equal(t, tc.expected, err.Error())
		}
	})
}

// TestSourceReader verifies the results of the read callback handed to the engine.
func TestSourceReader(t *testing.T) {
	directory := testutils.WriteTestFiles(t, map[string]string{"lib/b.sol": "contract B {}"})
	testutils.ExecuteInDirectory(t, directory, func() {
		sources := types.NewSourceUnits()
		reader := NewSourceReader(sources)

		result := reader(types.ReadCallbackKindSource, "lib/b.sol")
		assert.True(t, result.Success)
		assert.Equal(t, "contract B {}", result.Content)
		content, ok := sources.Get("lib/b.sol")
		require.True(t, ok)
		assert.Equal(t, "contract B {}", content)

		result = reader(types.ReadCallbackKindSource, "lib/missing.sol")
		assert.False(t, result.Success)
		assert.Equal(t, "File not found.", result.Content)

		// A path running through a regular file does not exist either
		result = reader(types.ReadCallbackKindSource, "lib/b.sol/c.sol")
		assert.False(t, result.Success)
		assert.Equal(t, "File not found.", result.Content)

		result = reader(types.ReadCallbackKindSource, "lib")
		assert.False(t, result.Success)
		assert.Equal(t, "Not a valid file.", result.Content)

		result = reader("smt-query", "lib/b.sol")
		assert.False(t, result.Success)
		assert.Equal(t, "Exception in read callback: read callback used as callback kind smt-query", result.Content)

		// Failed reads are not recorded
		assert.Equal(t, []string{"lib/b.sol"}, sources.Paths())
	})
}
