package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseRemapping covers the accepted and rejected remapping forms.
func TestParseRemapping(t *testing.T) {
	testCases := []struct {
		input    string
		expected Remapping
		ok       bool
	}{
		{"lib=./vendor", Remapping{Prefix: "lib", Target: "./vendor"}, true},
		{"ctxA:lib=./vendor", Remapping{Context: "ctxA", Prefix: "lib", Target: "./vendor"}, true},
		{"lib=", Remapping{Prefix: "lib", Target: ""}, true},
		{"a:b:c=d", Remapping{Context: "a", Prefix: "b:c", Target: "d"}, true},
		{"x=y=z", Remapping{Prefix: "x", Target: "y=z"}, true},
		{"lib=C:\\vendor", Remapping{Prefix: "lib", Target: "C:\\vendor"}, true},
		{"=./vendor", Remapping{}, false},
		{"ctx:=./vendor", Remapping{}, false},
		{"no-equals-here", Remapping{}, false},
	}

	for _, tc := range testCases {
		remapping, ok := ParseRemapping(tc.input)
		assert.Equal(t, tc.ok, ok, tc.input)
		assert.Equal(t, tc.expected, remapping, tc.input)

		// Parsing is pure, so a second attempt yields the same outcome
		again, okAgain := ParseRemapping(tc.input)
		assert.Equal(t, ok, okAgain)
		assert.Equal(t, remapping, again)

		// Accepted remappings survive a round trip through their string form
		if ok {
			reparsed, reparsedOk := ParseRemapping(remapping.String())
			assert.True(t, reparsedOk)
			assert.Equal(t, remapping, reparsed)
		}
	}
}

// TestApplyRemappings covers context and prefix precedence.
func TestApplyRemappings(t *testing.T) {
	remappings := []Remapping{
		{Prefix: "lib", Target: "vendor/lib"},
		{Prefix: "lib/math", Target: "vendor/math/"},
		{Context: "src/legacy", Prefix: "lib", Target: "old/lib"},
		{Prefix: "dup", Target: "first"},
		{Prefix: "dup", Target: "second"},
	}

	assert.Equal(t, "vendor/lib/Token.sol", ApplyRemappings(remappings, "src/A.sol", "lib/Token.sol"))
	assert.Equal(t, "vendor/math/Safe.sol", ApplyRemappings(remappings, "src/A.sol", "lib/math/Safe.sol"))
	assert.Equal(t, "old/lib/Token.sol", ApplyRemappings(remappings, "src/legacy/A.sol", "lib/Token.sol"))
	assert.Equal(t, "old/lib/math/Safe.sol", ApplyRemappings(remappings, "src/legacy/A.sol", "lib/math/Safe.sol"))
	assert.Equal(t, "second/x.sol", ApplyRemappings(remappings, "", "dup/x.sol"))
	assert.Equal(t, "other/x.sol", ApplyRemappings(remappings, "src/A.sol", "other/x.sol"))
	assert.Equal(t, "x.sol", ApplyRemappings(nil, "src/A.sol", "x.sol"))
}

// TestAbsoluteImportPath covers relative and absolute import paths.
func TestAbsoluteImportPath(t *testing.T) {
	assert.Equal(t, "lib/Token.sol", AbsoluteImportPath("lib/Token.sol", "src/A.sol"))
	assert.Equal(t, "src/B.sol", AbsoluteImportPath("./B.sol", "src/A.sol"))
	assert.Equal(t, "B.sol", AbsoluteImportPath("../B.sol", "src/A.sol"))
	assert.Equal(t, "./contracts/B.sol", AbsoluteImportPath("./B.sol", "./contracts/A.sol"))
	assert.Equal(t, "src/lib/C.sol", AbsoluteImportPath("./lib/./C.sol", "src/A.sol"))
	assert.Equal(t, "/abs/C.sol", AbsoluteImportPath("../C.sol", "/abs/dir/A.sol"))
	assert.Equal(t, "B.sol", AbsoluteImportPath("./B.sol", "A.sol"))
}
