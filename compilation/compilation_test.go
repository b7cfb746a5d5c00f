package compilation

import (
	"testing"
	"time"

	"github.com/crytic/soldrive/compilation/platforms"
	"github.com/crytic/soldrive/compilation/types"
	"github.com/crytic/soldrive/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeInputHash_Deterministic(t *testing.T) {
	t.Parallel()

	hash1 := ComputeInputHash("0.8.20", []byte(`{"language":"Solidity"}`))
	hash2 := ComputeInputHash("0.8.20", []byte(`{"language":"Solidity"}`))
	assert.Equal(t, hash1, hash2, "hash should be deterministic")
	assert.Len(t, hash1, 64)
}

func TestComputeInputHash_DifferentInputs(t *testing.T) {
	t.Parallel()

	base := ComputeInputHash("0.8.20", []byte("input"))
	assert.NotEqual(t, base, ComputeInputHash("0.8.21", []byte("input")), "different versions should produce different hashes")
	assert.NotEqual(t, base, ComputeInputHash("0.8.20", []byte("other")), "different inputs should produce different hashes")
	assert.NotEqual(t, ComputeInputHash("0.8.2", []byte("0input")), ComputeInputHash("0.8.20", []byte("input")))
}

func TestOutputCache_LookupAndStore(t *testing.T) {
	outputs, err := OpenOutputCache(t.TempDir())
	require.NoError(t, err)
	defer outputs.Close()

	_, ok := outputs.Lookup("0.8.20", []byte("input"))
	assert.False(t, ok)

	outputs.Store("0.8.20", []byte("input"), []byte(`{"errors":[]}`))
	output, ok := outputs.Lookup("0.8.20", []byte("input"))
	require.True(t, ok)
	assert.Equal(t, `{"errors":[]}`, string(output))

	_, ok = outputs.Lookup("0.8.21", []byte("input"))
	assert.False(t, ok)
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		duration time.Duration
		expected string
	}{
		{30 * time.Second, "30 seconds"},
		{1 * time.Minute, "1 minute"},
		{5 * time.Minute, "5 minutes"},
		{1 * time.Hour, "1 hour"},
		{3 * time.Hour, "3 hours"},
		{24 * time.Hour, "1 day"},
		{72 * time.Hour, "3 days"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatDuration(tt.duration))
	}
}

func TestNewEngineFactory(t *testing.T) {
	compilerConfig := config.GetDefaultProjectConfig().Compiler
	engine, err := NewEngineFactory(compilerConfig, nil)(func(kind string, path string) types.ReadResult {
		return types.ReadFailure("unused")
	})
	require.NoError(t, err)
	assert.Equal(t, "solc", engine.Platform())
	assert.IsType(t, &platforms.SolcEngine{}, engine)

	compilerConfig.SolcPath = ""
	_, err = NewEngineFactory(compilerConfig, nil)(nil)
	assert.Error(t, err)
}
