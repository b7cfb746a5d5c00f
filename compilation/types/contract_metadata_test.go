package types

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractContractMetadata verifies that an ipfs-style metadata suffix is decoded and printable.
func TestExtractContractMetadata(t *testing.T) {
	hash := bytes.Repeat([]byte{0xab}, 34)

	// map(2) { "ipfs": bytes(34), "solc": bytes(3) }
	metadataBytes := []byte{0xa2, 0x64, 'i', 'p', 'f', 's', 0x58, 0x22}
	metadataBytes = append(metadataBytes, hash...)
	metadataBytes = append(metadataBytes, 0x64, 's', 'o', 'l', 'c', 0x43, 0x00, 0x08, 0x13)
	bytecode := append([]byte{0x60, 0x80, 0x60, 0x40, 0x52, 0xfe}, metadataBytes...)

	metadata := ExtractContractMetadata(bytecode)
	require.NotNil(t, metadata)
	assert.Equal(t, hash, metadata.ExtractBytecodeHash())

	printable := metadata.Printable()
	assert.Equal(t, "0.8.19", printable["solc"])
	assert.Equal(t, "0x"+string(bytes.Repeat([]byte("ab"), 34)), printable["ipfs"])

	// Bytecode without metadata yields nothing
	assert.Nil(t, ExtractContractMetadata([]byte{0x60, 0x80}))
}
