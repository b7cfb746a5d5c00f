package output

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingWriter rejects every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

// TestStreamMarksTracker verifies that only successful, non-empty writes are recorded.
func TestStreamMarksTracker(t *testing.T) {
	var buf bytes.Buffer
	stream := NewStream(&buf)

	var tracker Tracker
	assert.False(t, tracker.HasOutput())

	// An empty write records nothing
	tracker, err := stream.Print(tracker, "")
	require.NoError(t, err)
	assert.False(t, tracker.HasOutput())

	// Writes are recorded, and the previous value is left untouched
	before := tracker
	tracker, err = stream.Println(tracker, "JSON AST:")
	require.NoError(t, err)
	assert.True(t, tracker.HasOutput())
	assert.False(t, before.HasOutput())

	tracker, err = stream.Printf(tracker, "%d units\n", 2)
	require.NoError(t, err)
	assert.True(t, tracker.HasOutput())
	assert.Equal(t, "JSON AST:\n2 units\n", buf.String())
}

// TestStreamFailedWrite verifies that failed writes are reported and not recorded.
func TestStreamFailedWrite(t *testing.T) {
	stream := NewStream(failingWriter{})
	tracker, err := stream.Println(Tracker{}, "x")
	assert.Error(t, err)
	assert.False(t, tracker.HasOutput())
}

// TestNewStreams verifies both channels are wired to their writers.
func TestNewStreams(t *testing.T) {
	var content, diagnostic bytes.Buffer
	streams := NewStreams(&content, &diagnostic, true)
	assert.True(t, streams.Colored)

	tracker, err := streams.Content.Print(Tracker{}, "a")
	require.NoError(t, err)
	tracker, err = streams.Diagnostic.Print(tracker, "b")
	require.NoError(t, err)
	assert.True(t, tracker.HasOutput())
	assert.Equal(t, "a", content.String())
	assert.Equal(t, "b", diagnostic.String())
}
