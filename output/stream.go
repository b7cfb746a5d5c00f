package output

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Stream is a user-visible output channel. Writing through a Stream is the only way to produce user-visible output,
// and every write takes and returns the run's Tracker.
type Stream struct {
	writer io.Writer
}

// NewStream wraps writer in a Stream.
func NewStream(writer io.Writer) *Stream {
	return &Stream{writer: writer}
}

// Print writes text as-is. The returned Tracker records the write if it succeeded.
func (s *Stream) Print(tracker Tracker, text string) (Tracker, error) {
	if text == "" {
		return tracker, nil
	}
	if _, err := io.WriteString(s.writer, text); err != nil {
		return tracker, errors.WithStack(err)
	}
	return tracker.marked(), nil
}

// Println writes text followed by a newline.
func (s *Stream) Println(tracker Tracker, text string) (Tracker, error) {
	return s.Print(tracker, text+"\n")
}

// Printf writes a formatted string.
func (s *Stream) Printf(tracker Tracker, format string, args ...any) (Tracker, error) {
	return s.Print(tracker, fmt.Sprintf(format, args...))
}

// Streams describes the two user-visible channels of a run. Both may refer to the same device.
type Streams struct {
	// Content receives requested artifacts such as syntax trees and documentation.
	Content *Stream

	// Diagnostic receives errors and advisories.
	Diagnostic *Stream

	// Colored describes whether the diagnostic channel renders ANSI colors. It is decided once at start-up.
	Colored bool
}

// NewStreams creates Streams over the given writers.
func NewStreams(content io.Writer, diagnostic io.Writer, colored bool) Streams {
	return Streams{
		Content:    NewStream(content),
		Diagnostic: NewStream(diagnostic),
		Colored:    colored,
	}
}
