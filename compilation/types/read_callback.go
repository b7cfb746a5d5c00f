package types

// ReadCallbackKindSource is the only read request kind understood by a ReadCallback. It asks for the content of a
// source file.
const ReadCallbackKindSource = "source"

// ReadResult describes the outcome of a ReadCallback invocation.
type ReadResult struct {
	// Success indicates whether Content holds the requested file content. Otherwise, Content holds a short,
	// human-readable reason for the failure.
	Success bool

	// Content holds the file content on success, or the failure reason otherwise.
	Content string
}

// ReadSuccess returns a successful ReadResult carrying content.
func ReadSuccess(content string) ReadResult {
	return ReadResult{Success: true, Content: content}
}

// ReadFailure returns a failed ReadResult carrying reason.
func ReadFailure(reason string) ReadResult {
	return ReadResult{Success: false, Content: reason}
}

// ReadCallback describes a function a compilation engine calls to obtain the content of a file it was not given up
// front. Implementations return every failure as a ReadResult and never panic.
type ReadCallback func(kind string, path string) ReadResult
