package driver

import (
	"fmt"
	"os"

	"github.com/crytic/soldrive/compilation/types"
	"github.com/crytic/soldrive/logging"
	"github.com/crytic/soldrive/utils"
	"github.com/pkg/errors"
)

const (
	// readExceptionPrefix prefixes the reason of a read that failed unexpectedly
	readExceptionPrefix = "Exception in read callback: "
	// readUnknownException is the reason of a read that failed in an unrecognized way
	readUnknownException = "Unknown exception in read callback."
)

// NewSourceReader returns the types.ReadCallback handed to the engine. Every file it reads is recorded in sources
// under the path it was requested as. The callback never panics: every failure is returned as a types.ReadResult.
func NewSourceReader(sources *types.SourceUnits) types.ReadCallback {
	return func(kind string, path string) (result types.ReadResult) {
		logger := logging.GlobalLogger.NewSubLogger("module", logging.DRIVER_SERVICE)
		defer func() {
			if recovered := recover(); recovered != nil {
				if err, ok := recovered.(error); ok {
					result = types.ReadFailure(readExceptionPrefix + err.Error())
				} else {
					result = types.ReadFailure(readUnknownException)
				}
			}
			if !result.Success {
				logger.Debug("Read of ", path, " failed: ", result.Content)
			}
		}()

		content, err := readSource(kind, path)
		if err != nil {
			var failure *readFailure
			if errors.As(err, &failure) {
				return types.ReadFailure(failure.reason)
			}
			return types.ReadFailure(readExceptionPrefix + err.Error())
		}

		logger.Trace("Read ", path)
		sources.Set(path, content)
		return types.ReadSuccess(content)
	}
}

// readFailure describes an expected read failure whose reason is reported as-is.
type readFailure struct {
	reason string
}

func (f *readFailure) Error() string {
	return f.reason
}

// readSource reads the file at path on behalf of a read request of the given kind.
func readSource(kind string, path string) (string, error) {
	if kind != types.ReadCallbackKindSource {
		return "", errors.WithStack(&types.InternalCompilerError{
			Message: fmt.Sprintf("read callback used as callback kind %s", kind),
		})
	}

	canonicalPath, err := utils.WeaklyCanonicalPath(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(canonicalPath)
	if utils.IsNotExist(err) {
		return "", &readFailure{reason: "File not found."}
	} else if err != nil {
		return "", errors.WithStack(err)
	}
	if !info.Mode().IsRegular() {
		return "", &readFailure{reason: "Not a valid file."}
	}

	data, err := os.ReadFile(canonicalPath)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(data), nil
}
