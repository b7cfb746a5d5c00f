package cmd

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/crytic/soldrive/config"
	"github.com/crytic/soldrive/logging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// setupLogging replaces logging.GlobalLogger with a logger configured from loggingConfig: console output on stderr,
// plus a structured log file if a log directory is set. Every log line of the run carries the same random `run` id.
// Returns a function closing the log file.
func setupLogging(loggingConfig config.LoggingConfig) (func(), error) {
	logger := logging.NewLogger(loggingConfig.Level)
	logger.AddWriter(os.Stderr, logging.UNSTRUCTURED, !loggingConfig.NoColor && isTerminal(os.Stderr))

	closeLogFile := func() {}
	if loggingConfig.LogDirectory != "" {
		err := os.MkdirAll(loggingConfig.LogDirectory, 0777)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		logFileName := logFilePrefix + strconv.FormatInt(time.Now().Unix(), 10) + ".log"
		logFile, err := os.Create(filepath.Join(loggingConfig.LogDirectory, logFileName))
		if err != nil {
			return nil, errors.WithStack(err)
		}
		logger.AddWriter(logFile, logging.STRUCTURED, false)
		closeLogFile = func() {
			_ = logFile.Close()
		}
	}

	logging.GlobalLogger = logger.NewSubLogger("run", uuid.NewString())
	return closeLogFile, nil
}
