package cmd

// DefaultProjectConfigFilename describes the default config filename for a given project folder.
const DefaultProjectConfigFilename = "soldrive.json"

// logFilePrefix describes the file name prefix of structured log files written to the log directory.
const logFilePrefix = "log-"
