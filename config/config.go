package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ProjectConfig describes the settings soldrive reads from a project configuration file. Values given on the command
// line override the values read from the file.
type ProjectConfig struct {
	// Compiler describes the configuration used to drive the underlying compiler.
	Compiler CompilerConfig `json:"compiler"`

	// Logging describes the configuration used for logging to file and console
	Logging LoggingConfig `json:"logging"`
}

// CompilerConfig describes the configuration options used by the compilation engine.
type CompilerConfig struct {
	// SolcPath describes the solc binary to invoke. A bare name is looked up in PATH.
	SolcPath string `json:"solcPath"`

	// EVMVersion describes the EVM version to target. An empty string leaves the compiler default in place.
	EVMVersion string `json:"evmVersion"`

	// OptimizerRuns describes the number of runs the optimizer tunes for. The optimizer itself is always enabled.
	OptimizerRuns int `json:"optimizerRuns"`

	// CacheDirectory describes the directory holding the compilation output cache. If the string is empty, no cache
	// is used.
	CacheDirectory string `json:"cacheDirectory"`
}

// LoggingConfig describes the configuration options used for logging
type LoggingConfig struct {
	// Level describes whether logs of certain severity levels (eg info, warning, etc.) will be emitted or discarded.
	// Increasing level values represent more severe logs
	Level zerolog.Level `json:"level"`

	// NoColor describes whether console logs and diagnostics should be rendered without ANSI colors
	NoColor bool `json:"noColor"`

	// LogDirectory describes the directory where structured log _files_ will be outputted. If the string is empty, then
	// no log files are kept
	LogDirectory string `json:"logDirectory"`
}

// ReadProjectConfigFromFile reads a JSON-serialized ProjectConfig from a provided file path. Fields missing from the
// file keep their default values.
// Returns the ProjectConfig if it succeeds, or an error if one occurs.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	// Read our project configuration file data
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Parse the project configuration on top of the defaults
	projectConfig := GetDefaultProjectConfig()
	err = json.Unmarshal(b, projectConfig)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to a provided file path in a JSON-serialized format.
// Returns an error if one occurs.
func (p *ProjectConfig) WriteToFile(path string) error {
	// Serialize the configuration
	b, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}

	// Save it to the provided output path and return the result
	err = os.WriteFile(path, b, 0644)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Validate validates that the ProjectConfig meets certain requirements.
// Returns an error if one occurs.
func (p *ProjectConfig) Validate() error {
	// Verify the compiler can be located
	if p.Compiler.SolcPath == "" {
		return errors.Errorf("solc path cannot be empty")
	}

	// Verify the optimizer has a sensible target
	if p.Compiler.OptimizerRuns <= 0 {
		return errors.Errorf("optimizer runs must be a positive number")
	}

	// Verify that the log level is one zerolog knows about
	if p.Logging.Level < zerolog.TraceLevel || p.Logging.Level > zerolog.Disabled {
		return errors.Errorf("invalid log level %d", p.Logging.Level)
	}

	return nil
}
