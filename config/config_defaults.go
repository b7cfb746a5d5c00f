package config

import "github.com/rs/zerolog"

// GetDefaultProjectConfig obtains a default configuration for a project.
func GetDefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Compiler: CompilerConfig{
			SolcPath:       "solc",
			EVMVersion:     "",
			OptimizerRuns:  200,
			CacheDirectory: "",
		},
		Logging: LoggingConfig{
			Level:        zerolog.WarnLevel,
			NoColor:      false,
			LogDirectory: "",
		},
	}
}
