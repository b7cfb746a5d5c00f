package compilation

import (
	"github.com/crytic/soldrive/compilation/platforms"
	"github.com/crytic/soldrive/compilation/types"
	"github.com/crytic/soldrive/config"
	"github.com/pkg/errors"
)

// EngineFactory creates the engine used by a single run, reading imported files through reader.
type EngineFactory func(reader types.ReadCallback) (platforms.Engine, error)

// NewSolcEngineConfig derives the platforms.SolcEngineConfig from a project's compiler configuration.
func NewSolcEngineConfig(compilerConfig config.CompilerConfig) platforms.SolcEngineConfig {
	return platforms.SolcEngineConfig{
		SolcPath:      compilerConfig.SolcPath,
		EVMVersion:    compilerConfig.EVMVersion,
		OptimizerRuns: compilerConfig.OptimizerRuns,
	}
}

// NewEngineFactory returns an EngineFactory creating solc engines configured by compilerConfig. outputs may be nil to
// disable caching.
func NewEngineFactory(compilerConfig config.CompilerConfig, outputs *OutputCache) EngineFactory {
	return func(reader types.ReadCallback) (platforms.Engine, error) {
		if compilerConfig.SolcPath == "" {
			return nil, errors.New("no solc binary is configured")
		}

		// A nil *OutputCache must not become a non-nil interface
		var cacheInterface platforms.OutputCache
		if outputs != nil {
			cacheInterface = outputs
		}
		return platforms.NewSolcEngine(NewSolcEngineConfig(compilerConfig), reader, cacheInterface), nil
	}
}
