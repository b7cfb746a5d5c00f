package platforms

import (
	"encoding/json"
	"fmt"

	"github.com/crytic/soldrive/compilation/types"
	"github.com/pkg/errors"
)

// standardJSONInput describes the input document of `solc --standard-json`.
type standardJSONInput struct {
	Language string                        `json:"language"`
	Sources  map[string]standardJSONSource `json:"sources"`
	Settings standardJSONSettings          `json:"settings"`
}

// standardJSONSource describes a source unit given to solc with its content.
type standardJSONSource struct {
	Content string `json:"content"`
}

// standardJSONSettings describes the compiler settings of a standardJSONInput.
type standardJSONSettings struct {
	Remappings      []string                       `json:"remappings,omitempty"`
	Optimizer       standardJSONOptimizer          `json:"optimizer"`
	EVMVersion      string                         `json:"evmVersion,omitempty"`
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
}

// standardJSONOptimizer describes the optimizer settings of a standardJSONInput.
type standardJSONOptimizer struct {
	Enabled bool `json:"enabled"`
	Runs    int  `json:"runs"`
}

// standardJSONOutputSelection requests everything the driver and the artifact writer read back.
var standardJSONOutputSelection = map[string]map[string][]string{
	"*": {
		"*": {
			"abi",
			"devdoc",
			"userdoc",
			"evm.bytecode.object",
			"evm.bytecode.sourceMap",
			"evm.deployedBytecode.object",
			"evm.deployedBytecode.sourceMap",
		},
		"": {"ast"},
	},
}

// standardJSONOutput describes the output document of `solc --standard-json`.
type standardJSONOutput struct {
	Errors    []standardJSONError                            `json:"errors"`
	Sources   map[string]standardJSONSourceOutput            `json:"sources"`
	Contracts map[string]map[string]standardJSONContractOutput `json:"contracts"`
}

// standardJSONError describes a single entry of the `errors` member of a standardJSONOutput.
type standardJSONError struct {
	Type                     types.ErrorType                 `json:"type"`
	Severity                 types.Severity                  `json:"severity"`
	Message                  string                          `json:"message"`
	SourceLocation           *types.SourceLocation           `json:"sourceLocation,omitempty"`
	SecondarySourceLocations []types.SecondarySourceLocation `json:"secondarySourceLocations,omitempty"`
}

// standardJSONSourceOutput describes the per-unit output of solc.
type standardJSONSourceOutput struct {
	ID  int             `json:"id"`
	AST json.RawMessage `json:"ast"`
}

// standardJSONContractOutput describes the per-contract output of solc.
type standardJSONContractOutput struct {
	ABI     json.RawMessage `json:"abi"`
	DevDoc  json.RawMessage `json:"devdoc"`
	UserDoc json.RawMessage `json:"userdoc"`
	EVM     struct {
		Bytecode         standardJSONBytecode `json:"bytecode"`
		DeployedBytecode standardJSONBytecode `json:"deployedBytecode"`
	} `json:"evm"`
}

// standardJSONBytecode describes a compiled bytecode object and its source map.
type standardJSONBytecode struct {
	Object    string `json:"object"`
	SourceMap string `json:"sourceMap"`
}

// diagnostic converts the entry into a CompilerDiagnostic.
func (e standardJSONError) diagnostic() types.CompilerDiagnostic {
	severity := e.Severity
	if severity == "" {
		severity = types.SeverityError
		if e.Type == types.ErrorTypeWarning {
			severity = types.SeverityWarning
		}
	}
	return types.CompilerDiagnostic{
		Type:               e.Type,
		Severity:           severity,
		Message:            e.Message,
		Location:           e.SourceLocation,
		SecondaryLocations: e.SecondarySourceLocations,
	}
}

// fault returns the entry as an engine fault if its type describes a failure of the compiler itself rather than a
// problem with the compiled code. Returns nil otherwise.
func (e standardJSONError) fault() error {
	switch e.Type {
	case types.ErrorTypeInternalCompilerError:
		return errors.WithStack(&types.InternalCompilerError{Message: e.Message})
	case types.ErrorTypeUnimplementedFeatureError:
		return errors.WithStack(&types.UnimplementedFeatureError{Message: e.Message, Location: e.SourceLocation})
	case types.ErrorTypeCompilerError:
		return errors.WithStack(&types.CompilerError{Message: e.Message, Location: e.SourceLocation})
	case types.ErrorTypeException:
		return errors.WithStack(&types.Exception{Message: e.Message})
	case types.ErrorTypeUnknownException:
		return errors.New(e.Message)
	case types.ErrorTypeJSONError, types.ErrorTypeIOError:
		return errors.WithStack(&types.Error{
			Type:               e.Type,
			Message:            e.Message,
			Location:           e.SourceLocation,
			SecondaryLocations: e.SecondarySourceLocations,
		})
	default:
		return nil
	}
}

// buildStandardJSONInput creates the input document compiling sources with settings.
func buildStandardJSONInput(sources *types.SourceUnits, settings types.Settings, config SolcEngineConfig) ([]byte, error) {
	input := standardJSONInput{
		Language: "Solidity",
		Sources:  make(map[string]standardJSONSource, sources.Len()),
		Settings: standardJSONSettings{
			Optimizer: standardJSONOptimizer{
				Enabled: settings.Optimize,
				Runs:    config.OptimizerRuns,
			},
			EVMVersion:      config.EVMVersion,
			OutputSelection: standardJSONOutputSelection,
		},
	}
	for _, path := range sources.Paths() {
		content, _ := sources.Get(path)
		input.Sources[path] = standardJSONSource{Content: content}
	}
	for _, remapping := range settings.Remappings {
		input.Settings.Remappings = append(input.Settings.Remappings, remapping.String())
	}

	data, err := json.Marshal(input)
	if err != nil {
		return nil, errors.WithStack(&types.InternalCompilerError{Message: fmt.Sprintf("could not encode compiler input: %v", err)})
	}
	return data, nil
}
