package platforms

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/crytic/soldrive/compilation/types"
	"github.com/crytic/soldrive/logging"
	"github.com/crytic/soldrive/utils"
	"github.com/pkg/errors"
)

// minimumSolcVersion is the first solc release accepting `--standard-json` input.
var minimumSolcVersion = semver.MustParse("0.4.11")

// solcVersionPattern extracts the semantic version from the output of `solc --version`.
var solcVersionPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)

// libraryPlaceholderPattern matches the placeholders solc leaves in bytecode for unlinked library addresses.
var libraryPlaceholderPattern = regexp.MustCompile(`__[$_A-Za-z0-9:./]{36}__`)

// CommandRunner runs the program name with args, feeding input to its standard input. Returns the standard output and
// standard error of the program, or an error if it could not be run or exited unsuccessfully.
type CommandRunner func(name string, args []string, input []byte) ([]byte, []byte, error)

// runCommand is the CommandRunner executing a real process.
func runCommand(name string, args []string, input []byte) ([]byte, []byte, error) {
	stdout, stderr, _, err := utils.RunCommandWithInput(exec.Command(name, args...), input)
	return stdout, stderr, err
}

// SolcEngineConfig describes the configuration of a SolcEngine.
type SolcEngineConfig struct {
	// SolcPath describes the solc binary to invoke.
	SolcPath string `json:"solcPath"`

	// EVMVersion describes the EVM version to target. Empty keeps the compiler default.
	EVMVersion string `json:"evmVersion"`

	// OptimizerRuns describes the number of runs the optimizer tunes for.
	OptimizerRuns int `json:"optimizerRuns"`
}

// SolcEngine is an Engine driving a solc binary through its standard JSON interface. Imports are resolved before solc
// is invoked, reading every unit not given up front through a read callback.
type SolcEngine struct {
	// config describes the solc configuration
	config SolcEngineConfig

	// reader describes the callback used to read imported units
	reader types.ReadCallback

	// outputs describes an optional cache of solc outputs
	outputs OutputCache

	// runner describes how solc is executed
	runner CommandRunner
}

// NewSolcEngine creates a SolcEngine reading imports through reader. outputs may be nil, in which case solc is invoked
// on every compilation.
func NewSolcEngine(config SolcEngineConfig, reader types.ReadCallback, outputs OutputCache) *SolcEngine {
	return &SolcEngine{
		config:  config,
		reader:  reader,
		outputs: outputs,
		runner:  runCommand,
	}
}

// SetCommandRunner replaces how solc is executed.
func (s *SolcEngine) SetCommandRunner(runner CommandRunner) {
	s.runner = runner
}

// Platform implements Engine.
func (s *SolcEngine) Platform() string {
	return "solc"
}

// Version returns the version of the configured solc binary.
func (s *SolcEngine) Version() (*semver.Version, error) {
	// Run solc --version to obtain our compiler version.
	stdout, stderr, err := s.runner(s.config.SolcPath, []string{"--version"}, nil)
	if err != nil {
		return nil, errors.WithStack(&types.Exception{
			Message: fmt.Sprintf("error while executing %s:\nOUTPUT:\n%s%s\nERROR: %v", s.config.SolcPath, stdout, stderr, err),
		})
	}

	// Parse the compiler version out of the output
	versionStr := solcVersionPattern.FindString(string(stdout))
	if versionStr == "" {
		return nil, errors.WithStack(&types.Exception{
			Message: fmt.Sprintf("could not parse solc version using '%s --version'", s.config.SolcPath),
		})
	}

	// Parse our semver string and return it
	v, err := semver.NewVersion(versionStr)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return v, nil
}

// Compile implements Engine.
func (s *SolcEngine) Compile(settings types.Settings) (*types.Compilation, error) {
	logger := logging.GlobalLogger.NewSubLogger("module", logging.COMPILATION_SERVICE)

	// Obtain our solc version
	v, err := s.Version()
	if err != nil {
		return nil, err
	}
	if v.LessThan(minimumSolcVersion) {
		return nil, errors.WithStack(&types.UnimplementedFeatureError{
			Message: fmt.Sprintf("solc %s does not accept standard JSON input, version %s or later is required", v, minimumSolcVersion),
		})
	}
	logger.Debug("Compiling ", settings.MainInput, " with solc ", v.String())
	if len(settings.AllowedDirectories) > 0 {
		logger.Debug("Allowed directories: ", strings.Join(settings.AllowedDirectories, ", "))
	}

	// Pull in every imported unit before handing the sources to solc
	sources := types.NewSourceUnits()
	if settings.Sources != nil {
		sources = settings.Sources.Clone()
	}
	compilation := types.NewCompilation()
	compilation.Diagnostics = append(compilation.Diagnostics, newImportResolver(settings.Remappings, s.reader, logger).resolve(sources)...)
	if compilation.HasErrors() {
		return compilation, nil
	}

	// Run solc and decode its output
	input, err := buildStandardJSONInput(sources, settings, s.config)
	if err != nil {
		return nil, err
	}
	outputData, cached, err := s.run(v, input)
	if err != nil {
		return nil, err
	}
	var output standardJSONOutput
	if err = json.Unmarshal(outputData, &output); err != nil {
		return nil, errors.WithStack(&types.Exception{Message: fmt.Sprintf("could not parse solc output: %v", err)})
	}

	for _, outputError := range output.Errors {
		if fault := outputError.fault(); fault != nil {
			return nil, fault
		}
		compilation.Diagnostics = append(compilation.Diagnostics, outputError.diagnostic())
	}
	if s.outputs != nil && !cached {
		s.outputs.Store(v.String(), input, outputData)
	}

	// Collect the syntax trees in source unit order
	compilation.ParsingSuccessful = true
	for _, path := range sources.Paths() {
		sourceOutput, ok := output.Sources[path]
		if !ok || len(sourceOutput.AST) == 0 || string(sourceOutput.AST) == "null" {
			compilation.ParsingSuccessful = false
			continue
		}
		compilation.Sources = append(compilation.Sources, types.CompiledSource{
			Path: path,
			ID:   sourceOutput.ID,
			Ast:  sourceOutput.AST,
		})
	}
	for _, diagnostic := range compilation.Diagnostics {
		if diagnostic.IsError() && diagnostic.IsSyntactic() {
			compilation.ParsingSuccessful = false
		}
	}
	if !compilation.ParsingSuccessful {
		return compilation, nil
	}

	if settings.StructWarnings {
		warnings, err := analyzeStructUsage(compilation.Sources)
		if err != nil {
			return nil, err
		}
		compilation.Diagnostics = append(compilation.Diagnostics, warnings...)
	}

	// Collect the contracts in source unit order then declaration order
	for _, source := range compilation.Sources {
		var ast types.AST
		if err = json.Unmarshal(source.Ast, &ast); err != nil {
			return nil, errors.WithStack(&types.InternalCompilerError{
				Message: fmt.Sprintf("could not parse the syntax tree of %s: %v", source.Path, err),
			})
		}
		for _, definition := range ast.ContractDefinitions() {
			contractOutput, ok := output.Contracts[source.Path][definition.Name]
			if !ok {
				continue
			}
			contract, err := newCompiledContract(source.Path, definition, contractOutput, logger)
			if err != nil {
				return nil, err
			}
			compilation.Contracts = append(compilation.Contracts, *contract)
		}
	}

	compilation.Success = !compilation.HasErrors()
	if !compilation.Success {
		return compilation, nil
	}

	compilation.ProducedArtifacts, err = writeArtifacts(compilation, settings, logger)
	if err != nil {
		return nil, err
	}
	compilation.Success = !compilation.HasErrors()
	return compilation, nil
}

// run returns the solc output for input, from the cache when possible. The returned bool tells whether the output
// came from the cache.
func (s *SolcEngine) run(v *semver.Version, input []byte) ([]byte, bool, error) {
	if s.outputs != nil {
		if output, ok := s.outputs.Lookup(v.String(), input); ok {
			return output, true, nil
		}
	}

	stdout, stderr, err := s.runner(s.config.SolcPath, []string{"--standard-json"}, input)
	if err != nil {
		return nil, false, errors.WithStack(&types.Exception{
			Message: fmt.Sprintf("error while executing solc:\n%v\n\nCommand Output:\n%s%s", err, stdout, stderr),
		})
	}
	return stdout, false, nil
}

// newCompiledContract creates the CompiledContract for definition from its solc output.
func newCompiledContract(sourcePath string, definition types.ContractDefinition, output standardJSONContractOutput, logger *logging.Logger) (*types.CompiledContract, error) {
	initBytecode, err := decodeBytecode(output.EVM.Bytecode.Object)
	if err != nil {
		return nil, errors.WithStack(&types.InternalCompilerError{
			Message: fmt.Sprintf("unable to parse init bytecode for contract '%s': %v", definition.Name, err),
		})
	}
	runtimeBytecode, err := decodeBytecode(output.EVM.DeployedBytecode.Object)
	if err != nil {
		return nil, errors.WithStack(&types.InternalCompilerError{
			Message: fmt.Sprintf("unable to parse runtime bytecode for contract '%s': %v", definition.Name, err),
		})
	}
	if libraryPlaceholderPattern.MatchString(output.EVM.Bytecode.Object) {
		logger.Warn("Contract ", definition.Name, " references unlinked libraries, their addresses are zeroed")
	}

	kind := definition.Kind
	if kind == "" {
		kind = types.ContractKindContract
	}
	return &types.CompiledContract{
		Name:            definition.Name,
		SourcePath:      sourcePath,
		Kind:            kind,
		Abstract:        definition.IsAbstract(),
		Abi:             output.ABI,
		InitBytecode:    initBytecode,
		RuntimeBytecode: runtimeBytecode,
		SrcMapsInit:     output.EVM.Bytecode.SourceMap,
		SrcMapsRuntime:  output.EVM.DeployedBytecode.SourceMap,
		DevDoc:          output.DevDoc,
		UserDoc:         output.UserDoc,
	}, nil
}

// decodeBytecode decodes a hex bytecode object. Unlinked library placeholders decode as zero addresses.
func decodeBytecode(object string) ([]byte, error) {
	object = libraryPlaceholderPattern.ReplaceAllString(strings.TrimPrefix(object, "0x"), strings.Repeat("0", 40))
	return hex.DecodeString(object)
}
