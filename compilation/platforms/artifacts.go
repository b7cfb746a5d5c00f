package platforms

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/crytic/medusa-geth/accounts/abi"
	"github.com/crytic/soldrive/compilation/types"
	"github.com/crytic/soldrive/logging"
	"github.com/crytic/soldrive/utils"
	"github.com/pkg/errors"
)

const (
	// abiArtifactSuffix is appended to the file name prefix of the interface description artifact
	abiArtifactSuffix = ".abi.json"
	// codeArtifactSuffix is appended to the file name prefix of the generated code artifact
	codeArtifactSuffix = ".code"
	// debugArtifactSuffix is appended to the file name prefix of the debug information artifact
	debugArtifactSuffix = ".debug.json"
)

// debugInfo describes the content of the debug information artifact.
type debugInfo struct {
	// Contract describes the fully qualified name of the contract
	Contract string `json:"contract"`

	// Metadata describes the CBOR metadata embedded in the runtime bytecode, if any
	Metadata map[string]any `json:"metadata,omitempty"`

	// Instructions describes the runtime bytecode instruction by instruction
	Instructions []types.Instruction `json:"instructions"`
}

// selectMainContract returns the contract artifacts are generated for. A diagnostic is returned instead when the
// selection cannot be made. Both results are nil when the main input declares no deployable contract.
func selectMainContract(compilation *types.Compilation, settings types.Settings) (*types.CompiledContract, *types.CompilerDiagnostic) {
	if settings.MainContract != "" {
		// A bare name prefers the main input, a qualified one must match exactly
		sourcePath, name := types.SplitQualifiedName(settings.MainContract)
		var selected *types.CompiledContract
		for i := range compilation.Contracts {
			contract := &compilation.Contracts[i]
			if contract.Name != name || (sourcePath != "" && contract.SourcePath != sourcePath) {
				continue
			}
			if selected == nil || contract.SourcePath == settings.MainInput {
				selected = contract
			}
		}
		if selected != nil {
			return selected, nil
		}
		return nil, &types.CompilerDiagnostic{
			Type:     types.ErrorTypeDeclarationError,
			Severity: types.SeverityError,
			Message:  fmt.Sprintf("Contract \"%s\" not found.", settings.MainContract),
		}
	}

	candidates := utils.SliceWhere(compilation.Contracts, func(contract types.CompiledContract) bool {
		return contract.SourcePath == settings.MainInput && contract.IsDeployable()
	})
	switch len(candidates) {
	case 0:
		return nil, nil
	case 1:
		return &candidates[0], nil
	default:
		names := utils.SliceSelect(candidates, func(contract types.CompiledContract) string {
			return contract.Name
		})
		return nil, &types.CompilerDiagnostic{
			Type:     types.ErrorTypeWarning,
			Severity: types.SeverityWarning,
			Message: fmt.Sprintf("%s declares several deployable contracts (%s). Select one with --contract to generate artifacts.",
				settings.MainInput, strings.Join(names, ", ")),
		}
	}
}

// writeArtifacts writes the artifacts enabled in settings for the main contract of compilation. Selection problems are
// appended to the diagnostics of compilation. Returns whether any artifact file was written.
func writeArtifacts(compilation *types.Compilation, settings types.Settings, logger *logging.Logger) (bool, error) {
	contract, diagnostic := selectMainContract(compilation, settings)
	if diagnostic != nil {
		compilation.Diagnostics = append(compilation.Diagnostics, *diagnostic)
		return false, nil
	}
	if contract == nil {
		logger.Info("No deployable contract in ", settings.MainInput, ", no artifacts were written")
		return false, nil
	}

	directory := settings.OutputDirectory
	if directory == "" {
		directory = "."
	}
	prefix := settings.FileNamePrefix
	if prefix == "" {
		prefix = utils.GetFileNameWithoutExtension(settings.MainInput)
	}

	produced := false
	if settings.GenerateABI {
		// Make sure the interface description is well formed before writing it
		if _, err := abi.JSON(bytes.NewReader(contract.Abi)); err != nil {
			return false, errors.WithStack(&types.InternalCompilerError{
				Message: fmt.Sprintf("invalid interface description for contract '%s': %v", contract.QualifiedName(), err),
			})
		}
		pretty, err := types.PrettyJSON(contract.Abi)
		if err != nil {
			return false, err
		}
		if err = utils.WriteFile(directory, prefix+abiArtifactSuffix, append(pretty, '\n')); err != nil {
			return false, err
		}
		produced = true
	}

	if settings.GenerateCode {
		code := hex.EncodeToString(contract.InitBytecode) + "\n"
		if err := utils.WriteFile(directory, prefix+codeArtifactSuffix, []byte(code)); err != nil {
			return false, err
		}
		produced = true

		if settings.DebugInfo {
			data, err := buildDebugInfo(contract)
			if err != nil {
				return false, err
			}
			if err = utils.WriteFile(directory, prefix+debugArtifactSuffix, data); err != nil {
				return false, err
			}
		}
	}

	if produced {
		logger.Info("Wrote artifacts of ", contract.QualifiedName(), " to ", directory)
	}
	return produced, nil
}

// buildDebugInfo encodes the debug information artifact of contract.
func buildDebugInfo(contract *types.CompiledContract) ([]byte, error) {
	sourceMap, err := types.ParseSourceMap(contract.SrcMapsRuntime)
	if err != nil {
		return nil, errors.WithStack(&types.InternalCompilerError{
			Message: fmt.Sprintf("invalid runtime source map for contract '%s': %v", contract.QualifiedName(), err),
		})
	}
	instructions, err := sourceMap.InstructionTable(contract.RuntimeBytecode)
	if err != nil {
		return nil, errors.WithStack(&types.InternalCompilerError{
			Message: fmt.Sprintf("invalid runtime bytecode for contract '%s': %v", contract.QualifiedName(), err),
		})
	}

	info := debugInfo{
		Contract:     contract.QualifiedName(),
		Instructions: instructions,
	}
	if metadata := types.ExtractContractMetadata(contract.RuntimeBytecode); metadata != nil {
		info.Metadata = metadata.Printable()
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return append(data, '\n'), nil
}
