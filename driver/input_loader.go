package driver

import (
	"io"
	"os"
	"path/filepath"

	"github.com/crytic/soldrive/compilation/types"
	"github.com/crytic/soldrive/utils"
	"github.com/pkg/errors"
)

const (
	// StdinToken is the input token requesting standard input.
	StdinToken = "-"

	// StdinSourceName is the logical path standard input is stored under.
	StdinSourceName = "<stdin>"
)

// Inputs describes everything loaded from the input tokens before compilation.
type Inputs struct {
	// Remappings describes the remappings declared by the tokens, in order
	Remappings []types.Remapping

	// Sources describes the loaded source units under the paths they were given as
	Sources *types.SourceUnits

	// AllowedDirectories describes the parent directory of every input
	AllowedDirectories []string

	// MainInput describes the first loaded source unit
	MainInput string
}

// LoadInputs resolves every token and loads the files they refer to. stdin is read when the `-` token is given.
// Returns an InputError for an invalid remapping, a missing or irregular file, or when no source was loaded at all.
func LoadInputs(tokens []string, stdin io.Reader) (*Inputs, error) {
	inputs := &Inputs{
		Remappings:         make([]types.Remapping, 0),
		Sources:            types.NewSourceUnits(),
		AllowedDirectories: make([]string, 0),
	}

	// Standard input can only be read once, repeated `-` tokens share its content
	var stdinContent *string

	for _, rawToken := range tokens {
		token, err := ResolveInputToken(rawToken)
		if err != nil {
			return nil, err
		}

		switch {
		case token.IsRemapping():
			inputs.Remappings = append(inputs.Remappings, *token.Remapping)
			inputs.AllowedDirectories = append(inputs.AllowedDirectories, filepath.Dir(token.Path))
		case token.Path == StdinToken:
			if stdinContent == nil {
				data, err := io.ReadAll(stdin)
				if err != nil {
					return nil, errors.Wrap(err, "could not read standard input")
				}
				content := string(data)
				stdinContent = &content
			}
			inputs.addSource(StdinSourceName, *stdinContent)
		default:
			if err = inputs.loadFile(token.Path); err != nil {
				return nil, err
			}
		}
	}

	if inputs.Sources.Len() == 0 {
		return nil, newInputError("No input files given. If you wish to use the standard input please specify \"-\" explicitly.")
	}
	return inputs, nil
}

// loadFile reads the file at path into the sources.
func (i *Inputs) loadFile(path string) error {
	canonicalPath, err := utils.WeaklyCanonicalPath(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(canonicalPath)
	if utils.IsNotExist(err) {
		return newInputError("%s is not found.", path)
	} else if err != nil {
		return errors.WithStack(err)
	}
	if !info.Mode().IsRegular() {
		return newInputError("%s is not a valid file.", path)
	}

	data, err := os.ReadFile(canonicalPath)
	if err != nil {
		return errors.WithStack(err)
	}
	i.addSource(path, string(data))
	i.AllowedDirectories = append(i.AllowedDirectories, filepath.Dir(canonicalPath))
	return nil
}

// addSource records a loaded unit.
func (i *Inputs) addSource(path string, content string) {
	if i.MainInput == "" {
		i.MainInput = path
	}
	i.Sources.Set(path, content)
}
