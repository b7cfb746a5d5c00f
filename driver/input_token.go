package driver

import (
	"strings"

	"github.com/crytic/soldrive/compilation/types"
)

// InputToken describes how a positional input token is interpreted.
type InputToken struct {
	// Token describes the token as given
	Token string

	// Remapping describes the remapping the token declares, or nil for a file reference
	Remapping *types.Remapping

	// Path describes the file the token refers to. For a remapping, it is the part after `=`.
	Path string
}

// IsRemapping returns whether the token declares a remapping.
func (t InputToken) IsRemapping() bool {
	return t.Remapping != nil
}

// ResolveInputToken interprets token. Tokens containing `=` are remappings and fail with an InputError if the
// remapping is malformed; every other token is a file reference. It is pure and performs no I/O.
func ResolveInputToken(token string) (InputToken, error) {
	eq := strings.IndexByte(token, '=')
	if eq == -1 {
		return InputToken{Token: token, Path: token}, nil
	}

	remapping, ok := types.ParseRemapping(token)
	if !ok {
		return InputToken{}, newInputError("Invalid remapping: \"%s\".", token)
	}
	return InputToken{Token: token, Remapping: &remapping, Path: token[eq+1:]}, nil
}
