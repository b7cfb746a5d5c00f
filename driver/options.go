package driver

// Options describes a single invocation of the driver, as given on the command line.
type Options struct {
	// Inputs describes the positional input tokens. Each is either a remapping (`[context:]prefix=target`), a file path
	// or `-` for standard input.
	Inputs []string

	// ASTJSON requests the syntax tree of every unit in the legacy format.
	ASTJSON bool

	// ASTCompactJSON requests the syntax tree of every unit in the compact format.
	ASTCompactJSON bool

	// UserDoc requests the user-facing documentation of every contract.
	UserDoc bool

	// DevDoc requests the developer-facing documentation of every contract.
	DevDoc bool

	// ABI requests the interface description artifact.
	ABI bool

	// Code requests the generated code artifact.
	Code bool

	// Optimize is accepted for compatibility. Code is always optimized.
	Optimize bool

	// StructWarnings enables the struct usage analyzer.
	StructWarnings bool

	// DebugInfo requests the debug information artifact.
	DebugInfo bool

	// MainContract overrides which contract artifacts are generated for.
	MainContract string

	// OutputDirectory describes where artifacts are written.
	OutputDirectory string

	// FileNamePrefix describes the file name prefix of artifacts.
	FileNamePrefix string
}

// Validate rejects option combinations that cannot be honored. It performs no I/O.
func (o Options) Validate() error {
	if o.ABI && o.Code {
		return newInputError("Options --abi and --code are mutually exclusive.")
	}
	if o.ASTJSON && o.ASTCompactJSON {
		return newInputError("Options --ast-json and --ast-compact-json are mutually exclusive.")
	}
	return nil
}

// humanTargetedOutputs returns how many of the outputs meant to be read on the content channel were requested.
func (o Options) humanTargetedOutputs() int {
	count := 0
	for _, requested := range []bool{o.ASTJSON, o.UserDoc, o.DevDoc} {
		if requested {
			count++
		}
	}
	return count
}
