package types

// Settings describes everything a compilation engine is configured with for a single run.
type Settings struct {
	// Remappings describes the import remappings, in the order they were given. Later entries win ties.
	Remappings []Remapping

	// Sources describes a snapshot of the source units known before compilation starts.
	Sources *SourceUnits

	// MainInput describes the source unit whose contracts are considered for artifact generation.
	MainInput string

	// AllowedDirectories describes the parent directories of every input file. They are passed along for import
	// resolution policies and are not enforced by the engine.
	AllowedDirectories []string

	// StructWarnings enables the extended struct-usage warnings.
	StructWarnings bool

	// MainContract overrides which contract of MainInput artifacts are generated for. Empty selects automatically.
	MainContract string

	// OutputDirectory describes where artifact files are written. Empty means the working directory.
	OutputDirectory string

	// FileNamePrefix describes the file name prefix of artifact files. Empty derives it from MainInput.
	FileNamePrefix string

	// GenerateABI enables the interface description artifact.
	GenerateABI bool

	// GenerateCode enables the generated code artifact.
	GenerateCode bool

	// Optimize enables the optimizer.
	Optimize bool

	// DebugInfo enables the debug information artifact, which accompanies generated code.
	DebugInfo bool
}
