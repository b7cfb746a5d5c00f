package driver

import (
	"io"

	"github.com/crytic/soldrive/compilation"
	"github.com/crytic/soldrive/compilation/types"
	"github.com/crytic/soldrive/diagnostics"
	"github.com/crytic/soldrive/logging"
	"github.com/crytic/soldrive/output"
	"github.com/pkg/errors"
)

// optimizeDeprecationNotice is reported when the legacy optimization flag is given
const optimizeDeprecationNotice = "Flag '--optimize' is deprecated. Code is optimized by default."

// Driver runs a single compilation from command line options: it loads the inputs, configures and invokes the engine,
// reports every diagnostic and fault, and emits the requested outputs.
type Driver struct {
	// options describes the invocation
	options Options

	// streams describes the user-visible channels
	streams output.Streams

	// stdin describes where the `-` input token reads from
	stdin io.Reader

	// newEngine describes how the engine is created
	newEngine compilation.EngineFactory
}

// NewDriver creates a Driver for options, writing to streams and compiling with engines created by newEngine.
func NewDriver(options Options, streams output.Streams, stdin io.Reader, newEngine compilation.EngineFactory) *Driver {
	return &Driver{
		options:   options,
		streams:   streams,
		stdin:     stdin,
		newEngine: newEngine,
	}
}

// run describes the state of a single Run.
type run struct {
	options Options
	streams output.Streams

	// tracker records whether anything was written to a user-visible channel
	tracker output.Tracker

	// sources describes every unit known to the run, including those read on behalf of the engine
	sources *types.SourceUnits

	// writeErr describes the first failed write, after which nothing more is written
	writeErr error

	logger *logging.Logger
}

// printContentln writes text and a newline to the content channel.
func (r *run) printContentln(text string) {
	r.write(func(tracker output.Tracker) (output.Tracker, error) {
		return r.streams.Content.Println(tracker, text)
	})
}

// printContentf writes a formatted string to the content channel.
func (r *run) printContentf(format string, args ...any) {
	r.write(func(tracker output.Tracker) (output.Tracker, error) {
		return r.streams.Content.Printf(tracker, format, args...)
	})
}

// printDiagnostic writes text to the diagnostic channel.
func (r *run) printDiagnostic(text string) {
	r.write(func(tracker output.Tracker) (output.Tracker, error) {
		return r.streams.Diagnostic.Print(tracker, text)
	})
}

// printDiagnosticln writes text and a newline to the diagnostic channel.
func (r *run) printDiagnosticln(text string) {
	r.write(func(tracker output.Tracker) (output.Tracker, error) {
		return r.streams.Diagnostic.Println(tracker, text)
	})
}

// write performs a single write on the tracker of the run. Nothing is written once a write failed.
func (r *run) write(write func(tracker output.Tracker) (output.Tracker, error)) {
	if r.writeErr != nil {
		return
	}
	r.tracker, r.writeErr = write(r.tracker)
}

// Run performs the compilation and returns whether it succeeded. Every failure, whatever its origin, has been
// reported on the diagnostic channel when Run returns false.
func (d *Driver) Run() bool {
	r := &run{
		options: d.options,
		streams: d.streams,
		logger:  logging.GlobalLogger.NewSubLogger("module", logging.DRIVER_SERVICE),
	}
	success := d.run(r)
	if r.writeErr != nil {
		r.logger.Error("Failed to write output", r.writeErr)
		return false
	}
	return success
}

func (d *Driver) run(r *run) bool {
	// Pre-flight checks, before anything else is touched
	if err := d.options.Validate(); err != nil {
		r.printDiagnosticln(err.Error())
		return false
	}
	inputs, err := LoadInputs(d.options.Inputs, d.stdin)
	if err != nil {
		r.printDiagnosticln(err.Error())
		return false
	}
	r.sources = inputs.Sources
	r.logger.Debug("Loaded ", inputs.Sources.Len(), " input file(s), main input is ", inputs.MainInput)

	formatter := diagnostics.NewSourceReferenceFormatter(r.sources, d.streams.Colored)
	compiled, fault := d.compile(r, inputs)
	if fault != nil {
		r.logger.Debug("Compilation faulted with category ", fault.Diagnostic().Category.String())
		r.printDiagnostic(diagnostics.RenderFault(fault, formatter))
		return false
	}

	for _, diagnostic := range compiled.Diagnostics {
		r.printDiagnostic(formatter.FormatDiagnostic(diagnostic))
	}
	if compiled.ProducedArtifacts {
		r.logger.Info("Artifacts were written")
	}

	sequencer := &outputSequencer{run: r, compilation: compiled}
	success, err := sequencer.emit()
	if err != nil {
		r.printDiagnostic(diagnostics.RenderFault(diagnostics.ClassifyError(err), formatter))
		return false
	}
	return success
}

// compile configures and invokes the engine. Any error or panic raised on the way is classified into a Fault.
func (d *Driver) compile(r *run, inputs *Inputs) (compiled *types.Compilation, fault diagnostics.Fault) {
	defer func() {
		if recovered := recover(); recovered != nil {
			compiled = nil
			fault = diagnostics.ClassifyPanic(recovered)
		}
	}()

	settings := types.Settings{
		Sources:            inputs.Sources.Clone(),
		MainInput:          inputs.MainInput,
		AllowedDirectories: inputs.AllowedDirectories,
		StructWarnings:     d.options.StructWarnings,
		MainContract:       d.options.MainContract,
		OutputDirectory:    d.options.OutputDirectory,
		FileNamePrefix:     d.options.FileNamePrefix,
		GenerateABI:        d.options.ABI,
		GenerateCode:       d.options.Code,
		Optimize:           true,
		DebugInfo:          d.options.DebugInfo,
	}
	if len(inputs.Remappings) > 0 {
		settings.Remappings = inputs.Remappings
	}
	if !d.options.ABI && !d.options.Code {
		settings.GenerateABI = true
		settings.GenerateCode = true
	}
	if d.options.Optimize {
		r.printDiagnosticln(optimizeDeprecationNotice)
	}

	engine, err := d.newEngine(NewSourceReader(r.sources))
	if err != nil {
		return nil, diagnostics.ClassifyError(err)
	}
	if engine == nil {
		return nil, diagnostics.ClassifyError(errors.WithStack(&types.InternalCompilerError{Message: "no compilation engine was created"}))
	}

	compiled, err = engine.Compile(settings)
	if err != nil {
		return nil, diagnostics.ClassifyError(err)
	}
	if compiled == nil {
		return nil, diagnostics.ClassifyError(errors.WithStack(&types.InternalCompilerError{Message: "the engine returned no compilation"}))
	}
	return compiled, nil
}
