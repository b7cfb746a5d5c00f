package driver

import (
	"encoding/json"
	"fmt"

	"github.com/crytic/soldrive/compilation/types"
	"github.com/pkg/errors"
)

const (
	// legacyASTTitle introduces the syntax trees in the legacy format
	legacyASTTitle = "JSON AST:"
	// compactASTTitle introduces the syntax trees in the compact format
	compactASTTitle = "JSON AST (compact format):"
	// haltNotice is reported when compilation failed after the syntax trees were produced
	haltNotice = "\nCompilation halted after AST generation due to errors."
	// devDocTitle introduces the developer documentation of a contract
	devDocTitle = "Developer Documentation"
	// userDocTitle introduces the user documentation of a contract
	userDocTitle = "User Documentation"
	// noOutputAdvisory is reported when a successful run wrote nothing
	noOutputAdvisory = "Compiler run successful, no output requested."
)

// outputSequencer emits the requested outputs of a completed compilation in their fixed order.
type outputSequencer struct {
	run         *run
	compilation *types.Compilation
}

// emit writes the syntax trees, then, if the compilation succeeded, the documentation of every contract and finally
// the advisory when nothing at all was written during the run. Returns false if compilation failed.
func (s *outputSequencer) emit() (bool, error) {
	if s.compilation.ParsingSuccessful {
		if err := s.emitAST(); err != nil {
			return false, err
		}
	}

	if !s.compilation.Success {
		s.run.printDiagnosticln(haltNotice)
		return false, nil
	}

	options := s.run.options
	for _, name := range s.compilation.ContractNames() {
		if options.humanTargetedOutputs() > 1 {
			s.run.printContentf("\n======= %s =======\n", name)
		}
		contract, _ := s.compilation.Contract(name)
		if options.DevDoc {
			if err := s.emitDocumentation(devDocTitle, contract.DevDoc); err != nil {
				return false, err
			}
		}
		if options.UserDoc {
			if err := s.emitDocumentation(userDocTitle, contract.UserDoc); err != nil {
				return false, err
			}
		}
	}

	if !s.run.tracker.HasOutput() {
		s.run.printDiagnosticln(noOutputAdvisory)
	}
	return true, nil
}

// emitAST writes the requested syntax tree format for every known unit, in mapping order. A unit without a tree is
// an engine contract violation.
func (s *outputSequencer) emitAST() error {
	options := s.run.options
	if !options.ASTJSON && !options.ASTCompactJSON {
		return nil
	}

	// Collect every tree before writing anything
	paths := s.run.sources.Paths()
	trees := make([]json.RawMessage, 0, len(paths))
	for _, path := range paths {
		tree, ok := s.compilation.AST(path)
		if !ok {
			return errors.WithStack(&types.InternalCompilerError{Message: fmt.Sprintf("no syntax tree was produced for %s", path)})
		}
		if options.ASTJSON {
			legacy, err := types.ConvertToLegacyAST(tree)
			if err != nil {
				return errors.WithStack(&types.InternalCompilerError{
					Message: fmt.Sprintf("could not convert the syntax tree of %s: %v", path, err),
				})
			}
			tree = legacy
		}
		pretty, err := types.PrettyJSON(tree)
		if err != nil {
			return err
		}
		trees = append(trees, pretty)
	}

	title := compactASTTitle
	if options.ASTJSON {
		title = legacyASTTitle
	}
	s.run.printContentf("%s\n\n", title)
	for i, path := range paths {
		s.run.printContentf("\n======= %s =======\n", path)
		s.run.printContentln(string(trees[i]))
	}
	return nil
}

// emitDocumentation writes a documentation title and the pretty-printed document.
func (s *outputSequencer) emitDocumentation(title string, document json.RawMessage) error {
	if len(document) == 0 {
		document = json.RawMessage("{}")
	}
	pretty, err := types.PrettyJSON(document)
	if err != nil {
		return err
	}
	s.run.printContentln(title)
	s.run.printContentln(string(pretty))
	return nil
}
