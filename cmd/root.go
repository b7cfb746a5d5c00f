package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/crytic/soldrive/cmd/exitcodes"
	"github.com/crytic/soldrive/compilation"
	"github.com/crytic/soldrive/config"
	"github.com/crytic/soldrive/driver"
	"github.com/crytic/soldrive/logging"
	"github.com/crytic/soldrive/logging/colors"
	"github.com/crytic/soldrive/output"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// rootCmd represents the command provider for a compilation run
var rootCmd = &cobra.Command{
	Use:   "soldrive [flags] input-file...",
	Short: "A Solidity compiler driver",
	Long: `soldrive compiles Solidity source files with solc and emits the requested outputs.

Each positional argument is either a source file, "-" to read a source unit from standard input, or a remapping
of the form [context:]prefix=target.`,
	Args:          cobra.ArbitraryArgs,
	RunE:          cmdRunRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add all the flags allowed for the root command
	err := addRootFlags(rootCmd.Flags())
	if err != nil {
		logging.GlobalLogger.NewSubLogger("module", logging.CLI_SERVICE).Panic("Failed to initialize the root command", err)
	}

	// There are no subcommands to complete
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Execute runs the root command, which contains all underlying command logic and will handle parsing/invocation.
func Execute() error {
	return rootCmd.Execute()
}

// cmdRunRoot executes a compilation run:
// #1: Without positional arguments and with an interactive standard input, print the usage and fail.
// #2: Read either a custom config file (via --config) or the default (soldrive.json), else use the defaults.
// #3: Apply the flags, set up logging and coloring, then hand the invocation to the driver.
func cmdRunRoot(cmd *cobra.Command, args []string) error {
	// Possibility #1: Nothing to compile and nothing piped in
	if len(args) == 0 && isTerminal(os.Stdin) {
		_ = cmd.Usage()
		return exitcodes.NewErrorWithExitCode(nil, exitcodes.ExitCodeGeneralError)
	}

	projectConfig, err := readProjectConfig(cmd)
	if err != nil {
		return err
	}

	// Update the project configuration given whatever flags were set using the CLI
	err = updateProjectConfigWithRootFlags(cmd, projectConfig)
	if err != nil {
		return err
	}
	err = projectConfig.Validate()
	if err != nil {
		return err
	}

	// Set up logging before anything else logs
	closeLogFile, err := setupLogging(projectConfig.Logging)
	if err != nil {
		return err
	}
	defer closeLogFile()
	cmdLogger := logging.GlobalLogger.NewSubLogger("module", logging.CLI_SERVICE)

	// Colored diagnostics need a terminal on the other end
	colored := !projectConfig.Logging.NoColor && isTerminal(os.Stderr)
	if projectConfig.Logging.NoColor {
		colors.DisableColor()
	}

	options, err := getDriverOptions(cmd, args)
	if err != nil {
		cmdLogger.Error("Failed to read the command line options", err)
		return err
	}

	// Open the output cache, if one is configured. A cache that cannot be opened only costs speed.
	var outputs *compilation.OutputCache
	if projectConfig.Compiler.CacheDirectory != "" {
		outputs, err = compilation.OpenOutputCache(projectConfig.Compiler.CacheDirectory)
		if err != nil {
			cmdLogger.Warn("Failed to open the output cache, compiling without it", err)
			outputs = nil
		} else {
			defer func() {
				if err := outputs.Close(); err != nil {
					cmdLogger.Warn("Failed to close the output cache", err)
				}
			}()
		}
	}

	streams := output.NewStreams(os.Stdout, os.Stderr, colored)
	d := driver.NewDriver(options, streams, os.Stdin, compilation.NewEngineFactory(projectConfig.Compiler, outputs))
	if !d.Run() {
		return exitcodes.NewErrorWithExitCode(nil, exitcodes.ExitCodeHandledError)
	}
	return nil
}

// readProjectConfig reads the project configuration. If --config was used, the file must exist. Otherwise
// soldrive.json is read from the working directory if it exists, and the default configuration is used if it does not.
func readProjectConfig(cmd *cobra.Command) (*config.ProjectConfig, error) {
	configFlagUsed := cmd.Flags().Changed("config")
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If --config was not used, look for `soldrive.json` in the current work directory
	if !configFlagUsed {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(workingDirectory, DefaultProjectConfigFilename)
	}

	// Check to see if the file exists at configPath
	_, existenceError := os.Stat(configPath)
	if existenceError != nil {
		if configFlagUsed {
			return nil, fmt.Errorf("unable to find the config file at %v: %w", configPath, existenceError)
		}
		return config.GetDefaultProjectConfig(), nil
	}
	return config.ReadProjectConfigFromFile(configPath)
}

// isTerminal returns whether file is attached to a terminal.
func isTerminal(file *os.File) bool {
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
