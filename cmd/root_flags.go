package cmd

import (
	"fmt"

	"github.com/crytic/soldrive/config"
	"github.com/crytic/soldrive/driver"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addRootFlags adds the various flags for the root command to flags
func addRootFlags(flags *pflag.FlagSet) error {
	// Get the default project config
	defaultConfig := config.GetDefaultProjectConfig()

	// Prevent alphabetical sorting of usage message
	flags.SortFlags = false

	// Outputs
	flags.Bool("ast-json", false, "print the syntax tree of every source unit in the legacy format")
	flags.Bool("ast-compact-json", false, "print the syntax tree of every source unit in the compact format")
	flags.Bool("userdoc", false, "print the user documentation of every contract")
	flags.Bool("devdoc", false, "print the developer documentation of every contract")

	// Artifacts
	flags.Bool("abi", false, "only generate the ABI file of the main contract")
	flags.Bool("code", false, "only generate the code file of the main contract")
	flags.Bool("debug", false, "also generate a debug info file of the main contract")
	flags.StringP("contract", "c", "", "name of the contract to generate artifacts for")
	flags.StringP("output-dir", "o", "", "directory artifacts are written to (default is the working directory)")
	flags.StringP("file", "f", "", "file name prefix of artifacts (default is the main input file name)")

	// Analysis
	flags.Bool("optimize", false, "deprecated, code is always optimized")
	flags.Bool("struct-warnings", false, "warn about memory copies of storage structs that are modified")

	// Config file
	flags.String("config", "", "path to config file")

	// Compiler
	flags.String("solc", "",
		fmt.Sprintf("solc binary to invoke (unless a config file is provided, default is %q)", defaultConfig.Compiler.SolcPath))
	flags.String("cache-dir", "", "directory caching compiler output (no cache is used by default)")

	// Logging
	flags.String("log-level", "",
		fmt.Sprintf("log level (unless a config file is provided, default is %q)", defaultConfig.Logging.Level.String()))
	flags.Bool("no-color", false, "disable colored terminal output")
	return nil
}

// updateProjectConfigWithRootFlags will update the given projectConfig with any CLI arguments that were provided to
// the root command
func updateProjectConfigWithRootFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// Update the solc binary
	if cmd.Flags().Changed("solc") {
		projectConfig.Compiler.SolcPath, err = cmd.Flags().GetString("solc")
		if err != nil {
			return err
		}
	}

	// Update the cache directory
	if cmd.Flags().Changed("cache-dir") {
		projectConfig.Compiler.CacheDirectory, err = cmd.Flags().GetString("cache-dir")
		if err != nil {
			return err
		}
	}

	// Update the log level
	if cmd.Flags().Changed("log-level") {
		levelName, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return err
		}
		projectConfig.Logging.Level, err = zerolog.ParseLevel(levelName)
		if err != nil {
			return err
		}
	}

	// Update color enablement
	if cmd.Flags().Changed("no-color") {
		projectConfig.Logging.NoColor, err = cmd.Flags().GetBool("no-color")
		if err != nil {
			return err
		}
	}
	return nil
}

// getDriverOptions builds the driver.Options of the invocation from the root command flags and positional args
func getDriverOptions(cmd *cobra.Command, args []string) (driver.Options, error) {
	options := driver.Options{Inputs: args}

	boolFlags := map[string]*bool{
		"ast-json":         &options.ASTJSON,
		"ast-compact-json": &options.ASTCompactJSON,
		"userdoc":          &options.UserDoc,
		"devdoc":           &options.DevDoc,
		"abi":              &options.ABI,
		"code":             &options.Code,
		"debug":            &options.DebugInfo,
		"optimize":         &options.Optimize,
		"struct-warnings":  &options.StructWarnings,
	}
	for name, target := range boolFlags {
		value, err := cmd.Flags().GetBool(name)
		if err != nil {
			return driver.Options{}, err
		}
		*target = value
	}

	stringFlags := map[string]*string{
		"contract":   &options.MainContract,
		"output-dir": &options.OutputDirectory,
		"file":       &options.FileNamePrefix,
	}
	for name, target := range stringFlags {
		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return driver.Options{}, err
		}
		*target = value
	}
	return options, nil
}
