package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vk/buildgrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("buildgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
buildgrid - query the build target dependency graph.

Usage:
  buildgrid -query EXPR [options] [ROOT_PATH]

Arguments:
  ROOT_PATH
    Path to the workspace root containing .hcl build files. Defaults to
    the current directory.

Query expressions:
  //pkg:name            a single target
  deps(EXPR)            transitive dependencies
  rdeps(EXPR)           transitive reverse dependencies
  count(EXPR)           the number of targets in the set
  actions(EXPR)         the action descriptors of each target
  nactions(EXPR)        per-target action counts

Options:
`)
		flagSet.PrintDefaults()
	}

	queryFlag := flagSet.String("query", "", "Query expression to evaluate. Required.")
	qFlag := flagSet.String("q", "", "Query expression to evaluate (shorthand).")
	rootFlag := flagSet.String("root", "", "Path to the workspace root.")
	outputFileFlag := flagSet.String("output_file", "", "Write query output to this file instead of the console, resolved against the working directory.")
	loadAnalysisFlag := flagSet.String("load_analysis", "", "Load analysis values from this snapshot file instead of analyzing. Restored values carry no actions.")
	saveAnalysisFlag := flagSet.String("save_analysis", "", "Save analysis values to this snapshot file after analyzing.")
	workersFlag := flagSet.Int("workers", 4, "Number of concurrent workers for the analyzer.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	queryExpr := *queryFlag
	if queryExpr == "" {
		queryExpr = *qFlag
	}
	if queryExpr == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	root := *rootFlag
	if root == "" && flagSet.NArg() > 0 {
		root = flagSet.Arg(0)
	}
	if root == "" {
		root = "."
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *workersFlag < 1 {
		return nil, false, &ExitError{Code: 2, Message: "invalid workers: must be at least 1"}
	}

	if *loadAnalysisFlag != "" && *saveAnalysisFlag != "" {
		return nil, false, &ExitError{Code: 2, Message: "load_analysis and save_analysis are mutually exclusive"}
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, false, &ExitError{Code: 1, Message: fmt.Sprintf("determining working directory: %v", err)}
	}

	config, err := app.NewConfig(app.Config{
		Root:         root,
		Query:        queryExpr,
		OutputFile:   *outputFileFlag,
		LoadAnalysis: *loadAnalysisFlag,
		SaveAnalysis: *saveAnalysisFlag,
		Workers:      *workersFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		WorkDir:      workDir,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
