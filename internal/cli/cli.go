// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates CLI flags into the application's internal configuration.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vneplab/evalgrid/internal/app"
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

// Parse processes command-line arguments. It returns a populated app
// Config, a boolean indicating if the program should exit cleanly, or an
// ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("evalgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Evalgrid - experiment execution and result-aggregation pipeline.

Usage:
  evalgrid [options] COMMAND EXPERIMENT_PATH

Commands:
  run      execute the scenario x config cross product into the archive
  reduce   reduce archived results into plot records
  plot     group plot records and render one figure per group and metric
  all      run, reduce and plot in sequence

Arguments:
  EXPERIMENT_PATH
    Path to a single .hcl experiment file or a directory containing one.

Options:
`)
		flagSet.PrintDefaults()
	}

	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 0, "Override the experiment's worker count. 0 uses the experiment setting.")
	strictFlag := flagSet.Bool("strict", false, "Abort reduction on the first schema mismatch.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() != 2 {
		return nil, false, &ExitError{Code: 2, Message: "expected a command and an experiment path"}
	}

	command := strings.ToLower(flagSet.Arg(0))
	switch command {
	case "run", "reduce", "plot", "all":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q: must be 'run', 'reduce', 'plot' or 'all'", command)}
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

	if *workersFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "workers must not be negative"}
	}

	return &app.Config{
		Command:        command,
		ExperimentPath: flagSet.Arg(1),
		LogFormat:      logFormat,
		LogLevel:       logLevel,
		Workers:        *workersFlag,
		Strict:         *strictFlag,
	}, false, nil
}
