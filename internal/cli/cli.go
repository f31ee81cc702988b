package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/capscope/internal/app"
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
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("capscope", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
capscope - scoped capability dispatch, driven by declarative scenarios.

Usage:
  capscope [options] [SCENARIO_PATH]

Arguments:
  SCENARIO_PATH
    Path to a single .hcl scenario file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	scenarioFlag := flagSet.String("scenario", "", "Path to the scenario file or directory.")
	sFlag := flagSet.String("s", "", "Path to the scenario file or directory (shorthand).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	scenarioPath := *scenarioFlag
	if scenarioPath == "" {
		scenarioPath = *sFlag
	}
	if scenarioPath == "" && flagSet.NArg() > 0 {
		scenarioPath = flagSet.Arg(0)
	}
	if scenarioPath == "" {
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "a scenario path is required"}
	}

	return &app.Config{
		ScenarioPath: scenarioPath,
		LogFormat:    *logFormatFlag,
		LogLevel:     *logLevelFlag,
	}, false, nil
}
