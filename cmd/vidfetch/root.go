package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/vidfetch-go/internal/app"
	"github.com/yourusername/vidfetch-go/internal/domain"
	"github.com/yourusername/vidfetch-go/pkg/logger"
)

// cliLogLevel keeps stderr to engine output unless --log-level asks for more
const cliLogLevel = "warn"

type globalOptions struct {
	configPath string
	logLevel   string
}

// startupError marks failures that end the process with a non-zero code
type startupError struct {
	err error
}

func (e *startupError) Error() string { return e.err.Error() }
func (e *startupError) Unwrap() error { return e.err }

// run executes the command line and returns the process exit code. Results
// and failures of info and download are printed in-band as a JSON line, so
// only serve startup failures exit non-zero.
func run(ctx context.Context, args []string, env *environment) int {
	if args == nil {
		args = []string{}
	}

	root := newRootCmd(env)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		var startErr *startupError
		if errors.As(err, &startErr) {
			fmt.Fprintf(env.stderr, "Error: %v\n", err)
			return 1
		}
		invalidCommand(env)
	}
	return 0
}

func newRootCmd(env *environment) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "vidfetch",
		Short: "vidfetch - video metadata and downloads through yt-dlp",
		Long: `vidfetch hands video metadata extraction and downloading to yt-dlp and
prints every result as a single JSON line on standard output.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			invalidCommand(env)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	// stdout only ever carries a JSON line, so help is an invalid command too
	root.SetHelpFunc(func(*cobra.Command, []string) { invalidCommand(env) })
	root.SetHelpCommand(&cobra.Command{
		Use:    "help",
		Hidden: true,
		Args:   cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			invalidCommand(env)
		},
	})
	root.SetOut(env.stdout)
	root.SetErr(env.stderr)

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file path")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(newInfoCmd(env, opts))
	root.AddCommand(newDownloadCmd(env, opts))
	root.AddCommand(newServeCmd(env, opts))

	return root
}

// loadCLI loads configuration and a logger for a one-shot command
func loadCLI(env *environment, opts *globalOptions) (*domain.Config, *zap.Logger, error) {
	config, err := app.LoadConfig(opts.configPath)
	if err != nil {
		return nil, nil, err
	}

	level := opts.logLevel
	if level == "" {
		level = cliLogLevel
	}
	log, err := logger.New(logger.Config{
		Level:      level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		return nil, nil, err
	}

	return config, log, nil
}

// safeRun prints fn's result, turning errors and panics into an in-band
// ErrorResult
func safeRun(out io.Writer, fn func() (interface{}, error)) {
	defer func() {
		if r := recover(); r != nil {
			printJSON(out, domain.ErrorResult{Error: fmt.Sprint(r)})
		}
	}()

	result, err := fn()
	if err != nil {
		printJSON(out, domain.ErrorResult{Error: err.Error()})
		return
	}
	printJSON(out, result)
}

// printJSON writes v as one JSON line
func printJSON(out io.Writer, v interface{}) {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(out, "{\"error\":%q}\n", err.Error())
	}
}
