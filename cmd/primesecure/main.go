// Command primesecure scans primes, manages the keyring and encrypts text,
// files and message batches from the command line or over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/app"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/graceful"
	"github.com/Felo0o0/PrimeSecure/utils/helpers"
	"go.uber.org/zap/zapcore"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// command runs one subcommand with its own flag set.
type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *cliEnv, args []string) error
}

// cliEnv is what every subcommand receives.
type cliEnv struct {
	stdout, stderr io.Writer
	configDir      string
	environment    string
}

// open loads the configuration and builds the application with a logger on
// stderr, so command output on stdout stays clean. The returned func closes both.
func (e *cliEnv) open(ctx context.Context) (*app.App, func(), error) {
	cfg, err := app.LoadConfig(e.configDir, e.environment)
	if err != nil {
		return nil, nil, err
	}
	lc := cfg.LoggerConfig()
	lc.Output = zapcore.AddSync(e.stderr)
	logger, err := log.NewLogger(lc)
	if err != nil {
		return nil, nil, blame.ConfigLoadError(err)
	}
	a, err := app.New(ctx, cfg, app.WithLogger(logger))
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return a, func() {
		if err := a.Close(); err != nil {
			logger.Warn("close failed", log.Err(err))
		}
		_ = logger.Sync()
	}, nil
}

var commands = []command{
	{"scan", "find primes in a range with parallel workers", runScan},
	{"keys", "list, seed or pick keyring keys", runKeys},
	{"file", "encrypt or decrypt a text file", runFile},
	{"batch", "transform a CSV batch or generated samples and export them", runBatch},
	{"template", "write a CSV batch template", runTemplate},
	{"show", "print an exported archive as a text report", runShow},
	{"serve", "run the HTTP API", runServe},
	{"watch", "print operation events from the event bus", runWatch},
	{"version", "print the version", runVersion},
}

func main() {
	ctx, stop := graceful.NotifyContext(context.Background())
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses the global flags, dispatches the subcommand and maps its error
// to an exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("primesecure", flag.ContinueOnError)
	global.SetOutput(stderr)
	configDir := global.String("config", "", "configuration directory holding <env>/config.yaml")
	environment := global.String("env", helpers.GetEnvironment(), "environment folder inside the configuration directory")
	global.Usage = func() { usage(global, stderr) }
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if global.NArg() == 0 {
		usage(global, stderr)
		return 2
	}

	env := &cliEnv{
		stdout:      stdout,
		stderr:      stderr,
		configDir:   *configDir,
		environment: *environment,
	}
	name, rest := global.Arg(0), global.Args()[1:]
	for _, cmd := range commands {
		if cmd.name != name {
			continue
		}
		if err := cmd.run(ctx, env, rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return 0
			}
			reportError(stderr, err)
			return exitCode(err)
		}
		return 0
	}

	fmt.Fprintf(stderr, "unknown command %q\n\n", name)
	usage(global, stderr)
	return 2
}

func usage(global *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "usage: primesecure [-config dir] [-env name] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "global flags:")
	global.PrintDefaults()
}

// reportError prints a blame with its fields and causes, other errors as is.
func reportError(w io.Writer, err error) {
	var b blame.Blame
	if !errors.As(err, &b) {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	resp := b.FetchErrorResponse(blame.WithTranslation())
	fmt.Fprintf(w, "error [%s]: %s\n", resp.ErrorCode, resp.Message)
	if resp.Description != "" {
		fmt.Fprintf(w, "  %s\n", resp.Description)
	}
	for _, cause := range resp.Causes {
		fmt.Fprintf(w, "  cause: %s\n", cause)
	}
}

// exitCode is 3 for partial batch failures, 130 for cancellation and 1 otherwise.
func exitCode(err error) int {
	switch {
	case blame.HasCode(err, blame.ErrorBatchCancelled):
		return 130
	case blame.HasCode(err, blame.ErrorPartialFailure):
		return 3
	default:
		return 1
	}
}

// newFlagSet returns a subcommand flag set writing to the env's stderr.
func newFlagSet(env *cliEnv, name, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	fs.Usage = func() {
		fmt.Fprintf(env.stderr, "usage: primesecure %s %s\n", name, args)
		fs.PrintDefaults()
	}
	return fs
}

func runVersion(_ context.Context, env *cliEnv, _ []string) error {
	fmt.Fprintf(env.stdout, "%s %s\n", constant.DefaultServiceName, Version)
	return nil
}
