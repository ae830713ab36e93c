package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/scanner-cli/internal/application"
	"github.com/eugenenazirov/scanner-cli/internal/config"
	"github.com/eugenenazirov/scanner-cli/internal/logging"
	"github.com/eugenenazirov/scanner-cli/internal/properties"
)

// Process exit statuses.
const (
	exitSuccess       = 0
	exitUserError     = 1
	exitInternalError = 2
)

var version = "dev"

var signalNotifyContext = signal.NotifyContext

func main() {
	kingpinApp := kingpin.New("sonar-scanner", "Scanner launcher - resolves the analysis configuration of a (multi-module) project")
	kingpinApp.HelpFlag.Short('h')
	kingpinApp.Version(version).VersionFlag.Short('v')
	defines := kingpinApp.Flag("define", "Define property, as -Dkey=value or -Dkey (meaning true)").Short('D').PlaceHolder("KEY=VALUE").Strings()
	debug := kingpinApp.Flag("debug", "Produce execution debug output").Short('X').Bool()
	format := kingpinApp.Flag("format", "Output format of the resolved configuration").Default(string(application.FormatProperties)).Enum(application.Formats()...)

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	os.Exit(run(options{
		defines: *defines,
		debug:   *debug,
		format:  application.Format(*format),
		env:     config.Environ(os.Environ()),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}))
}

type options struct {
	defines []string
	debug   bool
	format  application.Format
	env     map[string]string
	workDir string
	logOpts []logging.Option
	stdout  io.Writer
	stderr  io.Writer
}

func run(opts options) int {
	cli := parseDefines(opts.defines)
	if opts.debug {
		cli.Put(properties.Verbose, "true")
	}
	verbose := cli.Get(properties.Verbose) == "true"

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger, err := logging.New(append([]logging.Option{logging.WithLevel(level), logging.WithDebug(verbose)}, opts.logOpts...)...)
	if err != nil {
		fmt.Fprintf(opts.stderr, "ERROR: failed to initialize logger: %v\n", err)
		return exitInternalError
	}
	defer func() {
		_ = logger.Sync()
	}()

	conf, err := config.New(
		config.WithEnvironment(opts.env),
		config.WithLauncherProperties(application.LauncherProperties(version, opts.env)),
		config.WithCLIProperties(cli),
		config.WithWorkingDir(opts.workDir),
		config.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to initialize configuration", zap.Error(err))
		return exitInternalError
	}

	printer, err := application.NewPrinter(opts.stdout, opts.format)
	if err != nil {
		fmt.Fprintf(opts.stderr, "ERROR: %v\n", err)
		return exitUserError
	}

	ctx, stop := signalNotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := application.New(conf, printer, logger, application.WithLogLevel(level))
	if err := app.Run(ctx); err != nil {
		return report(opts.stderr, logger, err)
	}
	return exitSuccess
}

// parseDefines turns -D arguments into properties. A definition without
// "=" sets the key to "true".
func parseDefines(defines []string) properties.Set {
	out := properties.New()
	for _, def := range defines {
		key, value, ok := strings.Cut(def, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if !ok {
			value = "true"
		}
		out.Put(key, value)
	}
	return out
}

// report prints err and returns the matching exit status.
func report(w io.Writer, logger *zap.Logger, err error) int {
	var cfgErr *properties.Error
	if errors.As(err, &cfgErr) {
		fmt.Fprintf(w, "ERROR: %s\n", cfgErr.Message)
		logger.Debug("configuration failed", zap.Error(err))
		return exitUserError
	}
	fmt.Fprintf(w, "ERROR: %v\n", err)
	logger.Error("execution failed", zap.Error(err))
	return exitInternalError
}
