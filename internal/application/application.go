package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/scanner-cli/internal/properties"
	"github.com/eugenenazirov/scanner-cli/internal/source"
)

// AppName is reported to the engine as sonar.scanner.app.
const AppName = "ScannerCLI"

// EnvScannerHome overrides the scanner installation directory.
const EnvScannerHome = source.EnvScannerHome

// Bootstrapper receives the resolved configuration and runs the analysis
// engine. Its internals are outside this module.
type Bootstrapper interface {
	Bootstrap(ctx context.Context, props map[string]string) error
}

// Resolver produces the resolved configuration of a run.
type Resolver interface {
	Properties() (properties.Set, error)
}

// App encapsulates the resolver, the engine and logging.
type App struct {
	resolver Resolver
	engine   Bootstrapper
	logger   *zap.Logger
	level    *zap.AtomicLevel
}

// Option customises App.
type Option func(*App)

// WithLogLevel hands App the level of its logger. A resolved
// sonar.verbose=true lowers it to debug.
func WithLogLevel(level zap.AtomicLevel) Option {
	return func(a *App) {
		a.level = &level
	}
}

// New wires the application dependencies.
func New(resolver Resolver, engine Bootstrapper, logger *zap.Logger, opts ...Option) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{
		resolver: resolver,
		engine:   engine,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Run resolves the configuration and hands it to the engine.
func (a *App) Run(ctx context.Context) error {
	props, err := a.resolver.Properties()
	if err != nil {
		return err
	}

	verbose := props.Get(properties.Verbose) == "true"
	if verbose && a.level != nil {
		a.level.SetLevel(zapcore.DebugLevel)
	}

	a.logger.Debug("configuration resolved",
		zap.Int("properties", len(props)),
		zap.String("base_dir", props.Get(properties.ProjectBaseDir)),
	)
	if verbose {
		for _, key := range props.Keys() {
			a.logger.Debug("property", zap.String("key", key), zap.String("value", mask(key, props[key])))
		}
	}

	if err := a.engine.Bootstrap(ctx, props); err != nil {
		return fmt.Errorf("bootstrap engine: %w", err)
	}
	return nil
}

// LauncherProperties returns the system properties the launcher supplies on
// its own behalf: scanner identity and, when found, scanner.home.
func LauncherProperties(version string, env map[string]string) properties.Set {
	props := properties.Set{
		properties.App:        AppName,
		properties.AppVersion: version,
	}
	if home := scannerHome(env); home != "" {
		props.Put(properties.ScannerHome, home)
	}
	return props
}

// scannerHome returns SONAR_SCANNER_HOME when set, otherwise the closest
// ancestor of the executable holding the global settings file.
func scannerHome(env map[string]string) string {
	if home := strings.TrimSpace(env[EnvScannerHome]); home != "" {
		return home
	}
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	home, err := resolveInstallPath(filepath.Dir(exe), source.GlobalSettingsPath)
	if err != nil {
		return ""
	}
	return home
}

// resolveInstallPath walks up from dir and returns the first directory
// containing relative.
func resolveInstallPath(dir, relative string) (string, error) {
	for {
		candidate := filepath.Join(dir, relative)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("unable to locate %s", relative)
}

var secretKeys = []string{"sonar.token", "sonar.login", "sonar.password"}

func mask(key, value string) string {
	for _, secret := range secretKeys {
		if key == secret || strings.HasSuffix(key, "."+secret) {
			return "******"
		}
	}
	return value
}
