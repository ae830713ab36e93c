package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/scanner-cli/internal/module"
	"github.com/eugenenazirov/scanner-cli/internal/placeholder"
	"github.com/eugenenazirov/scanner-cli/internal/properties"
	"github.com/eugenenazirov/scanner-cli/internal/source"
)

// Conf resolves the final configuration of a scanner run.
// Precedence: CLI properties > Environment > System properties > Project settings > Global settings
type Conf struct {
	env        map[string]string
	launcher   properties.Set
	cli        properties.Set
	workingDir string
	clock      func() time.Time
	logger     *zap.Logger

	// startTime is captured on the first call to Properties and reused after.
	startTime string
}

// Option configures Conf.
type Option func(*Conf)

// WithEnvironment overrides the process environment, primarily for tests.
func WithEnvironment(env map[string]string) Option {
	return func(c *Conf) {
		c.env = env
	}
}

// WithLauncherProperties sets the system properties supplied by the launcher
// itself, such as scanner.home.
func WithLauncherProperties(props properties.Set) Option {
	return func(c *Conf) {
		c.launcher = props
	}
}

// WithCLIProperties sets the command-line overrides.
func WithCLIProperties(props properties.Set) Option {
	return func(c *Conf) {
		c.cli = props
	}
}

// WithWorkingDir overrides the directory relative paths are resolved against.
func WithWorkingDir(dir string) Option {
	return func(c *Conf) {
		c.workingDir = dir
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Conf) {
		c.clock = clock
	}
}

// WithLogger sets the logger used while resolving.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Conf) {
		c.logger = logger
	}
}

// New creates a Conf reading the process environment and working directory
// unless overridden by opts.
func New(opts ...Option) (*Conf, error) {
	c := &Conf{
		clock:  time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.env == nil {
		c.env = Environ(os.Environ())
	}
	if c.workingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		c.workingDir = wd
	}
	return c, nil
}

// Properties loads every layer, builds the module tree, flattens it and
// resolves placeholders. Errors are returned as reported by the failing
// stage; there is no partial result.
func (c *Conf) Properties() (properties.Set, error) {
	loader := source.NewLoader(c.env, c.workingDir, c.logger)
	root, err := loader.Load(c.launcher, c.cli)
	if err != nil {
		return nil, err
	}

	root, err = resolveStructure(root, c.env)
	if err != nil {
		return nil, err
	}

	tree, err := module.NewBuilder(c.logger).Build(root, root.Get(properties.ProjectBaseDir))
	if err != nil {
		return nil, err
	}

	modules := 0
	tree.Walk(func(path string, _ *module.Node) {
		if path != "" {
			modules++
		}
	})
	c.logger.Debug("module tree built", zap.Int("modules", modules))

	result, err := placeholder.Resolve(tree.Flatten(), c.env)
	if err != nil {
		return nil, err
	}
	result.Delete(properties.ProjectHome)

	if _, ok := result.Lookup(properties.BootstrapStartTime); !ok {
		result.Put(properties.BootstrapStartTime, c.bootstrapStartTime())
	}
	return result, nil
}

// resolveStructure expands placeholders in the keys that shape the module
// tree. Every other value stays raw until the tree is flattened, so it may
// reference module properties.
func resolveStructure(root properties.Set, env map[string]string) (properties.Set, error) {
	resolved, err := placeholder.Resolve(root, env)
	if err != nil {
		return nil, err
	}
	out := root.Clone()
	for key, value := range resolved {
		if isStructural(key) {
			out.Put(key, value)
		}
	}
	return out, nil
}

func isStructural(key string) bool {
	for _, name := range []string{properties.Modules, properties.ProjectBaseDir, properties.ProjectConfigFile} {
		if key == name || strings.HasSuffix(key, "."+name) {
			return true
		}
	}
	return false
}

func (c *Conf) bootstrapStartTime() string {
	if c.startTime == "" {
		c.startTime = strconv.FormatInt(c.clock().UnixMilli(), 10)
	}
	return c.startTime
}

// IsUserError reports whether err is a configuration problem the user can
// fix, as opposed to an internal failure.
func IsUserError(err error) bool {
	var cfgErr *properties.Error
	return errors.As(err, &cfgErr)
}

// Environ converts KEY=value pairs, as returned by os.Environ, into a map.
func Environ(pairs []string) map[string]string {
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}
