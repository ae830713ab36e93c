package source

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/eugenenazirov/scanner-cli/internal/properties"
)

// GlobalSettingsPath is the location of the global settings file relative to
// the scanner home directory.
var GlobalSettingsPath = filepath.Join("conf", "sonar-scanner.properties")

// Loader reads the raw property layers of a run.
type Loader struct {
	env        map[string]string
	workingDir string
	logger     *zap.Logger
}

// NewLoader creates a Loader reading env and resolving relative paths
// against workingDir.
func NewLoader(env map[string]string, workingDir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		env:        env,
		workingDir: workingDir,
		logger:     logger,
	}
}

// Load merges every layer with precedence:
// CLI > Environment > System properties > Project settings file > Global settings file.
// The returned set carries the normalized absolute sonar.projectBaseDir.
func (l *Loader) Load(launcher, cli properties.Set) (properties.Set, error) {
	system, err := l.SystemProperties(launcher)
	if err != nil {
		return nil, err
	}
	env, err := l.Environment()
	if err != nil {
		return nil, err
	}

	known := properties.New().Merge(system, env, cli)
	global, err := l.GlobalSettings(known)
	if err != nil {
		return nil, err
	}

	known = properties.New().Merge(global, system, env, cli)
	project, err := l.ProjectSettings(known)
	if err != nil {
		return nil, err
	}

	root := properties.New().Merge(global, project, system, env, cli)
	root.Put(properties.ProjectBaseDir, l.ProjectBaseDir(root))
	return root, nil
}

// GlobalSettings loads the global settings file, located by scanner.settings
// or else by <scanner.home>/conf/sonar-scanner.properties.
func (l *Loader) GlobalSettings(known properties.Set) (properties.Set, error) {
	if path, ok := known.Lookup(properties.ScannerSettings); ok {
		return l.loadExplicit(path)
	}
	home, ok := known.Lookup(properties.ScannerHome)
	if !ok || home == "" {
		l.logger.Debug("scanner home not set, skipping global settings")
		return properties.New(), nil
	}
	return l.loadDefault(filepath.Join(l.abs(home), GlobalSettingsPath)), nil
}

// ProjectSettings loads the root project settings file, located by
// project.settings or else by <project base dir>/sonar-project.properties.
func (l *Loader) ProjectSettings(known properties.Set) (properties.Set, error) {
	if path, ok := known.Lookup(properties.ProjectSettings); ok {
		return l.loadExplicit(path)
	}
	return l.loadDefault(filepath.Join(l.ProjectBaseDir(known), properties.ProjectSettingsFile)), nil
}

// ProjectBaseDir computes the absolute project base directory: an explicit
// sonar.projectBaseDir resolved against project.home, itself defaulting to
// the working directory.
func (l *Loader) ProjectBaseDir(known properties.Set) string {
	home := l.workingDir
	if h := known.Get(properties.ProjectHome); h != "" {
		home = l.abs(h)
	}
	base := known.Get(properties.ProjectBaseDir)
	if base == "" {
		return filepath.Clean(home)
	}
	if filepath.IsAbs(base) {
		return filepath.Clean(base)
	}
	return filepath.Join(home, base)
}

func (l *Loader) loadExplicit(path string) (properties.Set, error) {
	path = l.abs(path)
	if !properties.IsFile(path) {
		return nil, properties.NewError(ErrSettingsFile,
			fmt.Sprintf("The settings file '%s' does not exist or is not a regular file", path))
	}
	props, err := properties.Load(path)
	if err != nil {
		return nil, properties.NewError(ErrSettingsFile,
			fmt.Sprintf("Unable to read the settings file '%s': %v", path, err))
	}
	l.logger.Debug("loaded settings file", zap.String("path", path))
	return props, nil
}

func (l *Loader) loadDefault(path string) properties.Set {
	if !properties.IsFile(path) {
		l.logger.Debug("settings file does not exist", zap.String("path", path))
		return properties.New()
	}
	props, err := properties.Load(path)
	if err != nil {
		l.logger.Warn("ignoring unreadable settings file", zap.String("path", path), zap.Error(err))
		return properties.New()
	}
	l.logger.Debug("loaded settings file", zap.String("path", path))
	return props
}

func (l *Loader) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(l.workingDir, path)
}
