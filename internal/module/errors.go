package module

import "errors"

var (
	// ErrMissingBaseDir is returned when a module's base directory is not an
	// existing directory.
	ErrMissingBaseDir = errors.New("module base directory does not exist")
	// ErrMissingConfigFile is returned when a module's declared
	// sonar.projectConfigFile is not an existing file.
	ErrMissingConfigFile = errors.New("module properties file does not exist")
	// ErrDuplicateModule is returned when two sibling modules share an id.
	ErrDuplicateModule = errors.New("duplicate module id")
)
