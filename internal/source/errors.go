package source

import "errors"

var (
	// ErrSettingsFile is returned when an explicitly referenced settings file
	// cannot be read.
	ErrSettingsFile = errors.New("settings file not readable")
	// ErrInvalidEnv is returned when an environment variable carrying
	// properties cannot be parsed.
	ErrInvalidEnv = errors.New("invalid environment properties")
)
