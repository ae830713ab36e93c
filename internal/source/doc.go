// Package source reads the raw configuration layers of a scanner run: the
// global settings file, the root project settings file, system properties,
// the environment and command-line overrides.
package source
