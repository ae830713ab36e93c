// Package config resolves the configuration of a scanner run from multiple
// sources (global settings file, project settings file, system properties,
// environment variables, CLI overrides) with precedence: CLI > Environment >
// System properties > Project settings > Global settings. It then discovers
// the declared modules, flattens them into one property set and expands
// ${...} placeholders.
package config
