// Package application provides application initialization and dependency wiring.
// It connects the configuration resolver to the engine bootstrapper that
// consumes the resolved properties, keeping the main package focused on CLI
// parsing and exit handling.
package application
