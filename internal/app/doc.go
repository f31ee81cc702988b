// Package app wires the application together: it configures the logger,
// loads the scenario through a config.Loader, registers the built-in
// implementation modules, validates the registry, and runs the executor.
package app
