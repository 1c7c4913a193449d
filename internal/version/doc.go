// Package version exposes build metadata injected at compile time and a
// cobra subcommand for printing it.
package version
