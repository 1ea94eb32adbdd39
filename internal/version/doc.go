// Package version exposes build metadata injected at build time and a cobra
// subcommand to print it.
package version
