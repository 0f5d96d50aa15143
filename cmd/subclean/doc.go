// Package main hosts the subclean CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration and logging once, runs
// preflight checks, and hands off to the batch, review, and tracks packages.
// Errors are classified into exit codes by services.ExitCode.
package main
