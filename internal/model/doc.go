// Package model defines the shared value types for the portable-git CLI.
//
// This package contains pure data structures with no external dependencies.
// The installer and CLI layers exchange these types (output formats, tool
// states, exit codes) without importing each other.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
