package model

import (
	"fmt"
	"strings"
)

// OutputFormat selects how CLI commands render their results.
type OutputFormat string

const (
	// OutputText renders aligned, human-readable columns.
	OutputText OutputFormat = "text"

	// OutputJSON renders indented JSON for machine consumption.
	OutputJSON OutputFormat = "json"

	// OutputYAML renders a YAML document.
	OutputYAML OutputFormat = "yaml"
)

// String returns the string representation of OutputFormat.
func (f OutputFormat) String() string {
	return string(f)
}

// IsValid checks whether the OutputFormat value is one of the
// predefined formats.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputText, OutputJSON, OutputYAML:
		return true
	default:
		return false
	}
}

// ParseOutputFormat converts a string to an OutputFormat.
// Returns an error if the string does not match any valid format.
func ParseOutputFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(s))
	if !format.IsValid() {
		return "", fmt.Errorf("invalid output format: %q (valid: text, json, yaml)", s)
	}
	return format, nil
}

// ToolState describes whether a single installed artifact (git, git-lfs,
// gitconfig) is present at its destination path.
type ToolState struct {
	// Name is the artifact name shown to users (e.g., "git", "git-lfs").
	Name string `json:"name" yaml:"name"`

	// Path is the absolute destination path of the artifact.
	Path string `json:"path" yaml:"path"`

	// Present reports whether a file exists at Path. A zero-byte file
	// counts as present.
	Present bool `json:"present" yaml:"present"`

	// Version is the reported tool version, when it could be queried.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// String returns a one-line summary such as "git: present (/path/to/git)".
func (s ToolState) String() string {
	state := "missing"
	if s.Present {
		state = "present"
	}
	return fmt.Sprintf("%s: %s (%s)", s.Name, state, s.Path)
}

// ExitCode defines standard CLI exit codes.
// These codes allow the host extension and scripts to programmatically
// determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates the configuration file or environment
	// overrides could not be loaded or failed validation.
	ExitConfigError ExitCode = 2

	// ExitEnvironmentError indicates a platform folder (local app data,
	// home directory) could not be resolved.
	ExitEnvironmentError ExitCode = 3

	// ExitInstallFailed indicates the installer ran but reported failure.
	ExitInstallFailed ExitCode = 4

	// ExitLockTimeout indicates another installer run held the install
	// lock for longer than the configured timeout.
	ExitLockTimeout ExitCode = 5

	// ExitGitError indicates the installed git binary could not be run.
	ExitGitError ExitCode = 6

	// ExitUserCancelled indicates the run was interrupted by a signal.
	ExitUserCancelled ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
