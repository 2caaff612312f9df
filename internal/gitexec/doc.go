// Package gitexec runs the installed portable git binary.
//
// It shells out to the git executable at a known path rather than using a
// Go Git library: the point is to prove that the extracted tree works, so
// the real binary must be the one being run. Errors from git are wrapped in
// model.CLIError with ExitGitError so the CLI can map them to exit codes.
package gitexec
