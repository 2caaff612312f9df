// Package installer installs the portable Git distribution.
//
// An Installer ensures two executables, git and git-lfs, exist at fixed
// destination paths under the local application-data folder. Missing
// executables are extracted from bundled archives into a temporary
// directory and copied into place, then the bundled gitconfig is copied
// next to them.
//
// Orchestration steps of Run:
//  1. Check cancellation
//  2. Skip everything if the installed Git is already valid
//  3. Create a temporary working directory
//  4. Extract git.zip if the git executable is missing
//  5. Extract git-lfs.zip if the git-lfs executable is missing
//  6. Copy the gitconfig resource
//  7. Remove the temporary directory (on every exit path)
//
// Failures are absorbed: a step that cannot find its archive, extract it or
// copy it logs the problem and reports false. Only cancellation of the
// context escapes as an error. The Installer does no locking of its own;
// callers that may run concurrently must serialize runs themselves (the
// CLI holds a file lock for this).
package installer
