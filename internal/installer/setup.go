package installer

import (
	"context"
	"fmt"
	"os"

	"github.com/shinji-kodama/portable-git/internal/extract"
)

// tempPattern is the os.MkdirTemp pattern for the working directory.
const tempPattern = "portable-git-"

// Setup installs whatever is missing and reports whether both extraction
// steps succeeded.
//
// The returned error is non-nil only when ctx was cancelled; it is then
// ctx.Err(), and the boolean is false. Every other failure is logged and
// turned into a false result.
func (i *Installer) Setup(ctx context.Context, progress *extract.Progress) (bool, error) {
	report, err := i.Run(ctx, progress)
	if err != nil {
		return false, err
	}
	return report.Success, nil
}

// Run performs the same work as Setup and returns the per-step Report.
//
// Cancellation is checked before the first step and after each one. A
// cancelled run returns the partial Report together with ctx.Err(). The
// temporary working directory is removed on every return path, including
// panics raised inside the steps; removal errors are ignored.
func (i *Installer) Run(ctx context.Context, progress *extract.Progress) (report *Report, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report = newReport(i.layout)

	if i.installedGitIsValid() {
		i.log.Debug().Str("dir", i.layout.PackageDir).Msg("installed git is valid, skipping setup")
		report.AlreadyValid = true
		report.Success = true
		return report, nil
	}

	tempDir, mkErr := os.MkdirTemp(i.tempRoot, tempPattern)
	if mkErr != nil {
		i.log.Error().Err(mkErr).Str("parent", i.tempRoot).Msg("failed to create temporary directory")
		report.Failure = mkErr.Error()
		return report, nil
	}

	// Best-effort release: the deferred calls run last-in first-out, so a
	// panic is converted first and the directory is removed afterwards.
	defer func() {
		_ = os.RemoveAll(tempDir)
	}()
	defer func() {
		if r := recover(); r != nil {
			i.log.Error().Str("panic", fmt.Sprint(r)).Msg("portable git setup failed")
			report.Failure = fmt.Sprintf("panic: %v", r)
			report.Success = false
			err = nil
		}
	}()

	var gitOutcome Outcome
	report.GitOK, gitOutcome = i.extractGit(ctx, tempDir, progress)
	report.Git = gitOutcome
	if err := ctx.Err(); err != nil {
		return report, err
	}

	var lfsOutcome Outcome
	report.GitLfsOK, lfsOutcome = i.extractGitLfs(ctx, tempDir, progress)
	report.GitLfs = lfsOutcome
	if err := ctx.Err(); err != nil {
		return report, err
	}

	report.GitConfig = i.copyGitConfig(tempDir)
	if err := ctx.Err(); err != nil {
		return report, err
	}

	report.Success = report.GitOK && report.GitLfsOK

	i.log.Info().
		Str("dir", i.layout.PackageDir).
		Str("git", report.Git.String()).
		Str("gitLfs", report.GitLfs.String()).
		Str("gitConfig", report.GitConfig.String()).
		Bool("success", report.Success).
		Msg("portable git setup finished")

	return report, nil
}
