package installer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"

	"github.com/shinji-kodama/portable-git/internal/extract"
	"github.com/shinji-kodama/portable-git/internal/layout"
	"github.com/shinji-kodama/portable-git/internal/resource"
)

// fallbackResourceDir is the directory under the extension install path
// searched when the bundle does not carry an archive.
const fallbackResourceDir = "PlatformResources"

// ExtractGitIfNeeded installs the Git distribution unless the git
// executable already exists, in which case it returns true immediately.
//
// The whole extracted tree is copied into the package directory. It
// returns false when no archive can be found, when extraction fails or when
// the copy fails.
func (i *Installer) ExtractGitIfNeeded(ctx context.Context, tempDir string, progress *extract.Progress) bool {
	ok, _ := i.extractGit(ctx, tempDir, progress)
	return ok
}

// ExtractGitLfsIfNeeded installs Git-LFS unless the git-lfs executable
// already exists.
//
// Unlike ExtractGitIfNeeded it returns false when the executable is
// already present, so a Run over a complete installation reports failure.
// Only the git-lfs executable is copied, to its nested libexec/git-core
// destination.
func (i *Installer) ExtractGitLfsIfNeeded(ctx context.Context, tempDir string, progress *extract.Progress) bool {
	ok, _ := i.extractGitLfs(ctx, tempDir, progress)
	return ok
}

func (i *Installer) extractGit(ctx context.Context, tempDir string, progress *extract.Progress) (bool, Outcome) {
	if fileExists(i.layout.GitPath) {
		i.log.Debug().Str("path", i.layout.GitPath).Msg("git already extracted")
		return true, OutcomeAlreadyPresent
	}

	archivePath, found := i.findArchive(layout.GitArchiveName, tempDir)
	if !found {
		return false, OutcomeResourceMissing
	}

	unzipDir := filepath.Join(tempDir, "git")
	defer func() { _ = os.RemoveAll(unzipDir) }()

	if err := i.extractArchive(ctx, archivePath, unzipDir, progress); err != nil {
		i.log.Error().Err(err).Str("archive", archivePath).Str("dest", unzipDir).Msg("error extracting archive")
		return false, OutcomeExtractFailed
	}

	if err := copy.Copy(unzipDir, i.layout.PackageDir); err != nil {
		i.log.Error().Err(err).Str("from", unzipDir).Str("to", i.layout.PackageDir).Msg("error copying extracted files")
		return false, OutcomeCopyFailed
	}

	i.log.Info().Str("path", i.layout.GitPath).Msg("git installed")
	return true, OutcomeInstalled
}

func (i *Installer) extractGitLfs(ctx context.Context, tempDir string, progress *extract.Progress) (bool, Outcome) {
	if fileExists(i.layout.GitLfsPath) {
		i.log.Debug().Str("path", i.layout.GitLfsPath).Msg("git-lfs already extracted")
		return false, OutcomeAlreadyPresent
	}

	archivePath, found := i.findArchive(layout.GitLfsArchiveName, tempDir)
	if !found {
		return false, OutcomeResourceMissing
	}

	unzipDir := filepath.Join(tempDir, "git-lfs")
	defer func() { _ = os.RemoveAll(unzipDir) }()

	if err := i.extractArchive(ctx, archivePath, unzipDir, progress); err != nil {
		i.log.Error().Err(err).Str("archive", archivePath).Str("dest", unzipDir).Msg("error extracting archive")
		return false, OutcomeExtractFailed
	}

	exeName := layout.ExecutableName("git-lfs", i.env.IsWindows())
	src, err := findExecutable(unzipDir, exeName)
	if err != nil {
		i.log.Error().Err(err).Str("from", unzipDir).Str("to", i.layout.GitLfsPath).Msg("error copying extracted files")
		return false, OutcomeCopyFailed
	}

	if err := copy.Copy(src, i.layout.GitLfsPath); err != nil {
		i.log.Error().Err(err).Str("from", src).Str("to", i.layout.GitLfsPath).Msg("error copying extracted files")
		return false, OutcomeCopyFailed
	}

	i.log.Info().Str("path", i.layout.GitLfsPath).Msg("git-lfs installed")
	return true, OutcomeInstalled
}

// copyGitConfig copies the bundled gitconfig template to its destination.
// A missing template is not an error; the outcome only feeds the Report.
func (i *Installer) copyGitConfig(tempDir string) Outcome {
	src, err := i.locator.Resolve(resource.Generic, layout.GitConfigName, tempDir)
	if err != nil {
		if !errors.Is(err, resource.ErrNotFound) {
			i.log.Warn().Err(err).Msg("failed to resolve gitconfig resource")
		}
		return OutcomeResourceMissing
	}

	if err := copy.Copy(src, i.layout.GitConfigPath); err != nil {
		i.log.Error().Err(err).Str("from", src).Str("to", i.layout.GitConfigPath).Msg("error copying gitconfig")
		return OutcomeCopyFailed
	}
	return OutcomeInstalled
}

// findArchive resolves a platform archive from the bundle, falling back to
// <ExtensionInstallPath>/PlatformResources/<platform>/<name>.
func (i *Installer) findArchive(name, tempDir string) (string, bool) {
	archivePath, err := i.locator.Resolve(resource.Platform, name, tempDir)
	if err == nil {
		return archivePath, true
	}
	i.log.Warn().Err(err).Str("archive", name).Msg("archive missing from bundle")

	extDir := i.env.ExtensionInstallPath()
	if extDir == "" {
		return "", false
	}
	fallback := filepath.Join(extDir, fallbackResourceDir, i.env.Platform(), name)
	if !fileExists(fallback) {
		i.log.Warn().Str("archive", fallback).Msg("archive missing")
		return "", false
	}
	return fallback, true
}

// extractArchive runs the extractor and converts a panic inside it into an
// error, so a faulty engine fails only its own step.
func (i *Installer) extractArchive(ctx context.Context, archivePath, outDir string, progress *extract.Progress) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extractor panicked: %v", r)
		}
	}()
	return i.extractor.Extract(ctx, archivePath, outDir, progress)
}

// findExecutable looks for name at the root of dir first, then anywhere
// below it (release archives often nest the binary in a versioned folder).
func findExecutable(dir, name string) (string, error) {
	direct := filepath.Join(dir, name)
	if fileExists(direct) {
		return direct, nil
	}

	var found string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == name {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to search %s: %w", dir, err)
	}
	if found == "" {
		return "", fmt.Errorf("%s not found in extracted archive", name)
	}
	return found, nil
}
