package installer

import (
	"errors"
	"fmt"
	"os"

	"github.com/shinji-kodama/portable-git/internal/environment"
	"github.com/shinji-kodama/portable-git/internal/extract"
	"github.com/shinji-kodama/portable-git/internal/layout"
	"github.com/shinji-kodama/portable-git/internal/logging"
	"github.com/shinji-kodama/portable-git/internal/resource"
)

// ErrNilEnvironment is returned by New when no Environment is given.
var ErrNilEnvironment = errors.New("installer: environment is required")

// Installer installs Git and Git-LFS into a versioned package directory.
// All paths are computed once by New and never change afterwards.
type Installer struct {
	env       environment.Environment
	layout    layout.Layout
	extractor extract.Extractor
	locator   resource.Locator
	log       *logging.Logger
	appName   string
	tempRoot  string
}

// Option customizes an Installer.
type Option func(*Installer)

// WithExtractor replaces the default zip extractor.
func WithExtractor(e extract.Extractor) Option {
	return func(i *Installer) {
		if e != nil {
			i.extractor = e
		}
	}
}

// WithLocator sets where bundled archives and the gitconfig template are
// looked up. Without it the primary lookup finds nothing and only the
// extension install path is searched.
func WithLocator(l resource.Locator) Option {
	return func(i *Installer) {
		if l != nil {
			i.locator = l
		}
	}
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *logging.Logger) Option {
	return func(i *Installer) {
		if l != nil {
			i.log = l
		}
	}
}

// WithAppName sets the per-application directory under LocalAppData.
func WithAppName(name string) Option {
	return func(i *Installer) {
		if name != "" {
			i.appName = name
		}
	}
}

// WithTempDir sets the parent directory for the temporary working
// directory. The default is os.TempDir().
func WithTempDir(dir string) Option {
	return func(i *Installer) {
		i.tempRoot = dir
	}
}

// New creates an Installer for env.
//
// It resolves the local application-data folder once and derives every
// destination path from it. New fails with ErrNilEnvironment when env is
// nil, or with the folder lookup error when the folder cannot be resolved.
func New(env environment.Environment, opts ...Option) (*Installer, error) {
	if env == nil {
		return nil, ErrNilEnvironment
	}

	i := &Installer{
		env:       env,
		extractor: extract.NewZip(),
		log:       logging.Nop(),
		appName:   layout.DefaultAppName,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.locator == nil {
		i.locator = resource.NewDirBundle("", env.Platform())
	}

	root, err := env.SpecialFolder(environment.LocalApplicationData)
	if err != nil {
		return nil, fmt.Errorf("installer: failed to resolve local application data folder: %w", err)
	}
	i.layout = layout.New(root, i.appName, env.IsWindows())

	return i, nil
}

// Layout returns the destination paths this Installer writes to.
func (i *Installer) Layout() layout.Layout {
	return i.layout
}

// Presence records which installed files exist at their destinations.
type Presence struct {
	Git       bool
	GitLfs    bool
	GitConfig bool
}

// Presence checks every destination path. A path counts as present when it
// exists and is not a directory; a zero-byte file counts.
func (i *Installer) Presence() Presence {
	return Presence{
		Git:       fileExists(i.layout.GitPath),
		GitLfs:    fileExists(i.layout.GitLfsPath),
		GitConfig: fileExists(i.layout.GitConfigPath),
	}
}

// IsExtracted reports whether both the git and the git-lfs executables
// exist at their destination paths. A zero-byte file counts as present.
func (i *Installer) IsExtracted() bool {
	p := i.Presence()

	i.log.Debug().
		Str("git", i.layout.GitPath).
		Bool("gitPresent", p.Git).
		Str("gitLfs", i.layout.GitLfsPath).
		Bool("gitLfsPresent", p.GitLfs).
		Msg("checked portable git installation")

	return p.Git && p.GitLfs
}

// installedGitIsValid is meant to compare the installed Git against
// layout.Version. It always reports false, so Run always falls through to
// the per-tool existence checks.
func (i *Installer) installedGitIsValid() bool {
	return false
}

// fileExists reports whether path exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
