// Package layout computes where the portable Git distribution lives on disk.
//
// Every path is a pure function of the local application-data folder, the
// host application name, the pinned package version and the platform
// family. Nothing in this package touches the filesystem, so the same
// inputs always give the same Layout.
//
// Directory shape:
//
//	<LocalAppData>/<AppName>/<PackageName>_<Version>/
//	  {cmd|bin}/git[.exe]
//	  {mingw32/}etc/gitconfig
//	  {mingw32/}libexec/git-core/git-lfs[.exe]
package layout

import "path/filepath"

const (
	// PackageName identifies the portable Git distribution.
	PackageName = "PortableGit"

	// Version is the build hash of the bundled distribution. It is part of
	// the install directory name so side-by-side versions never collide.
	Version = "f02737a78695063deace08e96d5042710d3e32db"

	// DefaultAppName is the per-application directory under LocalAppData
	// used when configuration does not override it.
	DefaultAppName = "GitForEditors"

	// GitArchiveName is the bundled archive holding the Git distribution.
	GitArchiveName = "git.zip"

	// GitLfsArchiveName is the bundled archive holding Git-LFS.
	GitLfsArchiveName = "git-lfs.zip"

	// GitConfigName is the bundled system gitconfig template.
	GitConfigName = "gitconfig"
)

// PackageNameWithVersion returns "<PackageName>_<Version>", the name of the
// versioned install directory.
func PackageNameWithVersion() string {
	return PackageName + "_" + Version
}

// Layout holds the destination paths for one platform.
type Layout struct {
	// PackageDir is the versioned install directory. The extracted Git tree
	// is copied here as a whole.
	PackageDir string `json:"packageDir" yaml:"packageDir"`

	// GitPath is the destination of the git executable.
	GitPath string `json:"gitPath" yaml:"gitPath"`

	// GitLfsPath is the destination of the git-lfs executable.
	GitLfsPath string `json:"gitLfsPath" yaml:"gitLfsPath"`

	// GitConfigPath is the destination of the system gitconfig.
	GitConfigPath string `json:"gitConfigPath" yaml:"gitConfigPath"`

	// LockPath is the lock file callers hold to serialize installs into
	// PackageDir. It sits next to PackageDir, not inside it.
	LockPath string `json:"lockPath" yaml:"lockPath"`

	// Windows records which path shape was used.
	Windows bool `json:"windows" yaml:"windows"`
}

// New computes the Layout rooted at localAppData for the given application
// name. When windows is true the Git-for-Windows shape is used (cmd/,
// mingw32/ prefix, .exe suffix); otherwise the Unix shape (bin/, no prefix).
func New(localAppData, appName string, windows bool) Layout {
	if appName == "" {
		appName = DefaultAppName
	}
	appDir := filepath.Join(localAppData, appName)
	pkgDir := filepath.Join(appDir, PackageNameWithVersion())

	// Git for Windows keeps its POSIX tree under mingw32/ and exposes the
	// launcher from cmd/.
	binDir := "bin"
	prefix := ""
	if windows {
		binDir = "cmd"
		prefix = "mingw32"
	}

	return Layout{
		PackageDir:    pkgDir,
		GitPath:       filepath.Join(pkgDir, binDir, ExecutableName("git", windows)),
		GitLfsPath:    filepath.Join(pkgDir, prefix, "libexec", "git-core", ExecutableName("git-lfs", windows)),
		GitConfigPath: filepath.Join(pkgDir, prefix, "etc", GitConfigName),
		LockPath:      filepath.Join(appDir, PackageNameWithVersion()+".lock"),
		Windows:       windows,
	}
}

// ExecutableName appends ".exe" to name on Windows.
func ExecutableName(name string, windows bool) string {
	if windows {
		return name + ".exe"
	}
	return name
}
