// Package environment describes the host platform the installer runs on.
//
// The installer never calls runtime.GOOS or os.Getenv directly. It asks an
// Environment for the local application-data folder, the platform family
// and the directory the host extension was installed into. NewOS answers
// those questions for the running process; Static answers them from fixed
// values for tests and embedding hosts that already know the answers.
package environment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Folder names a well-known per-user directory.
type Folder string

const (
	// LocalApplicationData is the per-user, per-machine data directory
	// (%LOCALAPPDATA% on Windows).
	LocalApplicationData Folder = "LocalApplicationData"
)

// Resource platform directory names, as used in the bundled resource tree.
const (
	PlatformWindows = "windows"
	PlatformMac     = "mac"
	PlatformLinux   = "linux"
)

// ErrUnknownFolder is returned for a Folder this package cannot resolve.
var ErrUnknownFolder = errors.New("unknown special folder")

// Environment is the platform information the installer consumes.
type Environment interface {
	// SpecialFolder resolves a well-known per-user directory.
	SpecialFolder(folder Folder) (string, error)

	// IsWindows reports whether Git-for-Windows path shapes apply.
	IsWindows() bool

	// Platform returns the resource platform directory name
	// (PlatformWindows, PlatformMac or PlatformLinux).
	Platform() string

	// ExtensionInstallPath returns the directory the host extension is
	// installed in. It may be empty when unknown.
	ExtensionInstallPath() string
}

// Compile-time checks that both implementations satisfy Environment.
var (
	_ Environment = (*OS)(nil)
	_ Environment = Static{}
)

// OS is the Environment of the running process.
type OS struct {
	goos         string
	extensionDir string
	localAppData string
	getenv       func(string) string
	homeDir      func() (string, error)
}

// NewOS returns the Environment of the running process.
//
// extensionDir is reported by ExtensionInstallPath. A non-empty
// localAppData overrides the platform lookup for LocalApplicationData,
// which hosts use to redirect installs (and tests use to stay inside a
// temporary directory).
func NewOS(extensionDir, localAppData string) *OS {
	return &OS{
		goos:         runtime.GOOS,
		extensionDir: extensionDir,
		localAppData: localAppData,
		getenv:       os.Getenv,
		homeDir:      os.UserHomeDir,
	}
}

// SpecialFolder resolves folder for the current platform:
//   - Windows: %LOCALAPPDATA%
//   - macOS: ~/Library/Application Support
//   - other Unix: $XDG_DATA_HOME, falling back to ~/.local/share
func (e *OS) SpecialFolder(folder Folder) (string, error) {
	if folder != LocalApplicationData {
		return "", fmt.Errorf("%w: %q", ErrUnknownFolder, folder)
	}
	if e.localAppData != "" {
		return filepath.Clean(e.localAppData), nil
	}

	switch e.goos {
	case "windows":
		if dir := e.getenv("LOCALAPPDATA"); dir != "" {
			return dir, nil
		}
		return "", errors.New("%LOCALAPPDATA% is not defined")

	case "darwin":
		home, err := e.homeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support"), nil

	default:
		// XDG base directory spec: relative values are invalid and must
		// be ignored.
		if dir := e.getenv("XDG_DATA_HOME"); dir != "" && filepath.IsAbs(dir) {
			return dir, nil
		}
		home, err := e.homeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

// IsWindows reports whether the process runs on Windows.
func (e *OS) IsWindows() bool {
	return e.goos == "windows"
}

// Platform maps GOOS to the resource platform directory name. Every
// non-Windows, non-macOS system uses the linux resources.
func (e *OS) Platform() string {
	switch e.goos {
	case "windows":
		return PlatformWindows
	case "darwin":
		return PlatformMac
	default:
		return PlatformLinux
	}
}

// ExtensionInstallPath returns the directory passed to NewOS.
func (e *OS) ExtensionInstallPath() string {
	return e.extensionDir
}

// Static is an Environment built from fixed values.
type Static struct {
	LocalAppData string
	Windows      bool
	PlatformName string
	ExtensionDir string
}

// SpecialFolder returns LocalAppData for LocalApplicationData.
func (s Static) SpecialFolder(folder Folder) (string, error) {
	if folder != LocalApplicationData {
		return "", fmt.Errorf("%w: %q", ErrUnknownFolder, folder)
	}
	if s.LocalAppData == "" {
		return "", errors.New("local application data folder is not set")
	}
	return s.LocalAppData, nil
}

// IsWindows returns the Windows field.
func (s Static) IsWindows() bool {
	return s.Windows
}

// Platform returns PlatformName, defaulting from Windows when empty.
func (s Static) Platform() string {
	if s.PlatformName != "" {
		return s.PlatformName
	}
	if s.Windows {
		return PlatformWindows
	}
	return PlatformLinux
}

// ExtensionInstallPath returns ExtensionDir.
func (s Static) ExtensionInstallPath() string {
	return s.ExtensionDir
}
