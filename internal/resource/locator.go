// Package resource locates files bundled with the host extension.
//
// Bundled resources live in an fs.FS laid out by kind:
//
//	<platform>/git.zip
//	<platform>/git-lfs.zip
//	generic/gitconfig
//
// The bundle is usually a directory on disk shipped next to the extension,
// but any fs.FS works (embed.FS, fstest.MapFS). Because callers hand the
// resolved path to tools that need a real file, Resolve copies the resource
// out of the bundle into a caller-chosen directory.
package resource

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Kind selects the subtree a resource is looked up in.
type Kind int

const (
	// Platform resources differ per operating system and live under the
	// platform directory (windows, mac, linux).
	Platform Kind = iota

	// Generic resources are shared by every platform.
	Generic
)

// String returns the kind name used in log output.
func (k Kind) String() string {
	switch k {
	case Platform:
		return "platform"
	case Generic:
		return "generic"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// genericDir is the bundle directory for Generic resources.
const genericDir = "generic"

// ErrNotFound is returned when the bundle has no resource by that name.
// Callers treat it as "nothing to install", not as a failure.
var ErrNotFound = errors.New("bundled resource not found")

// Locator resolves bundled resources to files on disk.
type Locator interface {
	// Resolve finds filename of the given kind and copies it into destDir,
	// returning the path of the copy. It returns an error wrapping
	// ErrNotFound when the bundle does not contain the resource.
	Resolve(kind Kind, filename, destDir string) (string, error)
}

// Bundle is a Locator backed by an fs.FS.
type Bundle struct {
	fsys     fs.FS
	platform string
}

// NewBundle returns a Locator reading from fsys. platform is the directory
// name used for Platform resources. A nil fsys yields a Bundle that never
// finds anything.
func NewBundle(fsys fs.FS, platform string) *Bundle {
	return &Bundle{fsys: fsys, platform: platform}
}

// NewDirBundle returns a Bundle rooted at dir on the local filesystem.
// An empty dir gives an empty bundle.
func NewDirBundle(dir, platform string) *Bundle {
	if dir == "" {
		return NewBundle(nil, platform)
	}
	return NewBundle(os.DirFS(dir), platform)
}

// Resolve implements Locator.
func (b *Bundle) Resolve(kind Kind, filename, destDir string) (string, error) {
	if b.fsys == nil {
		return "", fmt.Errorf("%w: %s (no bundle configured)", ErrNotFound, filename)
	}

	name, err := b.bundlePath(kind, filename)
	if err != nil {
		return "", err
	}

	src, err := b.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("failed to open bundled resource %s: %w", name, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat bundled resource %s: %w", name, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotFound, name)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destDir, err)
	}

	destPath := filepath.Join(destDir, path.Base(name))
	dst, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("failed to copy %s to %s: %w", name, destPath, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", destPath, err)
	}

	return destPath, nil
}

// bundlePath maps (kind, filename) to a slash-separated fs.FS path.
func (b *Bundle) bundlePath(kind Kind, filename string) (string, error) {
	if filename == "" || !fs.ValidPath(filename) {
		return "", fmt.Errorf("invalid resource name %q", filename)
	}
	switch kind {
	case Platform:
		if b.platform == "" {
			return "", fmt.Errorf("platform resource %q requested without a platform", filename)
		}
		return path.Join(b.platform, filename), nil
	case Generic:
		return path.Join(genericDir, filename), nil
	default:
		return "", fmt.Errorf("unknown resource kind %s", kind)
	}
}
