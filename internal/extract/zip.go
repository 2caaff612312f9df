package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// ErrUnsafePath is returned when an archive entry would be written outside
// the output directory ("zip slip").
var ErrUnsafePath = errors.New("archive entry escapes output directory")

// Extractor unpacks an archive into a directory.
type Extractor interface {
	// Extract unpacks archivePath into outDir, creating outDir if needed.
	// It returns ctx.Err() when ctx is cancelled between entries. progress
	// may be nil.
	Extract(ctx context.Context, archivePath, outDir string, progress *Progress) error
}

// Zip is the default Extractor for .zip archives.
type Zip struct {
	now func() time.Time
}

// Compile-time check that Zip satisfies Extractor.
var _ Extractor = (*Zip)(nil)

// NewZip returns a zip Extractor.
func NewZip() *Zip {
	return &Zip{now: time.Now}
}

// Extract implements Extractor.
//
// Entries are written in archive order. File modes stored in the archive
// are kept so that executables stay executable; symlink entries are
// recreated as symlinks as long as their target stays inside outDir.
func (z *Zip) Extract(ctx context.Context, archivePath, outDir string, progress *Progress) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer r.Close()

	root, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory %s: %w", outDir, err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", root, err)
	}
	// Symlink checks compare on-disk locations, so root must be one too.
	if root, err = filepath.EvalSymlinks(root); err != nil {
		return fmt.Errorf("failed to resolve output directory %s: %w", outDir, err)
	}

	var total uint64
	for _, f := range r.File {
		total += f.UncompressedSize64
	}

	start := z.now()
	var done uint64
	progress.Fraction(0)

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		target, err := safeJoin(root, f.Name)
		if err != nil {
			return err
		}

		if err := writeEntry(f, root, target); err != nil {
			return err
		}

		done += f.UncompressedSize64
		if total > 0 {
			progress.Fraction(float64(done) / float64(total))
		}
		if remaining, ok := estimateRemaining(z.now().Sub(start), done, total); ok {
			progress.Remaining(remaining)
		}
	}

	progress.Fraction(1)
	progress.Remaining(0)
	return nil
}

// writeEntry materializes a single archive entry at target.
//
// Nothing is ever written through a symlink already on disk: an earlier
// link entry could otherwise redirect later entries outside root.
func writeEntry(f *zip.File, root, target string) error {
	mode := f.Mode()
	isLink := mode&os.ModeSymlink != 0

	// A link entry replaces whatever is at target, so only its parents
	// are checked.
	if err := checkNoSymlinks(root, target, !isLink); err != nil {
		return err
	}

	switch {
	case mode.IsDir():
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", target, err)
		}
		return nil

	case isLink:
		return writeSymlink(f, root, target)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	// Archives created on Windows often carry no Unix permission bits.
	perm := mode.Perm()
	if perm == 0 {
		perm = 0o644
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

// writeSymlink recreates a symlink entry. The link body is the target path.
func writeSymlink(f *zip.File, root, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("failed to read link %s: %w", f.Name, err)
	}
	linkTarget := string(body)

	if filepath.IsAbs(linkTarget) {
		return fmt.Errorf("%w: %s -> %s", ErrUnsafePath, f.Name, linkTarget)
	}
	if err := checkLinkTarget(root, filepath.Dir(target), linkTarget); err != nil {
		return fmt.Errorf("%w: %s -> %s", err, f.Name, linkTarget)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}
	_ = os.Remove(target)
	if err := os.Symlink(linkTarget, target); err != nil {
		return fmt.Errorf("failed to create symlink %s: %w", target, err)
	}
	return nil
}

// safeJoin joins an archive entry name onto root and rejects names that
// would resolve outside root.
func safeJoin(root, name string) (string, error) {
	// Archive names always use forward slashes; some Windows tools write
	// backslashes anyway.
	clean := filepath.FromSlash(strings.ReplaceAll(name, `\`, "/"))
	if filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	target := filepath.Join(root, clean)
	if !within(root, target) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}

// checkNoSymlinks rejects target when a path component between root and
// target is a symlink on disk. Components that do not exist yet end the
// walk. The leaf itself is checked only when includeLeaf is set.
func checkNoSymlinks(root, target string, includeLeaf bool) error {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnsafePath, target)
	}
	if rel == "." {
		return nil
	}

	parts := strings.Split(rel, string(filepath.Separator))
	if !includeLeaf {
		parts = parts[:len(parts)-1]
	}

	cur := root
	for _, part := range parts {
		cur = filepath.Join(cur, part)
		info, err := os.Lstat(cur)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to inspect %s: %w", cur, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s passes through symlink %s", ErrUnsafePath, target, cur)
		}
	}
	return nil
}

// checkLinkTarget follows linkTarget from linkDir one component at a time
// the way the kernel would, resolving symlinks already on disk, and fails
// as soon as the walk leaves root. A lexical clean is not enough: with
// y -> "." in place, "y/.." names the parent of root.
func checkLinkTarget(root, linkDir, linkTarget string) error {
	cur := linkDir
	for _, part := range strings.Split(filepath.ToSlash(linkTarget), "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			cur = filepath.Dir(cur)
		default:
			cur = filepath.Join(cur, part)
			if info, err := os.Lstat(cur); err == nil && info.Mode()&os.ModeSymlink != 0 {
				real, err := filepath.EvalSymlinks(cur)
				if err != nil {
					return ErrUnsafePath
				}
				cur = real
			}
		}
		if !within(root, cur) {
			return ErrUnsafePath
		}
	}
	return nil
}

// within reports whether path is root or lies below it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
