package extract

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zipEntry describes one entry of a test archive.
type zipEntry struct {
	name string
	body string
	mode os.FileMode
}

// writeTestZip builds a zip archive at dir/name from entries and returns
// its path. Entries with a zero mode get 0644.
func writeTestZip(t *testing.T, dir, name string, entries []zipEntry) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.name, Method: zip.Deflate}
		mode := e.mode
		if mode == 0 {
			mode = 0o644
		}
		hdr.SetMode(mode)
		w, err := zw.CreateHeader(hdr)
		require.NoError(t, err)
		if e.body != "" {
			_, err = w.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return path
}

func TestZip_Extract(t *testing.T) {
	dir := t.TempDir()
	archive := writeTestZip(t, dir, "git.zip", []zipEntry{
		{name: "bin/", mode: os.ModeDir | 0o755},
		{name: "bin/git", body: "#!/bin/sh\necho git\n", mode: 0o755},
		{name: "etc/gitconfig", body: "[core]\n"},
		{name: "libexec/git-core/git-remote-http", body: "remote", mode: 0o755},
	})
	out := filepath.Join(dir, "out")

	err := NewZip().Extract(context.Background(), archive, out, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "bin", "git"))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho git\n", string(data))

	data, err = os.ReadFile(filepath.Join(out, "etc", "gitconfig"))
	require.NoError(t, err)
	assert.Equal(t, "[core]\n", string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(out, "bin", "git"))
		require.NoError(t, err)
		assert.NotZero(t, info.Mode().Perm()&0o100, "executable bit should be preserved")
	}
}

func TestZip_ExtractReportsProgress(t *testing.T) {
	dir := t.TempDir()
	archive := writeTestZip(t, dir, "git-lfs.zip", []zipEntry{
		{name: "git-lfs", body: "0123456789", mode: 0o755},
		{name: "README.md", body: "0123456789"},
	})

	// A fake clock that advances one second per reading makes the
	// remaining-time estimate deterministic.
	tick := time.Unix(0, 0)
	z := &Zip{now: func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}}

	var fractions []float64
	var remaining []time.Duration
	progress := &Progress{
		OnFraction:  func(f float64) { fractions = append(fractions, f) },
		OnRemaining: func(d time.Duration) { remaining = append(remaining, d) },
	}

	require.NoError(t, z.Extract(context.Background(), archive, filepath.Join(dir, "out"), progress))

	require.NotEmpty(t, fractions)
	assert.Equal(t, 0.0, fractions[0])
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1], "fractions must not go backwards")
	}
	assert.Contains(t, fractions, 0.5)

	require.NotEmpty(t, remaining)
	// After the first entry: 1s for 10 of 20 bytes leaves 1s.
	assert.Equal(t, time.Second, remaining[0])
	assert.Equal(t, time.Duration(0), remaining[len(remaining)-1])
}

func TestZip_ExtractRejectsZipSlip(t *testing.T) {
	dir := t.TempDir()
	archive := writeTestZip(t, dir, "evil.zip", []zipEntry{
		{name: "../evil.txt", body: "pwned"},
	})

	// Depending on the reader's insecure-path policy the archive is either
	// refused on open or the entry is rejected by safeJoin. Both are errors.
	err := NewZip().Extract(context.Background(), archive, filepath.Join(dir, "out"), nil)
	assert.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "evil.txt"))
	assert.True(t, os.IsNotExist(statErr), "entry must not be written outside the output directory")
}

func TestZip_ExtractSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on Windows")
	}

	dir := t.TempDir()
	archive := writeTestZip(t, dir, "links.zip", []zipEntry{
		{name: "bin/git", body: "git", mode: 0o755},
		{name: "bin/git-upload-pack", body: "git", mode: os.ModeSymlink | 0o777},
	})
	out := filepath.Join(dir, "out")

	require.NoError(t, NewZip().Extract(context.Background(), archive, out, nil))

	link, err := os.Readlink(filepath.Join(out, "bin", "git-upload-pack"))
	require.NoError(t, err)
	assert.Equal(t, "git", link)
}

func TestZip_ExtractRejectsEscapingSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on Windows")
	}

	dir := t.TempDir()
	archive := writeTestZip(t, dir, "links.zip", []zipEntry{
		{name: "bin/passwd", body: "../../../etc/passwd", mode: os.ModeSymlink | 0o777},
	})

	err := NewZip().Extract(context.Background(), archive, filepath.Join(dir, "out"), nil)
	assert.ErrorIs(t, err, ErrUnsafePath)
}

func TestZip_ExtractRejectsSymlinkChains(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on Windows")
	}

	tests := []struct {
		name    string
		entries []zipEntry
		escaped string // path relative to the archive dir that must not appear
	}{
		{
			// Each link is inside root on its own, but x resolves through y
			// to the parent of root.
			name: "link chained through an earlier link",
			entries: []zipEntry{
				{name: "y", body: ".", mode: os.ModeSymlink | 0o777},
				{name: "x", body: "y/..", mode: os.ModeSymlink | 0o777},
				{name: "x/evil", body: "pwned"},
			},
			escaped: "evil",
		},
		{
			name: "file written through a directory link",
			entries: []zipEntry{
				{name: "bin/", mode: os.ModeDir | 0o755},
				{name: "lib", body: "bin", mode: os.ModeSymlink | 0o777},
				{name: "lib/git", body: "git"},
			},
		},
		{
			name: "file replacing an earlier link",
			entries: []zipEntry{
				{name: "bin/git", body: "git", mode: 0o755},
				{name: "bin/git-lfs", body: "git", mode: os.ModeSymlink | 0o777},
				{name: "bin/git-lfs", body: "overwrites git through the link"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			archive := writeTestZip(t, dir, "links.zip", tt.entries)

			err := NewZip().Extract(context.Background(), archive, filepath.Join(dir, "out"), nil)
			assert.ErrorIs(t, err, ErrUnsafePath)

			if tt.escaped != "" {
				assert.NoFileExists(t, filepath.Join(dir, tt.escaped))
			}
		})
	}
}

func TestZip_ExtractLinkReplacementLeavesTargetIntact(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on Windows")
	}

	dir := t.TempDir()
	archive := writeTestZip(t, dir, "links.zip", []zipEntry{
		{name: "bin/git", body: "git", mode: 0o755},
		{name: "bin/git-lfs", body: "git", mode: os.ModeSymlink | 0o777},
		{name: "bin/git-lfs", body: "replaced"},
	})
	out := filepath.Join(dir, "out")

	require.ErrorIs(t, NewZip().Extract(context.Background(), archive, out, nil), ErrUnsafePath)

	data, err := os.ReadFile(filepath.Join(out, "bin", "git"))
	require.NoError(t, err)
	assert.Equal(t, "git", string(data))
}

func TestZip_ExtractAllowsLinkChainsInsideRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on Windows")
	}

	dir := t.TempDir()
	archive := writeTestZip(t, dir, "links.zip", []zipEntry{
		{name: "bin/git", body: "git", mode: 0o755},
		{name: "current", body: ".", mode: os.ModeSymlink | 0o777},
		{name: "git-link", body: "current/bin/git", mode: os.ModeSymlink | 0o777},
	})
	out := filepath.Join(dir, "out")

	require.NoError(t, NewZip().Extract(context.Background(), archive, out, nil))

	data, err := os.ReadFile(filepath.Join(out, "git-link"))
	require.NoError(t, err)
	assert.Equal(t, "git", string(data))
}

func TestZip_ExtractCancelled(t *testing.T) {
	dir := t.TempDir()
	archive := writeTestZip(t, dir, "git.zip", []zipEntry{{name: "bin/git", body: "git"}})
	out := filepath.Join(dir, "out")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewZip().Extract(ctx, archive, out, nil)
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "a cancelled extraction must not create the output directory")
}

func TestZip_ExtractMissingArchive(t *testing.T) {
	err := NewZip().Extract(context.Background(), filepath.Join(t.TempDir(), "missing.zip"), t.TempDir(), nil)
	assert.Error(t, err)
}

func TestSafeJoin(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "out")

	tests := []struct {
		name    string
		entry   string
		wantErr bool
	}{
		{"plain file", "bin/git", false},
		{"dot segments inside root", "bin/../etc/gitconfig", false},
		{"parent escape", "../evil", true},
		{"nested escape", "bin/../../evil", true},
		{"backslash escape", `..\evil`, true},
		{"absolute path", "/etc/passwd", true},
		{"dotdot prefix name is fine", "..config", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := safeJoin(root, tt.entry)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsafePath)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
