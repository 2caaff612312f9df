package resource

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBundle() fstest.MapFS {
	return fstest.MapFS{
		"linux/git.zip":     {Data: []byte("linux-git")},
		"windows/git.zip":   {Data: []byte("windows-git")},
		"generic/gitconfig": {Data: []byte("[core]\n\tautocrlf = input\n")},
		"linux/nested":      {Mode: os.ModeDir},
	}
}

func TestBundle_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		kind     Kind
		filename string
		want     string
	}{
		{"platform resource", "linux", Platform, "git.zip", "linux-git"},
		{"other platform", "windows", Platform, "git.zip", "windows-git"},
		{"generic resource", "linux", Generic, "gitconfig", "[core]\n\tautocrlf = input\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "out")
			b := NewBundle(testBundle(), tt.platform)

			got, err := b.Resolve(tt.kind, tt.filename, dest)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dest, tt.filename), got)

			data, err := os.ReadFile(got)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestBundle_ResolveNotFound(t *testing.T) {
	tests := []struct {
		name     string
		bundle   *Bundle
		kind     Kind
		filename string
	}{
		{"missing file", NewBundle(testBundle(), "linux"), Platform, "git-lfs.zip"},
		{"missing platform", NewBundle(testBundle(), "mac"), Platform, "git.zip"},
		{"directory entry", NewBundle(testBundle(), "linux"), Platform, "nested"},
		{"no bundle", NewBundle(nil, "linux"), Platform, "git.zip"},
		{"empty dir bundle", NewDirBundle("", "linux"), Generic, "gitconfig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := t.TempDir()
			_, err := tt.bundle.Resolve(tt.kind, tt.filename, dest)
			assert.ErrorIs(t, err, ErrNotFound)

			entries, readErr := os.ReadDir(dest)
			require.NoError(t, readErr)
			assert.Empty(t, entries, "nothing should be copied for a missing resource")
		})
	}
}

func TestBundle_ResolveInvalidName(t *testing.T) {
	b := NewBundle(testBundle(), "linux")

	_, err := b.Resolve(Platform, "../escape.zip", t.TempDir())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = NewBundle(testBundle(), "").Resolve(Platform, "git.zip", t.TempDir())
	assert.Error(t, err)
}

func TestNewDirBundle(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "mac"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "mac", "git-lfs.zip"), []byte("lfs"), 0o644))

	got, err := NewDirBundle(root, "mac").Resolve(Platform, "git-lfs.zip", filepath.Join(t.TempDir(), "tmp"))
	require.NoError(t, err)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "lfs", string(data))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "platform", Platform.String())
	assert.Equal(t, "generic", Generic.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
