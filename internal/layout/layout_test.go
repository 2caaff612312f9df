package layout

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNew verifies the destination paths for both platform families.
func TestNew(t *testing.T) {
	root := filepath.Join("data", "local")
	pkgDir := filepath.Join(root, "Editor", "PortableGit_"+Version)

	tests := []struct {
		name    string
		windows bool
		want    Layout
	}{
		{
			name:    "unix shape",
			windows: false,
			want: Layout{
				PackageDir:    pkgDir,
				GitPath:       filepath.Join(pkgDir, "bin", "git"),
				GitLfsPath:    filepath.Join(pkgDir, "libexec", "git-core", "git-lfs"),
				GitConfigPath: filepath.Join(pkgDir, "etc", "gitconfig"),
				LockPath:      pkgDir + ".lock",
			},
		},
		{
			name:    "windows shape",
			windows: true,
			want: Layout{
				PackageDir:    pkgDir,
				GitPath:       filepath.Join(pkgDir, "cmd", "git.exe"),
				GitLfsPath:    filepath.Join(pkgDir, "mingw32", "libexec", "git-core", "git-lfs.exe"),
				GitConfigPath: filepath.Join(pkgDir, "mingw32", "etc", "gitconfig"),
				LockPath:      pkgDir + ".lock",
				Windows:       true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(root, "Editor", tt.windows))
		})
	}
}

// TestNew_Deterministic checks that the same inputs always give the same
// Layout and that different roots never share a package directory.
func TestNew_Deterministic(t *testing.T) {
	a := New("/a", "Editor", false)
	assert.Equal(t, a, New("/a", "Editor", false))
	assert.NotEqual(t, a.PackageDir, New("/b", "Editor", false).PackageDir)
	assert.NotEqual(t, a.PackageDir, New("/a", "Other", false).PackageDir)
}

// TestNew_PlatformFlagOnlyChangesShape flips the platform flag and checks
// that the package directory itself is unaffected.
func TestNew_PlatformFlagOnlyChangesShape(t *testing.T) {
	unix := New("/root", "Editor", false)
	win := New("/root", "Editor", true)

	assert.Equal(t, unix.PackageDir, win.PackageDir)
	assert.Equal(t, unix.LockPath, win.LockPath)
	assert.Equal(t, "bin", filepath.Base(filepath.Dir(unix.GitPath)))
	assert.Equal(t, "cmd", filepath.Base(filepath.Dir(win.GitPath)))
	assert.NotContains(t, unix.GitLfsPath, "mingw32")
	assert.Contains(t, win.GitLfsPath, "mingw32")
	assert.NotContains(t, unix.GitConfigPath, "mingw32")
	assert.Contains(t, win.GitConfigPath, "mingw32")
}

func TestNew_DefaultAppName(t *testing.T) {
	l := New("/root", "", false)
	assert.Equal(t, filepath.Join("/root", DefaultAppName, PackageNameWithVersion()), l.PackageDir)
}

func TestExecutableName(t *testing.T) {
	assert.Equal(t, "git.exe", ExecutableName("git", true))
	assert.Equal(t, "git", ExecutableName("git", false))
}
