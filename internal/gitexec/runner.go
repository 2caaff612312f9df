package gitexec

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/shinji-kodama/portable-git/internal/model"
)

// ErrNoVersion is returned when git output carries no recognizable version.
var ErrNoVersion = errors.New("no version in output")

// Runner invokes one git executable.
type Runner struct {
	gitPath string
}

// NewRunner returns a Runner for the git executable at gitPath.
func NewRunner(gitPath string) *Runner {
	return &Runner{gitPath: gitPath}
}

// Path returns the executable the Runner invokes.
func (r *Runner) Path() string {
	return r.gitPath
}

// Run executes git with args and returns its stdout.
//
// Stdout and stderr are captured separately; stderr is folded into the
// error message on failure.
func (r *Runner) Run(ctx context.Context, args ...string) (string, error) {
	// #nosec G204 -- gitPath comes from the computed install layout
	cmd := exec.CommandContext(ctx, r.gitPath, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
		if s := strings.TrimSpace(stderr.String()); s != "" {
			message = fmt.Sprintf("%s: %s", message, s)
		}
		return "", model.WrapCLIError(model.ExitGitError, message, err)
	}

	return stdout.String(), nil
}

// Version runs `git --version` and returns the parsed version number.
func (r *Runner) Version(ctx context.Context) (string, error) {
	out, err := r.Run(ctx, "--version")
	if err != nil {
		return "", err
	}
	v, err := ParseVersion(out)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGitError, "unexpected git --version output", err)
	}
	return v, nil
}

// LFSVersion runs `git lfs version`. git finds git-lfs through its exec
// path, so success also shows that the extension landed where git looks.
func (r *Runner) LFSVersion(ctx context.Context) (string, error) {
	out, err := r.Run(ctx, "lfs", "version")
	if err != nil {
		return "", err
	}
	v, err := ParseLFSVersion(out)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGitError, "unexpected git lfs version output", err)
	}
	return v, nil
}

var (
	gitVersionRe = regexp.MustCompile(`git version (\d+(?:\.\d+)*)`)
	lfsVersionRe = regexp.MustCompile(`git-lfs/(\d+(?:\.\d+)*)`)
)

// ParseVersion extracts the dotted version from `git --version` output.
// Vendor suffixes are dropped: "git version 2.45.1.windows.1" gives "2.45.1".
func ParseVersion(output string) (string, error) {
	return match(gitVersionRe, output)
}

// ParseLFSVersion extracts the version from `git lfs version` output, e.g.
// "git-lfs/3.4.0 (GitHub; windows amd64; go 1.21.1)" gives "3.4.0".
func ParseLFSVersion(output string) (string, error) {
	return match(lfsVersionRe, output)
}

func match(re *regexp.Regexp, output string) (string, error) {
	m := re.FindStringSubmatch(output)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrNoVersion, strings.TrimSpace(output))
	}
	return m[1], nil
}
