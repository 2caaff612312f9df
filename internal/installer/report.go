package installer

import "github.com/shinji-kodama/portable-git/internal/layout"

// Outcome is the result of one install step.
type Outcome string

const (
	// OutcomeInstalled means the artifact was extracted (or copied) into place.
	OutcomeInstalled Outcome = "installed"

	// OutcomeAlreadyPresent means the destination already existed and the
	// step did nothing.
	OutcomeAlreadyPresent Outcome = "already-present"

	// OutcomeResourceMissing means no bundled archive or template was found.
	OutcomeResourceMissing Outcome = "resource-missing"

	// OutcomeExtractFailed means the extractor returned an error or panicked.
	OutcomeExtractFailed Outcome = "extract-failed"

	// OutcomeCopyFailed means copying into the package directory failed.
	OutcomeCopyFailed Outcome = "copy-failed"

	// OutcomeSkipped means the step never ran.
	OutcomeSkipped Outcome = "skipped"
)

// String returns the string representation of Outcome.
func (o Outcome) String() string {
	return string(o)
}

// Report is the detailed result of Run.
//
// GitOK and GitLfsOK are the boolean results of the two extraction steps
// exactly as ExtractGitIfNeeded and ExtractGitLfsIfNeeded return them. In
// particular GitLfsOK is false when git-lfs was already present.
type Report struct {
	Layout layout.Layout `json:"layout" yaml:"layout"`

	// AlreadyValid is set when the validity check short-circuited the run.
	AlreadyValid bool `json:"alreadyValid" yaml:"alreadyValid"`

	Git       Outcome `json:"git" yaml:"git"`
	GitLfs    Outcome `json:"gitLfs" yaml:"gitLfs"`
	GitConfig Outcome `json:"gitConfig" yaml:"gitConfig"`

	GitOK    bool `json:"gitOk" yaml:"gitOk"`
	GitLfsOK bool `json:"gitLfsOk" yaml:"gitLfsOk"`

	// Failure describes an unexpected error that aborted the run (for
	// example, the temporary directory could not be created).
	Failure string `json:"failure,omitempty" yaml:"failure,omitempty"`

	// Success is the overall boolean result returned by Setup.
	Success bool `json:"success" yaml:"success"`
}

func newReport(l layout.Layout) *Report {
	return &Report{
		Layout:    l,
		Git:       OutcomeSkipped,
		GitLfs:    OutcomeSkipped,
		GitConfig: OutcomeSkipped,
	}
}

// Complete reports whether both executables are in place after the run,
// whether this run put them there or found them already present. Unlike
// Success it is true on a repeated run over a finished install.
func (r *Report) Complete() bool {
	if r.AlreadyValid {
		return true
	}
	if r.Failure != "" {
		return false
	}
	return inPlace(r.Git) && inPlace(r.GitLfs)
}

func inPlace(o Outcome) bool {
	return o == OutcomeInstalled || o == OutcomeAlreadyPresent
}
