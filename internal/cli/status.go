package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/portable-git/internal/gitexec"
	"github.com/shinji-kodama/portable-git/internal/installer"
	"github.com/shinji-kodama/portable-git/internal/layout"
	"github.com/shinji-kodama/portable-git/internal/logging"
	"github.com/shinji-kodama/portable-git/internal/model"
)

// statusResult is the output of the status command.
type statusResult struct {
	Layout layout.Layout `json:"layout" yaml:"layout"`

	// Extracted is the installer's own check: both executables exist.
	Extracted bool `json:"extracted" yaml:"extracted"`

	Tools []model.ToolState `json:"tools" yaml:"tools"`
}

// NewStatusCommand creates the "status" cobra command.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the portable Git toolchain is installed",
		Long: `Show the install location, which executables are present and, when
Git is present, the version the installed binaries report.

Examples:
  portable-git status
  portable-git status --output yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadSettings()
			if err != nil {
				return err
			}
			inst, err := newInstaller(cfg, log)
			if err != nil {
				return err
			}

			result := collectStatus(cmd.Context(), inst.Layout(), inst.Presence(), inst.IsExtracted(), log)
			return render(cmd.OutOrStdout(), outputFormat, result, func(w io.Writer) {
				printStatusText(w, result)
			})
		},
	}
}

// collectStatus inspects the layout on disk. A binary that exists but will
// not run is reported present with an empty version.
func collectStatus(ctx context.Context, l layout.Layout, p installer.Presence, extracted bool, log *logging.Logger) statusResult {
	git := model.ToolState{Name: "git", Path: l.GitPath, Present: p.Git}
	lfs := model.ToolState{Name: "git-lfs", Path: l.GitLfsPath, Present: p.GitLfs}
	cfg := model.ToolState{Name: "gitconfig", Path: l.GitConfigPath, Present: p.GitConfig}

	if git.Present {
		runner := gitexec.NewRunner(l.GitPath)

		v, err := runner.Version(ctx)
		if err != nil {
			log.Debug().Err(err).Str("path", l.GitPath).Msg("git version unavailable")
		}
		git.Version = v

		if lfs.Present {
			v, err := runner.LFSVersion(ctx)
			if err != nil {
				log.Debug().Err(err).Str("path", l.GitLfsPath).Msg("git-lfs version unavailable")
			}
			lfs.Version = v
		}
	}

	return statusResult{
		Layout:    l,
		Extracted: extracted,
		Tools:     []model.ToolState{git, lfs, cfg},
	}
}

func printStatusText(w io.Writer, s statusResult) {
	row(w, "package", s.Layout.PackageDir)
	for _, tool := range s.Tools {
		state := "missing"
		if tool.Present {
			state = "present"
		}
		row(w, tool.Name, state+"  "+orDash(tool.Version))
	}
	if s.Extracted {
		row(w, "extracted", "yes")
	} else {
		row(w, "extracted", "no")
	}
}
