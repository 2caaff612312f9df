package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/portable-git/internal/layout"
)

// NewPathsCommand creates the "paths" cobra command.
func NewPathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the install destination paths",
		Long: `Print where portable-git installs Git, Git LFS and the system gitconfig.
Nothing is read or written; the paths are computed from the configuration.

Examples:
  portable-git paths
  portable-git paths --output json`,
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
			l := inst.Layout()
			return render(cmd.OutOrStdout(), outputFormat, l, func(w io.Writer) {
				printLayoutText(w, l)
			})
		},
	}
}

func printLayoutText(w io.Writer, l layout.Layout) {
	row(w, "package", l.PackageDir)
	row(w, "git", l.GitPath)
	row(w, "git-lfs", l.GitLfsPath)
	row(w, "gitconfig", l.GitConfigPath)
	row(w, "lock", l.LockPath)
}
