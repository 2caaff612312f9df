package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/portable-git/internal/extract"
	"github.com/shinji-kodama/portable-git/internal/installer"
	"github.com/shinji-kodama/portable-git/internal/model"
)

// NewInstallCommand creates the "install" cobra command.
func NewInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Extract the bundled Git and Git LFS into place",
		Long: `Extract the bundled Git distribution and the Git LFS extension into the
per-user package directory, then copy the generic gitconfig template.

Steps that find their destination already present are skipped, so running
install again is safe. Concurrent installs into the same directory wait on
a lock file for up to lock_timeout.

Examples:
  portable-git install
  portable-git install --config ~/editor/portable-git.json --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runInstall(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// runInstall is the main logic function for the install command.
func runInstall(ctx context.Context, stdout, stderr io.Writer) error {
	cfg, log, err := loadSettings()
	if err != nil {
		return err
	}

	inst, err := newInstaller(cfg, log)
	if err != nil {
		return err
	}

	unlock, err := acquireInstallLock(ctx, inst.Layout().LockPath, cfg.LockTimeout)
	if err != nil {
		return err
	}
	defer unlock()

	// The bar only makes sense next to human-readable output.
	var progress *extract.Progress
	if outputFormat == model.OutputText {
		bar := newBarProgress(stderr)
		defer bar.finish()
		progress = bar.Progress()
	}

	report, err := inst.Run(ctx, progress)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return model.WrapCLIError(model.ExitUserCancelled, "installation cancelled", err)
		}
		return model.WrapCLIError(model.ExitGeneralError, "installation aborted", err)
	}

	if err := render(stdout, outputFormat, report, func(w io.Writer) {
		printReportText(w, report)
	}); err != nil {
		return err
	}

	if !report.Complete() {
		msg := "installation incomplete"
		if report.Failure != "" {
			msg += ": " + report.Failure
		}
		return model.NewCLIError(model.ExitInstallFailed, msg)
	}
	return nil
}

func printReportText(w io.Writer, r *installer.Report) {
	row(w, "package", r.Layout.PackageDir)
	if r.AlreadyValid {
		row(w, "state", "already valid, nothing to do")
		return
	}
	row(w, "git", r.Git.String())
	row(w, "git-lfs", r.GitLfs.String())
	row(w, "gitconfig", r.GitConfig.String())
	if r.Failure != "" {
		row(w, "failure", r.Failure)
	}
	if r.Complete() {
		row(w, "result", "complete")
	} else {
		row(w, "result", "incomplete")
	}
}
