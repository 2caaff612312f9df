// Package cli implements the cobra-based CLI commands for portable-git.
//
// Each subcommand (install, status, paths) is defined in its own file
// within this package. This file defines the root command that serves as
// the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/portable-git/internal/config"
	"github.com/shinji-kodama/portable-git/internal/environment"
	"github.com/shinji-kodama/portable-git/internal/installer"
	"github.com/shinji-kodama/portable-git/internal/logging"
	"github.com/shinji-kodama/portable-git/internal/model"
	"github.com/shinji-kodama/portable-git/internal/resource"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command.
var (
	// outputFlag is the raw --output value; outputFormat is the parsed form
	// set in PersistentPreRunE.
	outputFlag   string
	outputFormat = model.OutputText

	// verbose forces debug-level logging.
	verbose bool

	// configFile is an explicit config path. Empty means the default search.
	configFile string
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action. It only provides
// help text and global flags; install, status and paths do the work.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "portable-git",
		Short: "Install a private, portable Git and Git LFS",
		Long: `portable-git unpacks a bundled Git distribution and the Git LFS
extension into a per-user application-data directory, so an editor or other
host application has a working Git toolchain without a system-wide install.

The install location is versioned:
  <LocalAppData>/<AppName>/PortableGit_<version>/`,

		// Errors are printed by Execute in the selected output format.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseOutputFormat(outputFlag)
			if err != nil {
				return model.WrapCLIError(model.ExitGeneralError, "invalid --output", err)
			}
			outputFormat = f
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", model.OutputText.String(),
		"Output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Config file (default: config.yaml in the user config dir or working dir)")

	rootCmd.AddCommand(NewInstallCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewPathsCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(int(exitCodeFor(err)))
	}
}

// exitCodeFor maps an error to its process exit code. CLIError values
// anywhere in the chain carry their own code; anything else is a general
// error.
func exitCodeFor(err error) model.ExitCode {
	if err == nil {
		return model.ExitSuccess
	}
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return model.ExitGeneralError
}

// errorBody is the structured form of an error for json and yaml output.
type errorBody struct {
	Error errorDetail `json:"error" yaml:"error"`
}

type errorDetail struct {
	Message string `json:"message" yaml:"message"`
	Detail  string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Code    int    `json:"code" yaml:"code"`
}

// printError outputs an error in the selected output format. Errors always
// go to stderr; stdout is reserved for command results.
func printError(w io.Writer, err error) {
	detail := errorDetail{Message: err.Error(), Code: int(exitCodeFor(err))}
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		detail.Message = cliErr.Message
		if cliErr.Err != nil {
			detail.Detail = cliErr.Err.Error()
		}
	}

	switch outputFormat {
	case model.OutputJSON:
		data, _ := json.MarshalIndent(errorBody{Error: detail}, "", "  ")
		fmt.Fprintln(w, string(data))
	case model.OutputYAML:
		data, _ := yaml.Marshal(errorBody{Error: detail})
		fmt.Fprint(w, string(data))
	default:
		if detail.Detail != "" {
			fmt.Fprintf(w, "Error: %s: %s\n", detail.Message, detail.Detail)
		} else {
			fmt.Fprintf(w, "Error: %s\n", detail.Message)
		}
	}
}

// loadSettings loads the configuration and builds the logger every
// subcommand uses.
func loadSettings() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, model.WrapCLIError(model.ExitConfigError, "failed to load configuration", err)
	}

	log := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Verbose: verbose,
	})
	return cfg, log, nil
}

// newInstaller builds an installer for the current machine from cfg.
func newInstaller(cfg *config.Config, log *logging.Logger) (*installer.Installer, error) {
	env := environment.NewOS(cfg.ExtensionDir, cfg.LocalAppData)

	inst, err := installer.New(env,
		installer.WithAppName(cfg.AppName),
		installer.WithTempDir(cfg.TempDir),
		installer.WithLocator(resource.NewDirBundle(cfg.ResourceDir, env.Platform())),
		installer.WithLogger(log.WithComponent("installer")),
	)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitEnvironmentError, "failed to resolve install location", err)
	}
	return inst, nil
}
