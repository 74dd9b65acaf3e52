// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pylocate/pylocate/internal/config"
	"github.com/pylocate/pylocate/internal/issue"
	"github.com/pylocate/pylocate/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// rootFlags holds persistent flag values for one invocation.
	rootFlags struct {
		verbose bool
		cfgFile string
	}

	// session carries what the root command resolved before a subcommand runs.
	session struct {
		flags        rootFlags
		cfg          *config.Config
		glamourStyle string
	}
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "pylocate",
		Short: "Find Python environments on this machine",
		Long: TitleStyle.Render("pylocate") + SubtitleStyle.Render(" - Find Python environments on this machine") + `

pylocate discovers Python interpreters and the environments that own them:
conda and mamba environments, venv and virtualenv directories, and
Windows registry installations.

` + SubtitleStyle.Render("Examples:") + `
  pylocate find                      Discover environments from the working directory
  pylocate find ~/work --json        Emit a JSON document
  pylocate find --kind conda         Only report conda environments
  pylocate validate --discovered a.json --resolved b.json
  pylocate config show               Show current configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load(cmd.Context(), app)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&s.flags.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&s.flags.cfgFile, "config", "", "config file (default is <config dir>/pylocate/config.cue)")

	rootCmd.AddCommand(newFindCommand(app, s))
	rootCmd.AddCommand(newValidateCommand(app, s))
	rootCmd.AddCommand(newConfigCommand(app, s))

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	return rootCmd
}

// load reads configuration and installs the logger. Config errors are
// surfaced as warnings so discovery still runs on defaults; the config
// subcommands report them as failures themselves.
func (s *session) load(ctx context.Context, app *App) error {
	cfg, loadErr := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(s.flags.cfgFile)})
	if loadErr != nil {
		fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(loadErr, s.flags.verbose))
		cfg = config.DefaultConfig()
	}
	s.cfg = cfg

	if !s.flags.verbose {
		s.flags.verbose = cfg.UI.Verbose
	}
	s.glamourStyle = applyColorScheme(cfg.UI.ColorScheme, app.stderr)
	slog.SetDefault(newLogger(app.stderr, s.flags.verbose))

	if loadErr != nil && s.flags.verbose {
		s.renderIssueFor(app, loadErr)
	}
	return nil
}

// renderIssueFor renders the catalog entry linked from err, if any.
func (s *session) renderIssueFor(app *App, err error) {
	if id := issue.IssueOf(err); id != 0 {
		s.renderIssue(app, id)
	}
}

// renderIssue writes the catalog entry for id to the app's stderr.
func (s *session) renderIssue(app *App, id issue.Id) {
	iss := issue.Get(id)
	if iss == nil {
		return
	}
	rendered, err := iss.Render(s.glamourStyle)
	if err != nil {
		slog.Debug("failed to render issue", "id", id, "error", err)
		return
	}
	fmt.Fprint(app.stderr, rendered)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process. It is called by main.main().
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors use their Format method; verbose mode shows the full chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
