// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/pylocate/pylocate/internal/consistency"
	"github.com/pylocate/pylocate/internal/issue"
	"github.com/pylocate/pylocate/pkg/pyenv"
	"github.com/pylocate/pylocate/pkg/types"

	"github.com/spf13/cobra"
)

type (
	validateFlags struct {
		discovered string
		resolved   string
		jsonOutput bool
	}

	// validationEntry is one inaccurate environment in --json output.
	validationEntry struct {
		Executable types.FilesystemPath         `json:"executable"`
		Report     consistency.InaccuracyReport `json:"report"`
	}
)

func newValidateCommand(app *App, s *session) *cobra.Command {
	var flags validateFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Compare discovered environments with resolved ones",
		Long: `Compare discovered environments with resolved ones.

--discovered takes a document written by 'pylocate find --json'.
--resolved takes a document of the same shape describing what each
interpreter reports about itself. Environments are matched by executable
or symlink. The command exits with status 3 when any environment disagrees.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			discovered, err := readDocument(app, s, flags.discovered)
			if err != nil {
				return err
			}
			resolved, err := readDocument(app, s, flags.resolved)
			if err != nil {
				return err
			}

			var entries []validationEntry
			reporter := consistency.ReporterFunc(func(d, _ pyenv.PythonEnvironment, report consistency.InaccuracyReport) {
				entries = append(entries, validationEntry{Executable: d.Executable, Report: report})
			})
			var checkReporter consistency.Reporter = reporter
			if s.flags.verbose {
				checkReporter = multiReporter{reporter, consistency.LogReporter{}}
			}

			resolver := consistency.NewFileResolver(resolved)
			checked := 0
			for _, env := range discovered.Environments {
				_, err := consistency.Check(cmd.Context(), resolver, checkReporter, env)
				if err != nil {
					return err
				}
				if env.Executable != "" {
					checked++
				}
			}

			if flags.jsonOutput {
				if err := writeEntries(app.stdout, entries); err != nil {
					return err
				}
			} else {
				renderValidation(app.stdout, entries, checked)
			}

			if len(entries) == 0 {
				return nil
			}
			if !flags.jsonOutput && s.flags.verbose {
				s.renderIssue(app, issue.InaccurateEnvironmentId)
			}
			return &ExitError{
				Code: types.ExitInaccurate,
				Err:  fmt.Errorf("%d of %d environment(s) inaccurate", len(entries), checked),
			}
		},
	}

	cmd.Flags().StringVar(&flags.discovered, "discovered", "", "document written by 'pylocate find --json'")
	cmd.Flags().StringVar(&flags.resolved, "resolved", "", "document of resolved environments")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "emit inaccuracy reports as JSON")
	_ = cmd.MarkFlagRequired("discovered")
	_ = cmd.MarkFlagRequired("resolved")

	return cmd
}

type multiReporter []consistency.Reporter

func (m multiReporter) ReportInaccuracy(discovered, resolved pyenv.PythonEnvironment, report consistency.InaccuracyReport) {
	for _, r := range m {
		r.ReportInaccuracy(discovered, resolved, report)
	}
}

func readDocument(app *App, s *session, path string) (*consistency.Document, error) {
	doc, err := app.Documents.Read(types.FilesystemPath(path))
	if err == nil {
		return doc, nil
	}

	ctx := issue.NewErrorContext().
		WithOperation("read environment document").
		WithResource(path)
	switch {
	case errors.Is(err, consistency.ErrInvalidDocument):
		ctx.WithIssue(issue.DocumentInvalidId).
			WithSuggestion("Regenerate the discovered document with 'pylocate find --json'")
	case errors.Is(err, fs.ErrPermission):
		ctx.WithIssue(issue.PermissionDeniedId)
	case errors.Is(err, fs.ErrNotExist):
		ctx.WithSuggestion("Check the path for typos")
	}
	err = ctx.Wrap(err).Build()
	s.renderIssueFor(app, err)
	return nil, err
}

func writeEntries(w io.Writer, entries []validationEntry) error {
	if entries == nil {
		entries = []validationEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

func renderValidation(w io.Writer, entries []validationEntry, total int) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "%s %d environment(s) consistent\n", SuccessStyle.Render("✓"), total)
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s %s\n", ErrorStyle.Render("✗"), CmdStyle.Render(e.Executable.String()), SubtitleStyle.Render("("+e.Report.Kind.CLIName()+")"))
		fmt.Fprintf(w, "    %s\n", strings.Join(failedChecks(e.Report), ", "))
	}
}

func failedChecks(r consistency.InaccuracyReport) []string {
	var checks []string
	if r.InvalidExecutable {
		checks = append(checks, "invalidExecutable")
	}
	if r.ExecutableNotInSymlinks {
		checks = append(checks, "executableNotInSymlinks")
	}
	if r.InvalidPrefix {
		checks = append(checks, "invalidPrefix")
	}
	if r.InvalidVersion != nil && *r.InvalidVersion {
		checks = append(checks, "invalidVersion")
	}
	if r.InvalidArch {
		checks = append(checks, "invalidArch")
	}
	return checks
}
