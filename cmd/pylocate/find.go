// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/pylocate/pylocate/internal/consistency"
	"github.com/pylocate/pylocate/internal/discovery"
	"github.com/pylocate/pylocate/internal/issue"
	"github.com/pylocate/pylocate/pkg/fspath"
	"github.com/pylocate/pylocate/pkg/pyenv"
	"github.com/pylocate/pylocate/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

type findFlags struct {
	jsonOutput      bool
	kinds           []string
	workspaceOnly   bool
	condaExecutable string
	envDirs         []string
	concurrency     int
}

func newFindCommand(app *App, s *session) *cobra.Command {
	var flags findFlags

	cmd := &cobra.Command{
		Use:   "find [search-path...]",
		Short: "Discover Python environments",
		Long: `Discover Python environments.

Search paths are scanned along with their immediate subdirectories and
may be glob patterns. Without arguments the working directory is used.
Conda installations, PATH entries and configured environment directories
are always consulted unless --workspace-only is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildFindRequest(s, flags, args, cmd.Flags().Changed("workspace-only"), cmd.Flags().Changed("concurrency"))
			if err != nil {
				return err
			}

			if req.CondaExecutable != "" && !fspath.IsFile(req.CondaExecutable) {
				slog.Warn("configured conda executable not found", "path", req.CondaExecutable)
				if s.flags.verbose {
					s.renderIssue(app, issue.CondaNotFoundId)
				}
			}

			result, err := app.Discovery.Find(cmd.Context(), req)
			if err != nil {
				return err
			}

			renderDiagnostics(app, s, result.Diagnostics)

			if flags.jsonOutput {
				return writeDocument(app.stdout, result)
			}
			if len(result.Environments) == 0 {
				s.renderIssue(app, issue.NoEnvironmentsFoundId)
				return nil
			}
			renderEnvironments(app.stdout, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "emit a JSON document")
	cmd.Flags().StringSliceVar(&flags.kinds, "kind", nil, "only report these kinds (conda, windows-registry, venv, virtual-env)")
	cmd.Flags().BoolVar(&flags.workspaceOnly, "workspace-only", false, "skip global enumeration and PATH scanning")
	cmd.Flags().StringVar(&flags.condaExecutable, "conda-executable", "", "conda or mamba binary to use")
	cmd.Flags().StringSliceVar(&flags.envDirs, "environment-directories", nil, "extra directories holding conda environments")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0, "maximum parallel classifications (0 uses the CPU count)")

	return cmd
}

// buildFindRequest merges flags over configuration. Search paths and
// environment directories from both sources are combined.
func buildFindRequest(s *session, flags findFlags, args []string, workspaceSet, concurrencySet bool) (FindRequest, error) {
	cfg := s.cfg

	req := FindRequest{
		SearchPaths:            types.PathsFromStrings(args),
		EnvironmentDirectories: types.PathsFromStrings(slices.Concat(flags.envDirs, cfg.EnvironmentDirectories)),
		CondaExecutable:        types.FilesystemPath(cfg.CondaExecutable),
		WorkspaceOnly:          cfg.WorkspaceOnly,
		Concurrency:            cfg.Concurrency,
	}
	if len(req.SearchPaths) > 0 || len(cfg.SearchPaths) > 0 {
		if len(req.SearchPaths) == 0 {
			req.SearchPaths = append(req.SearchPaths, ".")
		}
		req.SearchPaths = append(req.SearchPaths, types.PathsFromStrings(cfg.SearchPaths)...)
	}
	if flags.condaExecutable != "" {
		req.CondaExecutable = types.FilesystemPath(flags.condaExecutable)
	}
	if workspaceSet {
		req.WorkspaceOnly = flags.workspaceOnly
	}
	if concurrencySet {
		if flags.concurrency < 0 {
			return FindRequest{}, fmt.Errorf("--concurrency must not be negative, got %d", flags.concurrency)
		}
		req.Concurrency = flags.concurrency
	}

	kindNames := cfg.Kinds
	if len(flags.kinds) > 0 {
		kindNames = flags.kinds
	}
	for _, name := range kindNames {
		k, err := pyenv.ParseKind(name)
		if err != nil {
			return FindRequest{}, err
		}
		req.Kinds = append(req.Kinds, k)
	}

	return req, nil
}

// writeDocument emits the result in the document form read by validate.
func writeDocument(w io.Writer, result *discovery.Result) error {
	doc := consistency.Document{
		Managers:     result.Managers,
		Environments: result.Environments,
	}
	if doc.Managers == nil {
		doc.Managers = []pyenv.EnvManager{}
	}
	if doc.Environments == nil {
		doc.Environments = []pyenv.PythonEnvironment{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

func renderEnvironments(w io.Writer, result *discovery.Result) {
	rows := make([][]string, 0, len(result.Environments))
	for _, env := range result.Environments {
		location := env.Executable.String()
		if location == "" {
			location = env.Prefix.String()
		}
		manager := ""
		if env.Manager != nil {
			manager = string(env.Manager.Type)
		}
		rows = append(rows, []string{env.Kind.CLIName(), env.Name, env.Version, location, manager})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		Headers("KIND", "NAME", "VERSION", "LOCATION", "MANAGER").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, SubtitleStyle.Render(fmt.Sprintf("%d environment(s), %d manager(s)", len(result.Environments), len(result.Managers))))
}

// renderDiagnostics logs each diagnostic and, in verbose mode, shows the
// catalog entry for each distinct code once.
func renderDiagnostics(app *App, s *session, diags []discovery.Diagnostic) {
	shown := make(map[issue.Id]bool)
	for _, d := range diags {
		fmt.Fprintf(app.stderr, "%s %s\n", WarningStyle.Render(string(d.Severity)+":"), d.Message)
		if !s.flags.verbose {
			continue
		}
		id, ok := diagnosticIssues[d.Code]
		if !ok || shown[id] {
			continue
		}
		shown[id] = true
		s.renderIssue(app, id)
	}
}

var diagnosticIssues = map[string]issue.Id{
	discovery.CodeSearchRootGlobInvalid: issue.SearchPatternInvalidId,
	discovery.CodeSearchRootMissing:     issue.SearchRootMissingId,
	discovery.CodeSearchRootUnreadable:  issue.SearchRootUnreadableId,
}
