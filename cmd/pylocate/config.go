// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/pylocate/pylocate/internal/config"
	"github.com/pylocate/pylocate/internal/issue"
	"github.com/pylocate/pylocate/pkg/types"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `pylocate config` command tree.
func newConfigCommand(app *App, s *session) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pylocate configuration",
		Long: `Manage pylocate configuration.

Configuration is stored in:
  - Linux: ~/.config/pylocate/config.cue
  - macOS: ~/Library/Application Support/pylocate/config.cue
  - Windows: %LOCALAPPDATA%\pylocate\config.cue

PYLOCATE_CONDA_EXECUTABLE, PYLOCATE_ENVIRONMENT_DIRECTORIES,
PYLOCATE_WORKSPACE_ONLY, PYLOCATE_CONCURRENCY, PYLOCATE_UI_VERBOSE and
PYLOCATE_UI_COLOR_SCHEME override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, s)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			fmt.Fprintf(app.stdout, "%s Configuration file at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			path, err := config.ConfigFilePath()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
			fmt.Fprintf(app.stdout, "Config file: %s\n", path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), loadOptions(s))
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Output the configuration schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(app.stdout, config.Schema())
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "check [file]",
		Short: "Validate a configuration file against the schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := s.flags.cfgFile
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				var err error
				if path, err = config.ConfigFilePath(); err != nil {
					return err
				}
			}
			if _, err := config.Check(path); err != nil {
				s.renderIssue(app, issue.ConfigLoadFailedId)
				return err
			}
			fmt.Fprintf(app.stdout, "%s %s is valid\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	return cfgCmd
}

func loadOptions(s *session) config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: types.FilesystemPath(s.flags.cfgFile)}
}

func showConfig(ctx context.Context, app *App, s *session) error {
	cfg, path, err := config.Resolve(ctx, loadOptions(s))
	if err != nil {
		s.renderIssue(app, issue.ConfigLoadFailedId)
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	printList := func(key string, values []string) {
		fmt.Fprintf(w, "%s:\n", keyStyle.Render(key))
		if len(values) == 0 {
			fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
			return
		}
		for _, v := range values {
			fmt.Fprintf(w, "  - %s\n", valueStyle.Render(v))
		}
	}

	printList("search_paths", cfg.SearchPaths)
	printList("environment_directories", cfg.EnvironmentDirectories)
	conda := cfg.CondaExecutable
	if conda == "" {
		conda = "(search PATH)"
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("conda_executable"), valueStyle.Render(conda))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("workspace_only"), valueStyle.Render(fmt.Sprintf("%v", cfg.WorkspaceOnly)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("concurrency"), valueStyle.Render(fmt.Sprintf("%d", cfg.Concurrency)))
	kinds := "(all)"
	if len(cfg.Kinds) > 0 {
		kinds = strings.Join(cfg.Kinds, ", ")
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("kinds"), valueStyle.Render(kinds))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}
