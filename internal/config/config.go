// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pylocate/pylocate/internal/issue"
	"github.com/pylocate/pylocate/pkg/cueutil"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "pylocate"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "PYLOCATE"
	// EnvEnvironmentDirectories holds an OS path list of conda environment directories.
	EnvEnvironmentDirectories = EnvPrefix + "_ENVIRONMENT_DIRECTORIES"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the pylocate configuration directory under the XDG config
// home (~/.config on Linux, ~/Library/Application Support on macOS,
// %LOCALAPPDATA% on Windows).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	if xdg.ConfigHome == "" {
		return "", fmt.Errorf("failed to resolve config home directory")
	}
	return filepath.Join(xdg.ConfigHome, AppName), nil
}

// ConfigFilePath returns the default config file location.
func ConfigFilePath() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// Resolve loads configuration and reports which file supplied it. The path
// is empty when only defaults and environment overrides apply.
func Resolve(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	return loadWithOptions(ctx, opts)
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("search_paths", defaults.SearchPaths)
	v.SetDefault("environment_directories", defaults.EnvironmentDirectories)
	v.SetDefault("conda_executable", defaults.CondaExecutable)
	v.SetDefault("workspace_only", defaults.WorkspaceOnly)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("kinds", defaults.Kinds)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{"conda_executable", "workspace_only", "concurrency", "ui.verbose", "ui.color_scheme"} {
		if err := v.BindEnv(key); err != nil {
			return nil, "", fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		path := string(opts.ConfigFilePath)
		if !fileExists(path) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion(
					"Verify the file path is correct",
					"Use 'pylocate config show' to see default configuration",
				).
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", path)).
				Build()
		}
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", invalidFileError(path, err)
		}
		resolvedPath = path
	} else {
		cfgDir, err := configDirWithOverride(string(opts.ConfigDirPath))
		if err != nil {
			return nil, "", err
		}

		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		localCuePath := ConfigFileName + "." + ConfigFileExt
		switch {
		case fileExists(cuePath):
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", invalidFileError(cuePath, err)
			}
			resolvedPath = cuePath
		case fileExists(localCuePath):
			if err := loadCUEIntoViper(v, localCuePath); err != nil {
				return nil, "", invalidFileError(localCuePath, err)
			}
			resolvedPath = localCuePath
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// The path list uses the OS separator, which viper's comma splitting
	// does not understand.
	if raw, ok := os.LookupEnv(EnvEnvironmentDirectories); ok && raw != "" {
		cfg.EnvironmentDirectories = filepath.SplitList(raw)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion(
				"Check the PYLOCATE_* environment variables for malformed values",
				"Run 'pylocate config dump' to see the accepted keys",
			).
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errs[0]).
			Build()
	}

	return &cfg, resolvedPath, nil
}

func invalidFileError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion(
			"Check that the file contains valid CUE syntax",
			"Run 'pylocate config schema' to see the accepted keys",
		).
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(err).
		Build()
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Config decodes to map[string]any rather than a struct so viper keeps its
// defaults and environment bindings for keys the file leaves unset.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	schema, err := cueutil.Compile(configSchema, "#Config")
	if err != nil {
		return err
	}
	configMap, err := cueutil.Decode[map[string]any](schema, path, data)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// Check validates a config file against the schema without applying
// defaults or environment overrides.
func Check(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("check configuration").
			WithResource(path).
			WithSuggestion("Check that the file exists and is readable").
			Wrap(err).
			Build()
	}

	schema, err := cueutil.Compile(configSchema, "#Config")
	if err != nil {
		return nil, err
	}
	cfg, err := cueutil.Decode[Config](schema, path, data)
	if err != nil {
		return nil, invalidFileError(path, err)
	}
	return cfg, nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default config file if none exists and
// returns its path.
func CreateDefaultConfig() (string, error) {
	cfgPath, err := ConfigFilePath()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// pylocate configuration file\n\n")

	writeList(&sb, "search_paths", cfg.SearchPaths)
	writeList(&sb, "environment_directories", cfg.EnvironmentDirectories)
	if cfg.CondaExecutable != "" {
		fmt.Fprintf(&sb, "conda_executable: %q\n", cfg.CondaExecutable)
	}
	fmt.Fprintf(&sb, "workspace_only: %v\n", cfg.WorkspaceOnly)
	fmt.Fprintf(&sb, "concurrency: %d\n", cfg.Concurrency)
	writeList(&sb, "kinds", cfg.Kinds)

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

func writeList(sb *strings.Builder, key string, values []string) {
	if len(values) == 0 {
		fmt.Fprintf(sb, "%s: []\n", key)
		return
	}
	fmt.Fprintf(sb, "%s: [\n", key)
	for _, v := range values {
		fmt.Fprintf(sb, "\t%q,\n", v)
	}
	sb.WriteString("]\n")
}

// Schema returns the embedded CUE schema source.
func Schema() string { return configSchema }
