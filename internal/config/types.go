// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pylocate/pylocate/pkg/pyenv"
	"github.com/pylocate/pylocate/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// MaxConcurrency bounds the concurrency setting.
	MaxConcurrency = 256
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConcurrency is returned when the concurrency setting is out of range.
	ErrInvalidConcurrency = errors.New("invalid concurrency")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError aggregates field validation errors.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// SearchPaths are scanned for environments in addition to the working directory.
		SearchPaths []string `json:"search_paths" mapstructure:"search_paths"`
		// EnvironmentDirectories hold conda environments as immediate children.
		EnvironmentDirectories []string `json:"environment_directories" mapstructure:"environment_directories"`
		// CondaExecutable pins the conda or mamba binary.
		CondaExecutable string `json:"conda_executable" mapstructure:"conda_executable"`
		// WorkspaceOnly skips global enumeration and PATH scanning.
		WorkspaceOnly bool `json:"workspace_only" mapstructure:"workspace_only"`
		// Concurrency bounds parallel classification; 0 uses the CPU count.
		Concurrency int `json:"concurrency" mapstructure:"concurrency"`
		// Kinds restricts results; empty means every kind.
		Kinds []string `json:"kinds" mapstructure:"kinds"`
		// UI holds terminal output settings.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig holds terminal output settings.
	UIConfig struct {
		// ColorScheme sets the output palette.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		SearchPaths:            []string{},
		EnvironmentDirectories: []string{},
		Kinds:                  []string{},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// ParsedKinds converts the configured kind names.
func (c Config) ParsedKinds() ([]pyenv.Kind, error) {
	kinds := make([]pyenv.Kind, 0, len(c.Kinds))
	for _, name := range c.Kinds {
		k, err := pyenv.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// IsValid checks constraints that survive environment-variable overrides,
// which bypass the CUE schema.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, p := range c.SearchPaths {
		if err := types.FilesystemPath(p).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("search_paths: %w", err))
		}
	}
	for _, p := range c.EnvironmentDirectories {
		if err := types.FilesystemPath(p).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("environment_directories: %w", err))
		}
	}
	if c.CondaExecutable != "" {
		if err := types.FilesystemPath(c.CondaExecutable).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("conda_executable: %w", err))
		}
	}
	if c.Concurrency < 0 || c.Concurrency > MaxConcurrency {
		errs = append(errs, fmt.Errorf("%w: %d (valid: 0-%d)", ErrInvalidConcurrency, c.Concurrency, MaxConcurrency))
	}
	if _, err := c.ParsedKinds(); err != nil {
		errs = append(errs, err)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap exposes ErrInvalidConfig and each field error to errors.Is().
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
