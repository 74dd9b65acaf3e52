// SPDX-License-Identifier: MPL-2.0

package pyenv

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// KindConda is a conda, mamba, or micromamba managed environment.
	KindConda Kind = "Conda"
	// KindWindowsRegistry is an interpreter registered under the PEP 514 registry keys.
	KindWindowsRegistry Kind = "WindowsRegistry"
	// KindVenv is a virtual environment created by the standard venv module.
	KindVenv Kind = "Venv"
	// KindVirtualEnv is a virtual environment created by the virtualenv tool.
	KindVirtualEnv Kind = "VirtualEnv"

	// ArchX86 is a 32-bit x86 interpreter.
	ArchX86 Architecture = "x86"
	// ArchX64 is a 64-bit x86 interpreter.
	ArchX64 Architecture = "x64"

	// ManagerConda identifies the conda tool.
	ManagerConda ManagerType = "Conda"
	// ManagerMamba identifies mamba or micromamba.
	ManagerMamba ManagerType = "Mamba"
)

var (
	// ErrInvalidKind is returned when a Kind value is not recognized.
	ErrInvalidKind = errors.New("invalid environment kind")

	// ErrInvalidArchitecture is returned when an Architecture value is not recognized.
	ErrInvalidArchitecture = errors.New("invalid architecture")

	allKinds = []Kind{KindConda, KindWindowsRegistry, KindVenv, KindVirtualEnv}

	cliNames = map[Kind]string{
		KindConda:           "conda",
		KindWindowsRegistry: "windows-registry",
		KindVenv:            "venv",
		KindVirtualEnv:      "virtual-env",
	}
)

type (
	// Kind classifies an environment by the family of tooling that created it.
	Kind string

	// Architecture is the CPU architecture of an interpreter.
	Architecture string

	// ManagerType identifies a package/environment management tool.
	ManagerType string

	// InvalidKindError is returned when a Kind value is not recognized.
	InvalidKindError struct {
		Value string
	}
)

// AllKinds returns every known Kind in registration order.
func AllKinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// CLIName returns the kebab-case name used on the command line.
func (k Kind) CLIName() string {
	if name, ok := cliNames[k]; ok {
		return name
	}
	return strings.ToLower(string(k))
}

// Validate returns nil if the Kind is one of the known kinds.
func (k Kind) Validate() error {
	if _, ok := cliNames[k]; ok {
		return nil
	}
	return &InvalidKindError{Value: string(k)}
}

// ParseKind accepts either the PascalCase name or the kebab-case CLI name,
// case-insensitively.
func ParseKind(s string) (Kind, error) {
	trimmed := strings.TrimSpace(s)
	for _, k := range allKinds {
		if strings.EqualFold(trimmed, string(k)) || strings.EqualFold(trimmed, k.CLIName()) {
			return k, nil
		}
	}
	return "", &InvalidKindError{Value: s}
}

// Error implements the error interface.
func (e *InvalidKindError) Error() string {
	names := make([]string, 0, len(allKinds))
	for _, k := range allKinds {
		names = append(names, k.CLIName())
	}
	return fmt.Sprintf("invalid environment kind %q (valid: %s)", e.Value, strings.Join(names, ", "))
}

// Unwrap returns ErrInvalidKind so callers can use errors.Is for programmatic detection.
func (e *InvalidKindError) Unwrap() error { return ErrInvalidKind }

// String returns the string representation of the Architecture.
func (a Architecture) String() string { return string(a) }

// Validate returns nil for the empty (unknown) architecture or a known value.
func (a Architecture) Validate() error {
	switch a {
	case "", ArchX86, ArchX64:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidArchitecture, string(a))
	}
}

// String returns the string representation of the ManagerType.
func (m ManagerType) String() string { return string(m) }

// UnmarshalText accepts either naming form so documents written by hand
// or by older tools decode.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
