// SPDX-License-Identifier: MPL-2.0

package consistency

import (
	"regexp"

	"github.com/pylocate/pylocate/pkg/pathnorm"
	"github.com/pylocate/pylocate/pkg/pyenv"
	"github.com/pylocate/pylocate/pkg/types"
)

var versionTriple = regexp.MustCompile(`\d+\.\d+\.\d+`)

// InaccuracyReport lists the attributes on which a discovered environment
// disagrees with its resolved counterpart. InvalidVersion is nil when either
// version lacks a major.minor.patch token.
type InaccuracyReport struct {
	Kind                    pyenv.Kind `json:"kind"`
	InvalidExecutable       bool       `json:"invalidExecutable"`
	ExecutableNotInSymlinks bool       `json:"executableNotInSymlinks"`
	InvalidPrefix           bool       `json:"invalidPrefix"`
	InvalidVersion          *bool      `json:"invalidVersion"`
	InvalidArch             bool       `json:"invalidArch"`
}

// Validate compares discovered with resolved using the running OS's path
// rules. It returns nil when they agree.
func Validate(discovered, resolved pyenv.PythonEnvironment) *InaccuracyReport {
	return ValidateWith(pathnorm.Host(), discovered, resolved)
}

// ValidateWith compares discovered with resolved using n's case rules.
// Each check is independent; a report is returned only when some flag is
// set or the versions are known to differ.
func ValidateWith(n pathnorm.Normalizer, discovered, resolved pyenv.PythonEnvironment) *InaccuracyReport {
	report := InaccuracyReport{
		Kind:                    discovered.Kind,
		InvalidExecutable:       invalidExecutable(n, discovered.Executable, resolved.Executable),
		ExecutableNotInSymlinks: notInSymlinks(n, discovered, resolved.Executable),
		InvalidPrefix:           invalidPrefix(n, discovered.Prefix, resolved.Prefix),
		InvalidVersion:          invalidVersion(discovered.Version, resolved.Version),
		InvalidArch:             discovered.Arch != "" && resolved.Arch != "" && discovered.Arch != resolved.Arch,
	}
	if !report.Any() {
		return nil
	}
	return &report
}

// Any reports whether the report carries at least one disagreement.
func (r *InaccuracyReport) Any() bool {
	return r.InvalidExecutable ||
		r.ExecutableNotInSymlinks ||
		r.InvalidPrefix ||
		r.InvalidArch ||
		(r.InvalidVersion != nil && *r.InvalidVersion)
}

func invalidExecutable(n pathnorm.Normalizer, discovered, resolved types.FilesystemPath) bool {
	if discovered == "" || resolved == "" {
		return false
	}
	return discovered != resolved && n.NormCase(discovered) != n.NormCase(resolved)
}

func notInSymlinks(n pathnorm.Normalizer, discovered pyenv.PythonEnvironment, resolved types.FilesystemPath) bool {
	if discovered.Executable == "" || resolved == "" {
		return false
	}
	folded := n.NormCase(resolved)
	// The discovered executable always belongs to its own symlink set.
	if discovered.Executable == resolved || n.NormCase(discovered.Executable) == folded {
		return false
	}
	for _, link := range discovered.Symlinks {
		if link == resolved || n.NormCase(link) == folded {
			return false
		}
	}
	return true
}

func invalidPrefix(n pathnorm.Normalizer, discovered, resolved types.FilesystemPath) bool {
	if discovered == "" || resolved == "" {
		return false
	}
	opts := pathnorm.Options{Canonicalize: true}
	return n.Normalize(discovered, opts) != n.Normalize(resolved, opts)
}

func invalidVersion(discovered, resolved string) *bool {
	d := versionTriple.FindString(discovered)
	r := versionTriple.FindString(resolved)
	if d == "" || r == "" {
		return nil
	}
	differ := d != r
	return &differ
}
