// SPDX-License-Identifier: MPL-2.0

package pyenv

import "github.com/pylocate/pylocate/pkg/types"

type (
	// Candidate is a possible interpreter found while scanning, before any
	// locator has classified it. Prefix and Version are optional hints.
	Candidate struct {
		Executable types.FilesystemPath
		Prefix     types.FilesystemPath
		Version    string
	}

	// LocatorResult is the output of one locator's self-directed enumeration.
	LocatorResult struct {
		Managers     []EnvManager
		Environments []PythonEnvironment
	}

	// Locator is one environment-family strategy. Classify decides whether a
	// candidate belongs to the family and returns nil when it does not.
	// Enumerate scans locations the family knows about and returns nil when
	// it has nothing to report. Implementations must be safe for concurrent
	// use and must not retain state between calls.
	Locator interface {
		Name() string
		Kind() Kind
		Classify(c Candidate) *PythonEnvironment
		Enumerate() *LocatorResult
	}
)

// IsEmpty reports whether r carries no managers and no environments.
func (r *LocatorResult) IsEmpty() bool {
	return r == nil || (len(r.Managers) == 0 && len(r.Environments) == 0)
}
