// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

type (
	// FilesystemPath represents an absolute or relative filesystem path.
	// The zero value ("") means the path is unknown; discovery code keeps it
	// that way instead of substituting a placeholder.
	FilesystemPath string

	// InvalidFilesystemPathError is returned when a FilesystemPath value is
	// required but empty or whitespace-only.
	InvalidFilesystemPathError struct {
		Value FilesystemPath
	}
)

// String returns the string representation of the FilesystemPath.
func (p FilesystemPath) String() string { return string(p) }

// IsZero reports whether the path is absent.
func (p FilesystemPath) IsZero() bool { return p == "" }

// Validate returns nil if the path is non-empty and not whitespace-only,
// or an error wrapping ErrInvalidFilesystemPath if it is not.
func (p FilesystemPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidFilesystemPathError{Value: p}
	}
	return nil
}

// Error implements the error interface for InvalidFilesystemPathError.
func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid filesystem path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidFilesystemPath for errors.Is() compatibility.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }

// PathsFromStrings converts raw strings (flags, config values, PATH entries)
// into FilesystemPath values, dropping blank entries.
func PathsFromStrings(raw []string) []FilesystemPath {
	paths := make([]FilesystemPath, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		paths = append(paths, FilesystemPath(r))
	}
	return paths
}
