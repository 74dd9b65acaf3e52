// SPDX-License-Identifier: MPL-2.0

package discovery

import "github.com/pylocate/pylocate/pkg/types"

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"

	// CodeSearchRootGlobInvalid reports a search root pattern that does not parse.
	CodeSearchRootGlobInvalid = "search_root_glob_invalid"
	// CodeSearchRootMissing reports a search root that matched no directory.
	CodeSearchRootMissing = "search_root_missing"
	// CodeSearchRootUnreadable reports a search root whose entries could not be listed.
	CodeSearchRootUnreadable = "search_root_unreadable"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "search_root_missing").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path types.FilesystemPath
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)

func warning(code, message string, path types.FilesystemPath, cause error) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Path: path, Cause: cause}
}
