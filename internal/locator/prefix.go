// SPDX-License-Identifier: MPL-2.0

package locator

import (
	"strings"

	"github.com/pylocate/pylocate/pkg/fspath"
	"github.com/pylocate/pylocate/pkg/types"
)

// derivePrefix returns the environment root implied by an interpreter path:
// the parent of a bin or Scripts directory, otherwise the interpreter's own
// directory.
func derivePrefix(exe types.FilesystemPath) types.FilesystemPath {
	if exe == "" {
		return ""
	}
	dir := fspath.Dir(exe)
	switch strings.ToLower(fspath.Base(dir)) {
	case "bin", "scripts":
		return fspath.Dir(dir)
	default:
		return dir
	}
}

// candidatePrefix returns the candidate's prefix, deriving one from the
// executable when it is absent.
func candidatePrefix(prefix, exe types.FilesystemPath) types.FilesystemPath {
	if prefix != "" {
		return prefix
	}
	return derivePrefix(exe)
}
