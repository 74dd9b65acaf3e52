// SPDX-License-Identifier: MPL-2.0

// Package pathnorm normalizes filesystem paths so that paths obtained through
// different code paths (static directory scans, registry entries, and the
// values an interpreter reports about itself) can be compared for equality.
//
// Two operations are provided. Case normalization folds paths on platforms
// whose filesystems are case-insensitive and is a no-op elsewhere.
// Canonicalization resolves symlinks to the real location; it performs
// filesystem I/O and degrades to returning its input unchanged when the
// target cannot be resolved.
package pathnorm

import (
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/text/cases"

	"github.com/pylocate/pylocate/pkg/platform"
	"github.com/pylocate/pylocate/pkg/types"
)

const (
	extendedLengthPrefix    = `\\?\`
	extendedLengthUNCPrefix = `\\?\UNC\`
)

type (
	// Normalizer applies the case rules of one target OS.
	Normalizer struct {
		goos string
	}

	// Options selects the normalization steps applied by Normalize.
	Options struct {
		// Canonicalize resolves symlinks before case folding.
		Canonicalize bool
	}
)

var host = ForOS(runtime.GOOS)

// ForOS returns a Normalizer using the case rules of goos.
func ForOS(goos string) Normalizer {
	return Normalizer{goos: goos}
}

// Host returns the Normalizer for the running OS.
func Host() Normalizer { return host }

// NormCase case-normalizes p using the running OS's rules.
func NormCase(p types.FilesystemPath) types.FilesystemPath { return host.NormCase(p) }

// Normalize applies opts to p using the running OS's rules.
func Normalize(p types.FilesystemPath, opts Options) types.FilesystemPath {
	return host.Normalize(p, opts)
}

// Equal reports whether a and b name the same path after case normalization
// on the running OS. Both paths must be present to compare equal.
func Equal(a, b types.FilesystemPath) bool { return host.Equal(a, b) }

// NormCase returns p folded to a canonical case on Windows: the
// extended-length prefix is removed, separators are unified, trailing
// separators are trimmed, and the result is case-folded. On every other OS p
// is returned unchanged.
func (n Normalizer) NormCase(p types.FilesystemPath) types.FilesystemPath {
	if p == "" || !platform.IsWindows(n.goos) {
		return p
	}
	s := string(p)
	switch {
	case strings.HasPrefix(s, extendedLengthUNCPrefix):
		s = `\\` + s[len(extendedLengthUNCPrefix):]
	case strings.HasPrefix(s, extendedLengthPrefix):
		s = s[len(extendedLengthPrefix):]
	}
	s = strings.ReplaceAll(s, "/", `\`)
	for len(s) > 3 && strings.HasSuffix(s, `\`) {
		s = s[:len(s)-1]
	}
	// A Caser is stateful, so one is created per call.
	return types.FilesystemPath(cases.Fold().String(s))
}

// Normalize applies the steps selected by opts. Canonicalization runs first
// so the folded result reflects the real location.
func (n Normalizer) Normalize(p types.FilesystemPath, opts Options) types.FilesystemPath {
	if opts.Canonicalize {
		p = Canonicalize(p)
	}
	return n.NormCase(p)
}

// Equal reports whether a and b are equal after case normalization.
func (n Normalizer) Equal(a, b types.FilesystemPath) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b || n.NormCase(a) == n.NormCase(b)
}

// Canonicalize resolves every symlink in p and returns the absolute real
// path. If p does not exist or cannot be resolved, p is returned unchanged.
func Canonicalize(p types.FilesystemPath) types.FilesystemPath {
	if p == "" {
		return p
	}
	resolved, err := filepath.EvalSymlinks(string(p))
	if err != nil {
		return p
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return types.FilesystemPath(resolved)
	}
	return types.FilesystemPath(abs)
}
