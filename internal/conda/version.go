// SPDX-License-Identifier: MPL-2.0

package conda

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/pylocate/pylocate/pkg/fspath"
	"github.com/pylocate/pylocate/pkg/types"
)

const condaMetaDir = "conda-meta"

// PythonVersion returns the python package version recorded in prefix's
// conda-meta, or "" when none is recorded.
func PythonVersion(prefix types.FilesystemPath) string {
	return packageVersion(prefix, "python")
}

// packageVersion returns the highest version of pkg recorded by a
// conda-meta/<pkg>-<version>-<build>.json record. Records whose version is
// not semver-like only win when no record parses.
func packageVersion(prefix types.FilesystemPath, pkg string) string {
	var (
		best    *semver.Version
		bestRaw string
	)
	for _, name := range fspath.ReadDirNames(fspath.Join(prefix, condaMetaDir)) {
		raw, ok := recordVersion(name, pkg)
		if !ok {
			continue
		}
		v, err := semver.NewVersion(raw)
		if err != nil {
			if best == nil && raw > bestRaw {
				bestRaw = raw
			}
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestRaw = raw
		}
	}
	return bestRaw
}

// recordVersion extracts the version from a package record file name.
// "conda-23.1.0-py310_0.json" yields "23.1.0" for pkg "conda", while
// "conda-libmamba-solver-24.1.0-pyhd8ed1ab_0.json" yields nothing.
func recordVersion(name, pkg string) (string, bool) {
	rest, ok := strings.CutPrefix(name, pkg+"-")
	if !ok {
		return "", false
	}
	rest, ok = strings.CutSuffix(rest, ".json")
	if !ok {
		return "", false
	}
	version, build, ok := strings.Cut(rest, "-")
	if !ok || version == "" || build == "" || strings.Contains(build, "-") {
		return "", false
	}
	if version[0] < '0' || version[0] > '9' {
		return "", false
	}
	return version, true
}
