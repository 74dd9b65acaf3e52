// SPDX-License-Identifier: MPL-2.0

package conda

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pylocate/pylocate/pkg/platform"
	"github.com/pylocate/pylocate/pkg/types"
)

const (
	toolConda      = "conda"
	toolMamba      = "mamba"
	toolMicromamba = "micromamba"
)

// installRelativeBinaries returns, in precedence order, the paths relative
// to an installation root where tool may live.
func installRelativeBinaries(goos, tool string) []string {
	if platform.IsWindows(goos) {
		if tool == toolConda {
			return []string{
				filepath.Join("condabin", "conda.bat"),
				filepath.Join("Scripts", "conda.exe"),
			}
		}
		return []string{
			filepath.Join("Library", "bin", tool+".exe"),
			filepath.Join("Scripts", tool+".exe"),
		}
	}
	if tool == toolConda {
		return []string{
			filepath.Join("bin", "conda"),
			filepath.Join("condabin", "conda"),
		}
	}
	return []string{filepath.Join("bin", tool)}
}

// searchPathNames returns the file names that identify tool inside a
// search path directory.
func searchPathNames(goos, tool string) []string {
	if platform.IsWindows(goos) {
		if tool == toolConda {
			return []string{"conda.exe", "conda.bat"}
		}
		return []string{tool + ".exe"}
	}
	return []string{tool}
}

// IsMambaExecutable reports whether p names a mamba or micromamba binary
// using the running OS's case rules.
func IsMambaExecutable(p types.FilesystemPath) bool {
	return IsMambaExecutableOn(runtime.GOOS, p)
}

// IsMambaExecutableOn reports whether p names a mamba or micromamba binary.
// Only the file stem is inspected, after the last forward or back slash and
// with any extension removed. The comparison ignores case on Windows. No
// filesystem access is performed.
func IsMambaExecutableOn(goos string, p types.FilesystemPath) bool {
	stem := executableStem(p)
	if platform.IsWindows(goos) {
		stem = strings.ToLower(stem)
	}
	return stem == toolMamba || stem == toolMicromamba
}

func isMicromamba(goos string, p types.FilesystemPath) bool {
	stem := executableStem(p)
	if platform.IsWindows(goos) {
		stem = strings.ToLower(stem)
	}
	return stem == toolMicromamba
}

func executableStem(p types.FilesystemPath) string {
	s := string(p)
	if i := strings.LastIndexAny(s, `/\`); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndexByte(s, '.'); i > 0 {
		s = s[:i]
	}
	return s
}
