// SPDX-License-Identifier: MPL-2.0

package platform

import "strings"

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// IsWindows reports whether goos names Windows.
func IsWindows(goos string) bool { return goos == Windows }

// ExecutableName returns the on-disk file name of an executable called stem
// on goos ("python" -> "python.exe" on Windows).
func ExecutableName(goos, stem string) string {
	if IsWindows(goos) && !strings.Contains(stem, ".") {
		return stem + ".exe"
	}
	return stem
}

// BinDir returns the directory inside an environment prefix that holds its
// interpreter and entry-point scripts.
func BinDir(goos string) string {
	if IsWindows(goos) {
		return "Scripts"
	}
	return "bin"
}

// PythonExecutableNames lists interpreter file names looked up inside a
// directory, in preference order.
func PythonExecutableNames(goos string) []string {
	if IsWindows(goos) {
		return []string{"python.exe"}
	}
	return []string{"python", "python3"}
}
