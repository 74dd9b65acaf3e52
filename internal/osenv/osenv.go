// SPDX-License-Identifier: MPL-2.0

// Package osenv captures the process environment that locators consult:
// the target OS, the user's home directory, the system root, environment
// variables, the executable search path, and well-known global install
// locations. Locators depend on the Environment interface so tests can
// inject a Snapshot rather than mutating process state.
package osenv

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/pylocate/pylocate/pkg/fspath"
	"github.com/pylocate/pylocate/pkg/pathnorm"
	"github.com/pylocate/pylocate/pkg/platform"
	"github.com/pylocate/pylocate/pkg/types"
)

type (
	// Environment is a read-only view of the host.
	Environment interface {
		GOOS() string
		UserHome() types.FilesystemPath
		Root() types.FilesystemPath
		Getenv(key string) string
		PathEntries() []types.FilesystemPath
		KnownGlobalSearchLocations() []types.FilesystemPath
	}

	// Snapshot is an immutable Environment. The zero value describes a host
	// with no home directory, no variables, and no search path.
	Snapshot struct {
		OS      string
		Home    types.FilesystemPath
		RootDir types.FilesystemPath
		Vars    map[string]string
		Path    []types.FilesystemPath
		// Globals replaces the conventional install directories and
		// ~/.local/bin when non-nil. Search path entries are always kept.
		Globals []types.FilesystemPath
	}
)

// unixGlobalLocations are directories, relative to the system root, where
// system and distribution interpreters are commonly installed.
var unixGlobalLocations = []string{
	"bin",
	"etc",
	"lib",
	"lib/x86_64-linux-gnu",
	"lib64",
	"sbin",
	"snap/bin",
	"usr/bin",
	"usr/games",
	"usr/include",
	"usr/lib",
	"usr/lib/x86_64-linux-gnu",
	"usr/lib64",
	"usr/libexec",
	"usr/local",
	"usr/local/bin",
	"usr/local/etc",
	"usr/local/games",
	"usr/local/lib",
	"usr/local/sbin",
	"usr/sbin",
	"usr/share",
	"home/bin",
	"home/sbin",
	"opt",
	"opt/bin",
	"opt/sbin",
}

// FromProcess snapshots the running process's environment.
func FromProcess() *Snapshot {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok && key != "" {
			vars[key] = value
		}
	}

	s := &Snapshot{OS: runtime.GOOS, Vars: vars}
	if home, err := homedir.Dir(); err == nil {
		s.Home = types.FilesystemPath(home)
	} else {
		slog.Debug("home directory unavailable", "error", err)
	}
	s.RootDir = systemRoot(runtime.GOOS, vars)
	s.Path = types.PathsFromStrings(filepath.SplitList(os.Getenv("PATH")))
	return s
}

func systemRoot(goos string, vars map[string]string) types.FilesystemPath {
	if !platform.IsWindows(goos) {
		return "/"
	}
	if root := vars["SYSTEMROOT"]; root != "" {
		return types.FilesystemPath(root)
	}
	if drive := vars["SYSTEMDRIVE"]; drive != "" {
		return types.FilesystemPath(drive + `\`)
	}
	return `C:\`
}

// GOOS returns the target OS name.
func (s *Snapshot) GOOS() string { return s.OS }

// UserHome returns the home directory, empty when unknown.
func (s *Snapshot) UserHome() types.FilesystemPath { return s.Home }

// Root returns the system root.
func (s *Snapshot) Root() types.FilesystemPath { return s.RootDir }

// Getenv returns the named variable, empty when unset.
func (s *Snapshot) Getenv(key string) string { return s.Vars[key] }

// PathEntries returns a copy of the executable search path.
func (s *Snapshot) PathEntries() []types.FilesystemPath { return slices.Clone(s.Path) }

// KnownGlobalSearchLocations returns, in order and without duplicates, the
// search path entries, the OS's conventional install directories under
// Root(), and the user's ~/.local/bin. Windows has no conventional set
// beyond the search path.
func (s *Snapshot) KnownGlobalSearchLocations() []types.FilesystemPath {
	norm := pathnorm.ForOS(s.OS)
	out := make([]types.FilesystemPath, 0, len(s.Path)+len(unixGlobalLocations)+1)
	seen := make(map[types.FilesystemPath]struct{})
	add := func(p types.FilesystemPath) {
		if p == "" {
			return
		}
		key := norm.NormCase(p)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}

	for _, p := range s.Path {
		add(p)
	}
	if s.Globals != nil {
		for _, p := range s.Globals {
			add(p)
		}
		return out
	}
	if platform.IsWindows(s.OS) {
		return out
	}
	if s.RootDir != "" {
		for _, rel := range unixGlobalLocations {
			add(fspath.Join(s.RootDir, rel))
		}
	}
	if s.Home != "" {
		add(fspath.Join(s.Home, ".local", "bin"))
	}
	return out
}
