// SPDX-License-Identifier: MPL-2.0

package conda

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pylocate/pylocate/internal/osenv"
	"github.com/pylocate/pylocate/pkg/fspath"
	"github.com/pylocate/pylocate/pkg/platform"
	"github.com/pylocate/pylocate/pkg/pyenv"
	"github.com/pylocate/pylocate/pkg/types"
)

const envsDirName = "envs"

// Resolver finds the manager binary that governs a conda installation.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	goos string
}

// NewResolver returns a Resolver applying env's OS conventions.
func NewResolver(env osenv.Environment) *Resolver {
	return &Resolver{goos: env.GOOS()}
}

// IsCondaEnv reports whether prefix holds a conda-meta directory.
func IsCondaEnv(prefix types.FilesystemPath) bool {
	return fspath.IsDir(fspath.Join(prefix, condaMetaDir))
}

// ResolveFromDir returns the manager owning the conda installation that
// contains dir, or nil when none can be found.
//
// An environment at <root>/envs/<name> resolves to <root>'s manager. The
// installation root is the nearest ancestor holding a manager binary at one
// of its install-relative paths; it need not be a conda environment itself.
// A conda binary at any ancestor beats mamba at any ancestor, which beats
// micromamba. When no ancestor holds a binary, the environment's creation
// history is consulted for the binary that created it.
func (r *Resolver) ResolveFromDir(dir types.FilesystemPath) *pyenv.EnvManager {
	if dir == "" {
		return nil
	}
	dir = fspath.Clean(dir)

	start := dir
	if parent := fspath.Dir(dir); fspath.Base(parent) == envsDirName {
		start = fspath.Dir(parent)
	}

	if mgr := r.firstInstalled(fspath.Parents(start)); mgr != nil {
		return mgr
	}

	if exe := r.historyExecutable(dir); exe != "" {
		slog.Debug("manager resolved from conda history", "prefix", dir, "executable", exe)
		return r.ResolveFromBinary(exe)
	}
	return nil
}

// ManagerAt returns the manager whose binary lives inside root itself, or
// nil. Ancestors of root are not consulted.
func (r *Resolver) ManagerAt(root types.FilesystemPath) *pyenv.EnvManager {
	if root == "" {
		return nil
	}
	return r.firstInstalled([]types.FilesystemPath{fspath.Clean(root)})
}

// firstInstalled scans roots once per tool, conda then mamba then
// micromamba, and returns the first binary found.
func (r *Resolver) firstInstalled(roots []types.FilesystemPath) *pyenv.EnvManager {
	for _, tool := range []string{toolConda, toolMamba, toolMicromamba} {
		for _, root := range roots {
			for _, rel := range installRelativeBinaries(r.goos, tool) {
				if exe := fspath.Join(root, rel); fspath.IsFile(exe) {
					return r.manager(exe, root)
				}
			}
		}
	}
	return nil
}

// ResolveFromSearchPath returns the manager for the first conda binary found
// on the search path, else the first mamba-family binary, else nil.
func (r *Resolver) ResolveFromSearchPath(entries []types.FilesystemPath) *pyenv.EnvManager {
	if exe := r.FindCondaBinary(entries); exe != "" {
		return r.ResolveFromBinary(exe)
	}
	if exe := r.FindMambaBinary(entries); exe != "" {
		return r.ResolveFromBinary(exe)
	}
	return nil
}

// ResolveFromBinary returns the manager for an explicitly known binary, or
// nil when it does not exist.
func (r *Resolver) ResolveFromBinary(exe types.FilesystemPath) *pyenv.EnvManager {
	if !fspath.IsFile(exe) {
		return nil
	}
	return r.manager(exe, InstallRoot(exe))
}

// FindCondaBinary returns the first conda binary found scanning entries in
// order. Empty and unreadable entries are skipped.
func (r *Resolver) FindCondaBinary(entries []types.FilesystemPath) types.FilesystemPath {
	return r.findOnPath(entries, toolConda)
}

// FindMambaBinary returns the first mamba or micromamba binary found scanning
// entries in order; within one entry mamba is preferred.
func (r *Resolver) FindMambaBinary(entries []types.FilesystemPath) types.FilesystemPath {
	return r.findOnPath(entries, toolMamba, toolMicromamba)
}

func (r *Resolver) findOnPath(entries []types.FilesystemPath, tools ...string) types.FilesystemPath {
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		for _, tool := range tools {
			for _, name := range searchPathNames(r.goos, tool) {
				if exe := fspath.Join(entry, name); fspath.IsFile(exe) {
					return exe
				}
			}
		}
	}
	return ""
}

func (r *Resolver) manager(exe, root types.FilesystemPath) *pyenv.EnvManager {
	m := &pyenv.EnvManager{Executable: exe, Type: pyenv.ManagerConda}
	switch {
	case isMicromamba(r.goos, exe):
		m.Type = pyenv.ManagerMamba
	case IsMambaExecutableOn(r.goos, exe):
		m.Type = pyenv.ManagerMamba
		m.Version = packageVersion(root, toolMamba)
	default:
		m.Version = packageVersion(root, toolConda)
	}
	return m
}

// InstallRoot maps a binary to the installation that ships it:
// <root>/bin/conda, <root>/condabin/conda, <root>/Scripts/conda.exe and
// <root>/Library/bin/mamba.exe all yield <root>.
func InstallRoot(exe types.FilesystemPath) types.FilesystemPath {
	binDir := fspath.Dir(exe)
	root := fspath.Dir(binDir)
	if strings.EqualFold(fspath.Base(binDir), "bin") && strings.EqualFold(fspath.Base(root), "Library") {
		return fspath.Dir(root)
	}
	return root
}

// historyExecutable returns the manager binary recorded on the first
// "# cmd:" line of prefix's conda-meta/history that names an existing
// conda or mamba binary.
func (r *Resolver) historyExecutable(prefix types.FilesystemPath) types.FilesystemPath {
	for _, cmd := range ReadHistoryCommands(prefix) {
		exe := types.FilesystemPath(cmd)
		if platform.IsWindows(r.goos) {
			// Windows records the entry-point script rather than the binary.
			if script, ok := strings.CutSuffix(cmd, "-script.py"); ok {
				exe = types.FilesystemPath(script + ".exe")
			}
		}
		if !filepath.IsAbs(string(exe)) {
			continue
		}
		stem := executableStem(exe)
		if platform.IsWindows(r.goos) {
			stem = strings.ToLower(stem)
		}
		if stem != toolConda && stem != toolMamba && stem != toolMicromamba {
			continue
		}
		if fspath.IsFile(exe) {
			return exe
		}
	}
	return ""
}
