// SPDX-License-Identifier: MPL-2.0

package locator

import (
	"log/slog"
	"sync"

	"github.com/pylocate/pylocate/internal/conda"
	"github.com/pylocate/pylocate/internal/osenv"
	"github.com/pylocate/pylocate/pkg/fspath"
	"github.com/pylocate/pylocate/pkg/pathnorm"
	"github.com/pylocate/pylocate/pkg/platform"
	"github.com/pylocate/pylocate/pkg/pyenv"
	"github.com/pylocate/pylocate/pkg/types"
)

const baseEnvName = "base"

var (
	// homeInstallDirs are installation directories created by the common
	// installers directly under the user's home.
	homeInstallDirs = []string{
		"anaconda3",
		"miniconda3",
		"miniforge3",
		"mambaforge",
		"micromamba",
		"anaconda",
		"miniconda",
		".conda",
		".local/share/conda",
	}

	// unixSystemInstallDirs are system-wide installation directories
	// relative to the filesystem root.
	unixSystemInstallDirs = []string{
		"opt/conda",
		"opt/anaconda3",
		"opt/miniconda3",
		"opt/miniforge3",
		"opt/mambaforge",
		"usr/local/anaconda3",
		"usr/local/miniconda3",
		"usr/local/miniforge3",
	}

	// windowsSystemInstallDirs are relative to %PROGRAMDATA%.
	windowsSystemInstallDirs = []string{"anaconda3", "miniconda3", "miniforge3"}
)

type (
	// Conda recognizes conda, mamba, and micromamba environments.
	Conda struct {
		env        osenv.Environment
		resolver   *conda.Resolver
		norm       pathnorm.Normalizer
		executable types.FilesystemPath
		envDirs    []types.FilesystemPath
		allEnvDirs func() []types.FilesystemPath
	}

	// CondaOption configures the Conda strategy.
	CondaOption func(*Conda)
)

// WithCondaExecutable pins the conda binary used when an environment's own
// installation cannot be resolved.
func WithCondaExecutable(exe types.FilesystemPath) CondaOption {
	return func(c *Conda) { c.executable = exe }
}

// WithCondaEnvDirs adds directories whose children are conda environments.
func WithCondaEnvDirs(dirs ...types.FilesystemPath) CondaOption {
	return func(c *Conda) { c.envDirs = append(c.envDirs, dirs...) }
}

// NewConda returns the conda strategy reading host facts from env.
func NewConda(env osenv.Environment, opts ...CondaOption) *Conda {
	c := &Conda{
		env:      env,
		resolver: conda.NewResolver(env),
		norm:     pathnorm.ForOS(env.GOOS()),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.allEnvDirs = sync.OnceValue(c.environmentDirs)
	return c
}

// Name returns the strategy name.
func (*Conda) Name() string { return "Conda" }

// Kind returns pyenv.KindConda.
func (*Conda) Kind() pyenv.Kind { return pyenv.KindConda }

// Classify accepts candidates whose prefix, given or derived from the
// interpreter location, holds a conda-meta directory.
func (c *Conda) Classify(cand pyenv.Candidate) *pyenv.PythonEnvironment {
	prefix := candidatePrefix(cand.Prefix, cand.Executable)
	if prefix == "" || !conda.IsCondaEnv(prefix) {
		return nil
	}
	env := c.build(prefix, cand.Executable, cand.Version, c.managerFor(prefix))
	return &env
}

// Enumerate scans the well-known installation roots, the active
// environment, .condarc envs_dirs, and the environments.txt registry.
// Environments without an interpreter are reported without an executable.
func (c *Conda) Enumerate() *pyenv.LocatorResult {
	var (
		result   pyenv.LocatorResult
		seenEnv  = make(map[types.FilesystemPath]struct{})
		seenMgr  = make(map[types.FilesystemPath]struct{})
		addMgr   = func(mgr *pyenv.EnvManager) {
			if mgr == nil {
				return
			}
			key := c.norm.NormCase(mgr.Executable)
			if _, dup := seenMgr[key]; !dup {
				seenMgr[key] = struct{}{}
				result.Managers = append(result.Managers, *mgr)
			}
		}
		addEnvAt = func(prefix types.FilesystemPath) {
			if prefix == "" || !conda.IsCondaEnv(prefix) {
				return
			}
			key := c.norm.NormCase(fspath.Clean(prefix))
			if _, dup := seenEnv[key]; dup {
				return
			}
			seenEnv[key] = struct{}{}

			mgr := c.managerFor(prefix)
			addMgr(mgr)
			result.Environments = append(result.Environments, c.build(prefix, c.interpreter(prefix), "", mgr))
		}
	)

	for _, root := range c.installRoots() {
		// Micromamba roots often lack conda-meta but still ship the binary.
		addMgr(c.resolver.ManagerAt(root))
		addEnvAt(root)
		for _, child := range fspath.SubDirs(fspath.Join(root, "envs")) {
			addEnvAt(child)
		}
	}
	for _, dir := range c.allEnvDirs() {
		for _, child := range fspath.SubDirs(dir) {
			addEnvAt(child)
		}
	}
	if home := c.env.UserHome(); home != "" {
		for _, prefix := range conda.ReadEnvironmentsTxt(fspath.Join(home, ".conda", "environments.txt")) {
			addEnvAt(prefix)
		}
	}

	if result.IsEmpty() {
		return nil
	}
	return &result
}

// installRoots returns candidate installation directories in search order.
func (c *Conda) installRoots() []types.FilesystemPath {
	var roots []types.FilesystemPath
	if home := c.env.UserHome(); home != "" {
		for _, d := range homeInstallDirs {
			roots = append(roots, fspath.Join(home, d))
		}
	}
	if platform.IsWindows(c.env.GOOS()) {
		if data := types.FilesystemPath(c.env.Getenv("PROGRAMDATA")); data != "" {
			for _, d := range windowsSystemInstallDirs {
				roots = append(roots, fspath.Join(data, d))
			}
		}
	} else if root := c.env.Root(); root != "" {
		for _, d := range unixSystemInstallDirs {
			roots = append(roots, fspath.Join(root, d))
		}
	}
	for _, key := range []string{"CONDA_PREFIX", "MAMBA_ROOT_PREFIX"} {
		if dir := types.FilesystemPath(c.env.Getenv(key)); dir != "" {
			roots = append(roots, dir)
		}
	}
	for _, exe := range []types.FilesystemPath{c.executable, c.resolver.FindCondaBinary(c.env.PathEntries())} {
		if exe != "" {
			roots = append(roots, conda.InstallRoot(exe))
		}
	}
	return roots
}

// environmentDirs returns configured and .condarc envs_dirs directories.
// It is evaluated once per strategy instance.
func (c *Conda) environmentDirs() []types.FilesystemPath {
	dirs := append([]types.FilesystemPath(nil), c.envDirs...)
	for _, rcPath := range conda.RCLocations(c.env) {
		if !fspath.IsFile(rcPath) {
			continue
		}
		rc, err := conda.ReadCondaRC(rcPath)
		if err != nil {
			slog.Warn("ignoring unreadable condarc", "path", rcPath, "error", err)
			continue
		}
		dirs = append(dirs, rc.EnvDirs(c.env.UserHome())...)
	}
	return dirs
}

// managerFor resolves prefix's manager, falling back to the configured
// binary and then the search path.
func (c *Conda) managerFor(prefix types.FilesystemPath) *pyenv.EnvManager {
	if mgr := c.resolver.ResolveFromDir(prefix); mgr != nil {
		return mgr
	}
	if c.executable != "" {
		if mgr := c.resolver.ResolveFromBinary(c.executable); mgr != nil {
			return mgr
		}
	}
	return c.resolver.ResolveFromSearchPath(c.env.PathEntries())
}

// interpreter returns prefix's python executable, or "" when the
// environment has none.
func (c *Conda) interpreter(prefix types.FilesystemPath) types.FilesystemPath {
	var candidates []types.FilesystemPath
	if platform.IsWindows(c.env.GOOS()) {
		candidates = append(candidates, fspath.Join(prefix, "python.exe"))
	}
	for _, name := range platform.PythonExecutableNames(c.env.GOOS()) {
		candidates = append(candidates, fspath.Join(prefix, platform.BinDir(c.env.GOOS()), name))
	}
	for _, exe := range candidates {
		if fspath.IsFile(exe) {
			return exe
		}
	}
	return ""
}

func (c *Conda) build(prefix, exe types.FilesystemPath, version string, mgr *pyenv.EnvManager) pyenv.PythonEnvironment {
	if version == "" {
		version = conda.PythonVersion(prefix)
	}
	return pyenv.NewBuilder(pyenv.KindConda).
		Name(c.envName(prefix, mgr)).
		Executable(exe).
		Prefix(prefix).
		Version(version).
		Manager(mgr).
		Build()
}

// envName names environments under an envs directory after their folder
// and the installation root "base". Other prefixes are identified by path.
func (c *Conda) envName(prefix types.FilesystemPath, mgr *pyenv.EnvManager) string {
	parent := fspath.Dir(prefix)
	if fspath.Base(parent) == "envs" {
		return fspath.Base(prefix)
	}
	for _, dir := range c.allEnvDirs() {
		if c.norm.Equal(fspath.Clean(dir), parent) {
			return fspath.Base(prefix)
		}
	}
	if mgr != nil && c.norm.Equal(conda.InstallRoot(mgr.Executable), fspath.Clean(prefix)) {
		return baseEnvName
	}
	return ""
}
