// SPDX-License-Identifier: MPL-2.0

package locator

import (
	"github.com/pylocate/pylocate/internal/conda"
	"github.com/pylocate/pylocate/internal/osenv"
	"github.com/pylocate/pylocate/pkg/pathnorm"
	"github.com/pylocate/pylocate/pkg/platform"
	"github.com/pylocate/pylocate/pkg/pyenv"
)

type (
	// RegistrySource enumerates the interpreters advertised in the Windows
	// registry. Reading the registry itself is the source's concern.
	RegistrySource interface {
		Environments() []pyenv.PythonEnvironment
	}

	// RegistrySourceFunc adapts a function to RegistrySource.
	RegistrySourceFunc func() []pyenv.PythonEnvironment

	// WindowsRegistry reports registry-advertised installations, leaving
	// conda environments to the Conda strategy.
	WindowsRegistry struct {
		env    osenv.Environment
		source RegistrySource
		norm   pathnorm.Normalizer
	}
)

// Environments calls f.
func (f RegistrySourceFunc) Environments() []pyenv.PythonEnvironment { return f() }

// NewWindowsRegistry returns the registry strategy. A nil source, or a
// non-Windows host, makes the strategy report nothing.
func NewWindowsRegistry(env osenv.Environment, source RegistrySource) *WindowsRegistry {
	return &WindowsRegistry{env: env, source: source, norm: pathnorm.ForOS(env.GOOS())}
}

// Name returns the strategy name.
func (*WindowsRegistry) Name() string { return "WindowsRegistry" }

// Kind returns pyenv.KindWindowsRegistry.
func (*WindowsRegistry) Kind() pyenv.Kind { return pyenv.KindWindowsRegistry }

// Classify succeeds only for a candidate whose executable matches an
// advertised installation that is not a conda environment.
func (w *WindowsRegistry) Classify(c pyenv.Candidate) *pyenv.PythonEnvironment {
	if c.Executable == "" || !w.available() {
		return nil
	}
	if c.Prefix != "" && conda.IsCondaEnv(c.Prefix) {
		return nil
	}
	want := w.norm.NormCase(c.Executable)
	for _, env := range w.environments() {
		if w.norm.NormCase(env.Executable) == want {
			return &env
		}
		for _, link := range env.Symlinks {
			if w.norm.NormCase(link) == want {
				return &env
			}
		}
	}
	return nil
}

// Enumerate returns the advertised installations that are not conda
// environments, or nil when there are none.
func (w *WindowsRegistry) Enumerate() *pyenv.LocatorResult {
	if !w.available() {
		return nil
	}
	envs := w.environments()
	if len(envs) == 0 {
		return nil
	}
	return &pyenv.LocatorResult{Environments: envs}
}

func (w *WindowsRegistry) available() bool {
	return w.source != nil && platform.IsWindows(w.env.GOOS())
}

func (w *WindowsRegistry) environments() []pyenv.PythonEnvironment {
	var out []pyenv.PythonEnvironment
	for _, e := range w.source.Environments() {
		if e.Prefix != "" && conda.IsCondaEnv(e.Prefix) {
			continue
		}
		if e.Executable == "" && e.Prefix == "" {
			continue
		}
		out = append(out, pyenv.NewBuilder(pyenv.KindWindowsRegistry).
			Name(e.Name).
			Executable(e.Executable).
			Prefix(e.Prefix).
			Version(e.Version).
			Arch(e.Arch).
			Symlinks(e.Symlinks...).
			Manager(e.Manager).
			Build())
	}
	return out
}
