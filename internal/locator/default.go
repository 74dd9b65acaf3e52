// SPDX-License-Identifier: MPL-2.0

package locator

import (
	"github.com/pylocate/pylocate/internal/osenv"
	"github.com/pylocate/pylocate/pkg/pyenv"
	"github.com/pylocate/pylocate/pkg/types"
)

// Options configures the default strategy set.
type Options struct {
	// CondaExecutable pins the conda binary.
	CondaExecutable types.FilesystemPath
	// CondaEnvDirs adds directories holding conda environments.
	CondaEnvDirs []types.FilesystemPath
	// Registry supplies Windows registry installations; nil disables them.
	Registry RegistrySource
}

// Default returns every strategy in registration order: Conda,
// WindowsRegistry, Venv, VirtualEnv. Earlier strategies win when two report
// the same environment.
func Default(env osenv.Environment, opts Options) []pyenv.Locator {
	return []pyenv.Locator{
		NewConda(env, WithCondaExecutable(opts.CondaExecutable), WithCondaEnvDirs(opts.CondaEnvDirs...)),
		NewWindowsRegistry(env, opts.Registry),
		NewVenv(),
		NewVirtualEnv(),
	}
}
