// SPDX-License-Identifier: MPL-2.0

package locator

import (
	"log/slog"

	"github.com/pylocate/pylocate/pkg/fspath"
	"github.com/pylocate/pylocate/pkg/pyenv"
)

// Venv recognizes environments created by the venv module.
type Venv struct{}

// NewVenv returns the venv strategy.
func NewVenv() *Venv { return &Venv{} }

// Name returns the strategy name.
func (*Venv) Name() string { return "Venv" }

// Kind returns pyenv.KindVenv.
func (*Venv) Kind() pyenv.Kind { return pyenv.KindVenv }

// Classify accepts candidates with a pyvenv.cfg beside the interpreter, in
// the interpreter's parent directory, or at the prefix.
func (*Venv) Classify(c pyenv.Candidate) *pyenv.PythonEnvironment {
	cfgPath := FindPyVenvCfg(c.Executable, c.Prefix)
	if cfgPath == "" {
		return nil
	}

	prefix := c.Prefix
	if prefix == "" {
		prefix = fspath.Dir(cfgPath)
	}
	version := c.Version
	if version == "" {
		cfg, err := ParsePyVenvCfg(cfgPath)
		if err != nil {
			slog.Debug("unreadable pyvenv.cfg", "path", cfgPath, "error", err)
		} else {
			version = cfg.Version
		}
	}

	env := pyenv.NewBuilder(pyenv.KindVenv).
		Name(fspath.Base(prefix)).
		Executable(c.Executable).
		Prefix(prefix).
		Version(version).
		Build()
	return &env
}

// Enumerate returns nil: venvs have no well-known global location.
func (*Venv) Enumerate() *pyenv.LocatorResult { return nil }
