// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"runtime"
	"testing"

	"github.com/pylocate/pylocate/internal/osenv"
	"github.com/pylocate/pylocate/pkg/pyenv"
	"github.com/pylocate/pylocate/pkg/types"
)

// stubLocator is a scripted strategy.
type stubLocator struct {
	kind      pyenv.Kind
	enumerate *pyenv.LocatorResult
	classify  func(pyenv.Candidate) *pyenv.PythonEnvironment
}

func (s *stubLocator) Name() string     { return "stub-" + s.kind.String() }
func (s *stubLocator) Kind() pyenv.Kind { return s.kind }

func (s *stubLocator) Classify(c pyenv.Candidate) *pyenv.PythonEnvironment {
	if s.classify == nil {
		return nil
	}
	return s.classify(c)
}

func (s *stubLocator) Enumerate() *pyenv.LocatorResult { return s.enumerate }

// classifyAll returns a classifier accepting every candidate as kind.
func classifyAll(kind pyenv.Kind) func(pyenv.Candidate) *pyenv.PythonEnvironment {
	return func(c pyenv.Candidate) *pyenv.PythonEnvironment {
		env := pyenv.NewBuilder(kind).Executable(c.Executable).Prefix(c.Prefix).Build()
		return &env
	}
}

// isolatedEnv returns a snapshot with no search path and no global locations.
func isolatedEnv(t *testing.T) *osenv.Snapshot {
	t.Helper()
	return &osenv.Snapshot{
		OS:      runtime.GOOS,
		Home:    types.FilesystemPath(t.TempDir()),
		RootDir: types.FilesystemPath(t.TempDir()),
		Globals: []types.FilesystemPath{},
	}
}

func p(s string) types.FilesystemPath { return types.FilesystemPath(s) }

func containsDiagnostic(diags []Diagnostic, code string, path types.FilesystemPath) bool {
	for _, d := range diags {
		if d.Code == code && d.Path == path {
			return true
		}
	}
	return false
}

func kindsOf(envs []pyenv.PythonEnvironment) []pyenv.Kind {
	out := make([]pyenv.Kind, 0, len(envs))
	for _, e := range envs {
		out = append(out, e.Kind)
	}
	return out
}
