// SPDX-License-Identifier: MPL-2.0

package locator

import (
	"path/filepath"
	"testing"

	"github.com/pylocate/pylocate/internal/osenv"
	"github.com/pylocate/pylocate/internal/testutil"
	"github.com/pylocate/pylocate/pkg/platform"
	"github.com/pylocate/pylocate/pkg/pyenv"
)

func registryFixture(t *testing.T) (RegistrySource, string) {
	t.Helper()
	condaPrefix := filepath.Join(t.TempDir(), "Anaconda3")
	testutil.MustMkdirAll(t, filepath.Join(condaPrefix, "conda-meta"), 0o755)

	src := RegistrySourceFunc(func() []pyenv.PythonEnvironment {
		return []pyenv.PythonEnvironment{
			{Kind: pyenv.KindConda, Executable: `C:\Python312\python.exe`, Prefix: `C:\Python312`, Version: "3.12.1", Arch: pyenv.ArchX64},
			{Executable: p(filepath.Join(condaPrefix, "python.exe")), Prefix: p(condaPrefix)},
			{},
		}
	})
	return src, condaPrefix
}

func TestWindowsRegistry_Enumerate(t *testing.T) {
	t.Parallel()

	src, _ := registryFixture(t)
	w := NewWindowsRegistry(&osenv.Snapshot{OS: platform.Windows}, src)
	result := w.Enumerate()
	if result == nil || len(result.Environments) != 1 {
		t.Fatalf("Enumerate() = %+v, want the single non-conda install", result)
	}
	env := result.Environments[0]
	if env.Kind != pyenv.KindWindowsRegistry || env.Arch != pyenv.ArchX64 || env.Version != "3.12.1" {
		t.Errorf("got %+v", env)
	}
	if !env.HasSymlink(env.Executable) {
		t.Error("executable should be among the symlinks")
	}
}

func TestWindowsRegistry_Classify(t *testing.T) {
	t.Parallel()

	src, condaPrefix := registryFixture(t)
	w := NewWindowsRegistry(&osenv.Snapshot{OS: platform.Windows}, src)

	env := w.Classify(pyenv.Candidate{Executable: `c:\python312\PYTHON.EXE`})
	if env == nil || env.Prefix != `C:\Python312` {
		t.Errorf("case-insensitive match expected, got %+v", env)
	}
	if env := w.Classify(pyenv.Candidate{Executable: `C:\Other\python.exe`}); env != nil {
		t.Errorf("unadvertised executable matched: %+v", *env)
	}
	if env := w.Classify(pyenv.Candidate{Executable: p(filepath.Join(condaPrefix, "python.exe")), Prefix: p(condaPrefix)}); env != nil {
		t.Errorf("conda prefix must be left to the conda strategy: %+v", *env)
	}
}

func TestWindowsRegistry_UnavailableOffWindows(t *testing.T) {
	t.Parallel()

	src, _ := registryFixture(t)
	w := NewWindowsRegistry(&osenv.Snapshot{OS: platform.Linux}, src)
	if got := w.Enumerate(); got != nil {
		t.Errorf("Enumerate() = %+v, want nil", got)
	}
	if got := w.Classify(pyenv.Candidate{Executable: `C:\Python312\python.exe`}); got != nil {
		t.Errorf("Classify() = %+v, want nil", got)
	}
	if got := NewWindowsRegistry(&osenv.Snapshot{OS: platform.Windows}, nil).Enumerate(); got != nil {
		t.Errorf("nil source: Enumerate() = %+v, want nil", got)
	}
}

func TestDefault_RegistrationOrder(t *testing.T) {
	t.Parallel()

	locs := Default(&osenv.Snapshot{OS: platform.Linux}, Options{})
	want := []pyenv.Kind{pyenv.KindConda, pyenv.KindWindowsRegistry, pyenv.KindVenv, pyenv.KindVirtualEnv}
	if len(locs) != len(want) {
		t.Fatalf("got %d locators, want %d", len(locs), len(want))
	}
	for i, l := range locs {
		if l.Kind() != want[i] {
			t.Errorf("locator %d = %s, want %s", i, l.Kind(), want[i])
		}
		if l.Name() != want[i].String() {
			t.Errorf("locator %d name = %q", i, l.Name())
		}
	}
}
