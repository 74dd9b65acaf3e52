// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"fmt"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/pylocate/pylocate/pkg/platform"
)

// CondaLayout describes a conda installation fixture.
type CondaLayout struct {
	// CondaVersion, when set, writes conda-meta/conda-<version>-py_0.json.
	CondaVersion string
	// MambaVersion, when set, writes conda-meta/mamba-<version>-py_0.json.
	MambaVersion string
	// PythonVersion, when set, gives the base environment an interpreter.
	PythonVersion string
	// Binaries are install-relative tool paths to create, e.g. "bin/conda".
	Binaries []string
	// Envs maps environment names under envs/ to their python version.
	// An empty version creates an environment without an interpreter.
	Envs map[string]string
}

// Interpreter creates an empty interpreter file under prefix using the host
// OS layout and returns its path.
func Interpreter(t testing.TB, prefix string) string {
	t.Helper()
	exe := filepath.Join(prefix, platform.BinDir(runtime.GOOS), platform.PythonExecutableNames(runtime.GOOS)[0])
	MustWriteFile(t, exe, "")
	return exe
}

// Venv creates a venv-style environment at prefix with a pyvenv.cfg
// recording version and returns the interpreter path.
func Venv(t testing.TB, prefix, version string) string {
	t.Helper()
	cfg := "home = /usr/bin\ninclude-system-site-packages = false\n"
	if version != "" {
		cfg += "version = " + version + "\n"
	}
	MustWriteFile(t, filepath.Join(prefix, "pyvenv.cfg"), cfg)
	return Interpreter(t, prefix)
}

// CondaInstall creates a conda installation rooted at root.
func CondaInstall(t testing.TB, root string, layout CondaLayout) {
	t.Helper()
	condaEnv(t, root, layout.PythonVersion)
	meta := filepath.Join(root, "conda-meta")
	if layout.CondaVersion != "" {
		MustWriteFile(t, filepath.Join(meta, fmt.Sprintf("conda-%s-py_0.json", layout.CondaVersion)), "{}")
	}
	if layout.MambaVersion != "" {
		MustWriteFile(t, filepath.Join(meta, fmt.Sprintf("mamba-%s-py_0.json", layout.MambaVersion)), "{}")
	}
	for _, bin := range layout.Binaries {
		MustWriteFile(t, filepath.Join(root, filepath.FromSlash(bin)), "")
	}
	for name, version := range layout.Envs {
		condaEnv(t, filepath.Join(root, "envs", name), version)
	}
}

// CondaEnv creates a standalone conda environment at prefix whose history
// records the command that created it.
func CondaEnv(t testing.TB, prefix, pythonVersion, createdBy string) {
	t.Helper()
	condaEnv(t, prefix, pythonVersion)
	if createdBy != "" {
		history := fmt.Sprintf("==> 2024-02-28 23:05:07 <==\n# cmd: %s create -n env\n# conda version: 23.11.0\n", createdBy)
		MustWriteFile(t, filepath.Join(prefix, "conda-meta", "history"), history)
	}
}

func condaEnv(t testing.TB, prefix, pythonVersion string) {
	t.Helper()
	MustMkdirAll(t, filepath.Join(prefix, "conda-meta"), 0o755)
	if pythonVersion == "" {
		return
	}
	MustWriteFile(t, filepath.Join(prefix, "conda-meta", fmt.Sprintf("python-%s-h1234_0.json", pythonVersion)), "{}")
	if runtime.GOOS == platform.Windows {
		MustWriteFile(t, filepath.Join(prefix, "python.exe"), "")
		return
	}
	Interpreter(t, prefix)
}
