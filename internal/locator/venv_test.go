// SPDX-License-Identifier: MPL-2.0

package locator

import (
	"path/filepath"
	"testing"

	"github.com/pylocate/pylocate/internal/testutil"
	"github.com/pylocate/pylocate/pkg/pyenv"
	"github.com/pylocate/pylocate/pkg/types"
)

func p(s string) types.FilesystemPath { return types.FilesystemPath(s) }

func TestVenv_Classify(t *testing.T) {
	t.Parallel()

	prefix := filepath.Join(t.TempDir(), ".venv")
	exe := testutil.Venv(t, prefix, "3.12.1")

	tests := []struct {
		name string
		cand pyenv.Candidate
	}{
		{"with prefix", pyenv.Candidate{Executable: p(exe), Prefix: p(prefix)}},
		{"prefix derived from cfg", pyenv.Candidate{Executable: p(exe)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := NewVenv().Classify(tt.cand)
			if env == nil {
				t.Fatal("expected a venv")
			}
			if env.Kind != pyenv.KindVenv {
				t.Errorf("Kind = %q", env.Kind)
			}
			if env.Prefix != p(prefix) {
				t.Errorf("Prefix = %q, want %q", env.Prefix, prefix)
			}
			if env.Version != "3.12.1" {
				t.Errorf("Version = %q, want 3.12.1", env.Version)
			}
			if env.Name != ".venv" {
				t.Errorf("Name = %q, want .venv", env.Name)
			}
			if !env.HasSymlink(p(exe)) {
				t.Error("executable should be among the symlinks")
			}
		})
	}
}

func TestVenv_CandidateVersionWins(t *testing.T) {
	t.Parallel()

	prefix := filepath.Join(t.TempDir(), "env")
	exe := testutil.Venv(t, prefix, "3.12.1")
	env := NewVenv().Classify(pyenv.Candidate{Executable: p(exe), Prefix: p(prefix), Version: "3.12.2"})
	if env == nil || env.Version != "3.12.2" {
		t.Fatalf("got %+v, want candidate version", env)
	}
}

func TestVenv_RejectsPlainInterpreter(t *testing.T) {
	t.Parallel()

	prefix := t.TempDir()
	exe := testutil.Interpreter(t, prefix)
	if env := NewVenv().Classify(pyenv.Candidate{Executable: p(exe), Prefix: p(prefix)}); env != nil {
		t.Errorf("expected nil, got %+v", *env)
	}
	if got := NewVenv().Enumerate(); got != nil {
		t.Errorf("Enumerate() = %+v, want nil", got)
	}
}

func TestParsePyVenvCfg(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    PyVenvCfg
	}{
		{
			name:    "venv",
			content: "home = /usr/bin\ninclude-system-site-packages = false\nversion = 3.12.1\nprompt = 'web'\n",
			want:    PyVenvCfg{Home: "/usr/bin", Version: "3.12.1", Prompt: "web"},
		},
		{
			name:    "virtualenv",
			content: "home = /usr/bin\nimplementation = CPython\nversion_info = 3.11.7.final.0\nvirtualenv = 20.25.0\n",
			want:    PyVenvCfg{Home: "/usr/bin", Version: "3.11.7"},
		},
		{
			name:    "uppercase keys and blanks",
			content: "\n[junk line]\nVERSION=3.10.4\n",
			want:    PyVenvCfg{Version: "3.10.4"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(dir, tt.name+".cfg")
			testutil.MustWriteFile(t, path, tt.content)
			got, err := ParsePyVenvCfg(p(path))
			if err != nil {
				t.Fatalf("ParsePyVenvCfg: %v", err)
			}
			tt.want.Path = p(path)
			if *got != tt.want {
				t.Errorf("got %+v, want %+v", *got, tt.want)
			}
		})
	}

	if _, err := ParsePyVenvCfg(p(filepath.Join(dir, "missing.cfg"))); err == nil {
		t.Error("expected error for missing file")
	}
}
