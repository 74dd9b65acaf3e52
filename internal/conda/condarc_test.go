// SPDX-License-Identifier: MPL-2.0

package conda

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/pylocate/pylocate/internal/osenv"
	"github.com/pylocate/pylocate/internal/testutil"
	"github.com/pylocate/pylocate/pkg/platform"
	"github.com/pylocate/pylocate/pkg/types"
)

func pathsOf(ss []string) []types.FilesystemPath {
	out := make([]types.FilesystemPath, 0, len(ss))
	for _, s := range ss {
		out = append(out, types.FilesystemPath(s))
	}
	return out
}

func TestReadCondaRC(t *testing.T) {
	t.Parallel()

	rcPath := filepath.Join(t.TempDir(), ".condarc")
	testutil.MustWriteFile(t, rcPath, "channels:\n  - conda-forge\nenvs_dirs:\n  - ~/my-envs\n  - /shared/envs\n  - ''\npkgs_dirs:\n  - /shared/pkgs\n")

	rc, err := ReadCondaRC(p(rcPath))
	if err != nil {
		t.Fatalf("ReadCondaRC: %v", err)
	}
	got := rc.EnvDirs("/home/dev")
	want := []types.FilesystemPath{p(filepath.Clean("/home/dev/my-envs")), p(filepath.Clean("/shared/envs"))}
	if !slices.Equal(got, want) {
		t.Errorf("EnvDirs = %v, want %v", got, want)
	}
	if !slices.Equal(rc.PkgsDirs, []string{"/shared/pkgs"}) {
		t.Errorf("PkgsDirs = %v", rc.PkgsDirs)
	}
}

func TestReadCondaRC_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := ReadCondaRC(p(filepath.Join(dir, "missing"))); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad")
	testutil.MustWriteFile(t, bad, "envs_dirs: [unterminated\n")
	if _, err := ReadCondaRC(p(bad)); err == nil {
		t.Error("expected error for malformed YAML")
	}
	var nilRC *RC
	if got := nilRC.EnvDirs("/home"); got != nil {
		t.Errorf("nil RC EnvDirs = %v", got)
	}
}

func TestRCLocations(t *testing.T) {
	t.Parallel()

	env := &osenv.Snapshot{
		OS:      platform.Linux,
		Home:    "/home/dev",
		RootDir: "/",
		Vars:    map[string]string{"CONDARC": "/custom/condarc"},
	}
	got := RCLocations(env)
	for _, want := range []types.FilesystemPath{"/etc/conda/.condarc", "/home/dev/.condarc", "/home/dev/.config/conda/.condarc", "/custom/condarc"} {
		if !slices.Contains(got, p(filepath.FromSlash(string(want)))) && !slices.Contains(got, want) {
			t.Errorf("RCLocations missing %s: %v", want, got)
		}
	}
	if got[len(got)-1] != "/custom/condarc" {
		t.Errorf("CONDARC should be read last, got %v", got)
	}
}

func TestReadEnvironmentsTxt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "environments.txt")
	testutil.MustWriteFile(t, path, "/opt/conda\n\n# comment\n  /home/dev/envs/web  \n")
	got := ReadEnvironmentsTxt(p(path))
	want := []types.FilesystemPath{"/opt/conda", "/home/dev/envs/web"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := ReadEnvironmentsTxt(p(filepath.Join(t.TempDir(), "none"))); got != nil {
		t.Errorf("missing file should yield nil, got %v", got)
	}
}

func TestReadHistoryCommands(t *testing.T) {
	t.Parallel()

	prefix := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(prefix, "conda-meta", "history"),
		"==> 2024-02-28 23:05:07 <==\n# cmd: /opt/conda/bin/conda create -n web python=3.12\n"+
			"+defaults::python-3.12.1\n# cmd: \"/Program Files/conda/conda\" install numpy\n")
	got := ReadHistoryCommands(p(prefix))
	want := []string{"/opt/conda/bin/conda", "/Program Files/conda/conda"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPackageVersion_HighestWins(t *testing.T) {
	t.Parallel()

	prefix := t.TempDir()
	for _, name := range []string{"conda-4.14.0-py39_0.json", "conda-23.1.0-py310_0.json", "conda-9.0.0-py38_0.json", "conda-build-99.0-py_0.json"} {
		testutil.MustWriteFile(t, filepath.Join(prefix, "conda-meta", name), "{}")
	}
	if got := packageVersion(p(prefix), "conda"); got != "23.1.0" {
		t.Errorf("packageVersion = %q, want 23.1.0", got)
	}
	if got := PythonVersion(p(prefix)); got != "" {
		t.Errorf("PythonVersion = %q, want empty", got)
	}
}
