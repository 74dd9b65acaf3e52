// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/pylocate/pylocate/internal/config"
	"github.com/pylocate/pylocate/internal/consistency"
	"github.com/pylocate/pylocate/internal/discovery"
	"github.com/pylocate/pylocate/pkg/pyenv"
	"github.com/pylocate/pylocate/pkg/types"
)

func sampleResult() *discovery.Result {
	manager := &pyenv.EnvManager{Executable: "/opt/conda/bin/conda", Version: "24.1.2", Type: pyenv.ManagerConda}
	return &discovery.Result{
		Managers: []pyenv.EnvManager{*manager},
		Environments: []pyenv.PythonEnvironment{
			pyenv.NewBuilder(pyenv.KindConda).
				Name("base").
				Executable("/opt/conda/bin/python").
				Prefix("/opt/conda").
				Version("3.12.1").
				Manager(manager).
				Build(),
			pyenv.NewBuilder(pyenv.KindVenv).
				Name(".venv").
				Executable("/work/app/.venv/bin/python").
				Prefix("/work/app/.venv").
				Version("3.11.4").
				Build(),
		},
	}
}

func TestBuildFindRequest(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.SearchPaths = []string{"/srv/projects"}
	cfg.EnvironmentDirectories = []string{"/data/envs"}
	cfg.CondaExecutable = "/from/config/conda"
	cfg.WorkspaceOnly = true
	cfg.Concurrency = 2
	cfg.Kinds = []string{"venv"}

	tests := []struct {
		name  string
		flags findFlags
		args  []string
		ws    bool
		conc  bool
		check func(t *testing.T, req FindRequest)
	}{
		{
			name: "config only",
			check: func(t *testing.T, req FindRequest) {
				t.Helper()
				if !slices.Equal(req.SearchPaths, []types.FilesystemPath{".", "/srv/projects"}) {
					t.Errorf("SearchPaths = %v", req.SearchPaths)
				}
				if req.CondaExecutable != "/from/config/conda" || !req.WorkspaceOnly || req.Concurrency != 2 {
					t.Errorf("request = %+v", req)
				}
				if !slices.Equal(req.Kinds, []pyenv.Kind{pyenv.KindVenv}) {
					t.Errorf("Kinds = %v", req.Kinds)
				}
			},
		},
		{
			name:  "flags override",
			flags: findFlags{condaExecutable: "/flag/conda", kinds: []string{"conda"}, envDirs: []string{"/flag/envs"}, concurrency: 8},
			args:  []string{"/work"},
			ws:    true,
			conc:  true,
			check: func(t *testing.T, req FindRequest) {
				t.Helper()
				if !slices.Equal(req.SearchPaths, []types.FilesystemPath{"/work", "/srv/projects"}) {
					t.Errorf("SearchPaths = %v", req.SearchPaths)
				}
				if !slices.Equal(req.EnvironmentDirectories, []types.FilesystemPath{"/flag/envs", "/data/envs"}) {
					t.Errorf("EnvironmentDirectories = %v", req.EnvironmentDirectories)
				}
				if req.CondaExecutable != "/flag/conda" || req.WorkspaceOnly || req.Concurrency != 8 {
					t.Errorf("request = %+v", req)
				}
				if !slices.Equal(req.Kinds, []pyenv.Kind{pyenv.KindConda}) {
					t.Errorf("Kinds = %v", req.Kinds)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req, err := buildFindRequest(&session{cfg: cfg}, tt.flags, tt.args, tt.ws, tt.conc)
			if err != nil {
				t.Fatalf("buildFindRequest() error: %v", err)
			}
			tt.check(t, req)
		})
	}
}

func TestBuildFindRequest_Errors(t *testing.T) {
	t.Parallel()

	s := &session{cfg: config.DefaultConfig()}
	if _, err := buildFindRequest(s, findFlags{kinds: []string{"pipenv"}}, nil, false, false); !errors.Is(err, pyenv.ErrInvalidKind) {
		t.Errorf("expected ErrInvalidKind, got %v", err)
	}
	if _, err := buildFindRequest(s, findFlags{concurrency: -1}, nil, false, true); err == nil {
		t.Error("expected error for negative concurrency")
	}

	req, err := buildFindRequest(s, findFlags{}, nil, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(req.SearchPaths) != 0 {
		t.Errorf("expected no search paths without args or config, got %v", req.SearchPaths)
	}
}

func TestFindCommand_JSON(t *testing.T) {
	disc := &stubDiscovery{result: sampleResult()}
	stdout, _, err := runCLI(t, Dependencies{Discovery: disc}, "find", "--json", "--kind", "conda,venv", "/work")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}

	doc, err := consistency.ParseDocument("stdout", []byte(stdout))
	if err != nil {
		t.Fatalf("find output is not a valid document: %v\n%s", err, stdout)
	}
	if len(doc.Environments) != 2 || len(doc.Managers) != 1 {
		t.Errorf("document = %+v", doc)
	}
	if doc.Environments[0].Manager == nil || doc.Environments[0].Manager.Type != pyenv.ManagerConda {
		t.Errorf("manager not preserved: %+v", doc.Environments[0])
	}
	if got := disc.got[0].Kinds; len(got) != 2 {
		t.Errorf("Kinds = %v", got)
	}
}

func TestFindCommand_EmptyJSON(t *testing.T) {
	stdout, _, err := runCLI(t, Dependencies{}, "find", "--json")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stdout), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if string(raw["environments"]) != "[]" || string(raw["managers"]) != "[]" {
		t.Errorf("empty result should encode empty arrays, got %s", stdout)
	}
}

func TestFindCommand_Table(t *testing.T) {
	stdout, _, err := runCLI(t, Dependencies{Discovery: &stubDiscovery{result: sampleResult()}}, "find")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	for _, want := range []string{"conda", "base", "3.12.1", "/work/app/.venv/bin/python", "Conda", "2 environment(s), 1 manager(s)"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("table output missing %q:\n%s", want, stdout)
		}
	}
}

func TestFindCommand_Diagnostics(t *testing.T) {
	result := &discovery.Result{Diagnostics: []discovery.Diagnostic{{
		Severity: discovery.SeverityWarning,
		Code:     discovery.CodeSearchRootMissing,
		Message:  "search root /nope matched no directory",
		Path:     "/nope",
	}}}
	_, stderr, err := runCLI(t, Dependencies{Discovery: &stubDiscovery{result: result}}, "find", "--verbose", "/nope")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if !strings.Contains(stderr, "search root /nope matched no directory") {
		t.Errorf("stderr missing diagnostic: %q", stderr)
	}
	if !strings.Contains(stderr, "Search path not found") {
		t.Errorf("verbose stderr should include the issue guidance: %q", stderr)
	}
}

func TestFindCommand_DiscoveryError(t *testing.T) {
	_, _, err := runCLI(t, Dependencies{Discovery: &stubDiscovery{err: errors.New("canceled")}}, "find")
	if err == nil || !strings.Contains(err.Error(), "canceled") {
		t.Errorf("expected discovery error, got %v", err)
	}
}
