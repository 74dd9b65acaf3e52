// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/pylocate/pylocate/internal/config"
	"github.com/pylocate/pylocate/internal/consistency"
	"github.com/pylocate/pylocate/internal/discovery"
	"github.com/pylocate/pylocate/pkg/types"
)

type (
	stubConfig struct {
		cfg *config.Config
		err error
	}

	stubDiscovery struct {
		result *discovery.Result
		err    error
		got    []FindRequest
	}

	stubDocuments map[types.FilesystemPath]*consistency.Document
)

func (s *stubConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.cfg == nil {
		return config.DefaultConfig(), nil
	}
	return s.cfg, nil
}

func (s *stubDiscovery) Find(_ context.Context, req FindRequest) (*discovery.Result, error) {
	s.got = append(s.got, req)
	if s.err != nil {
		return nil, s.err
	}
	if s.result == nil {
		return &discovery.Result{}, nil
	}
	return s.result, nil
}

func (s stubDocuments) Read(path types.FilesystemPath) (*consistency.Document, error) {
	doc, ok := s[path]
	if !ok {
		return nil, errors.New("no such document")
	}
	return doc, nil
}

// runCLI executes the command tree with stub services and captured output.
func runCLI(t *testing.T, deps Dependencies, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	deps.Stdout = &out
	deps.Stderr = &errOut
	if deps.Config == nil {
		deps.Config = &stubConfig{}
	}
	if deps.Discovery == nil {
		deps.Discovery = &stubDiscovery{}
	}
	if deps.Documents == nil {
		deps.Documents = stubDocuments{}
	}

	root := NewRootCommand(NewApp(deps))
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q", got)
		}
	})
}

func TestRoot_ConfigErrorIsWarning(t *testing.T) {
	disc := &stubDiscovery{}
	_, stderr, err := runCLI(t, Dependencies{
		Config:    &stubConfig{err: errors.New("broken config")},
		Discovery: disc,
	}, "find", "--json")
	if err != nil {
		t.Fatalf("find should run on defaults, got %v", err)
	}
	if !bytes.Contains([]byte(stderr), []byte("broken config")) {
		t.Errorf("stderr should mention the config error, got %q", stderr)
	}
	if len(disc.got) != 1 {
		t.Fatalf("expected one discovery run, got %d", len(disc.got))
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain")
	if got := formatErrorForDisplay(plain, false); got != "plain" {
		t.Errorf("formatErrorForDisplay(plain) = %q", got)
	}

	_, _, err := config.Resolve(context.Background(), config.LoadOptions{ConfigFilePath: "/does/not/exist.cue"})
	if err == nil {
		t.Fatal("expected error")
	}
	got := formatErrorForDisplay(err, false)
	if !bytes.Contains([]byte(got), []byte("•")) {
		t.Errorf("actionable errors should list suggestions, got %q", got)
	}
}

func TestApplyColorScheme_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	if got := applyColorScheme(config.ColorSchemeAuto, &buf); got != "notty" {
		t.Errorf("applyColorScheme() = %q, want notty", got)
	}
}
