// SPDX-License-Identifier: MPL-2.0

package locator

import (
	"log/slog"
	"os"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/pylocate/pylocate/pkg/fspath"
	"github.com/pylocate/pylocate/pkg/pyenv"
	"github.com/pylocate/pylocate/pkg/types"
)

const (
	activateScript = "activate"
	promptVariable = "VIRTUAL_ENV_PROMPT"
)

// VirtualEnv recognizes environments created by the virtualenv tool.
type VirtualEnv struct{}

// NewVirtualEnv returns the virtualenv strategy.
func NewVirtualEnv() *VirtualEnv { return &VirtualEnv{} }

// Name returns the strategy name.
func (*VirtualEnv) Name() string { return "VirtualEnv" }

// Kind returns pyenv.KindVirtualEnv.
func (*VirtualEnv) Kind() pyenv.Kind { return pyenv.KindVirtualEnv }

// Classify accepts candidates carrying a prefix whose interpreter directory
// holds an activate script. The environment name comes from the prompt the
// activate script sets, else the prefix's base name.
func (*VirtualEnv) Classify(c pyenv.Candidate) *pyenv.PythonEnvironment {
	if c.Prefix == "" || c.Executable == "" {
		return nil
	}
	binDir := fspath.Dir(c.Executable)
	if !HasActivateScript(binDir) {
		return nil
	}

	name := ActivatePrompt(fspath.Join(binDir, activateScript))
	if name == "" {
		name = fspath.Base(c.Prefix)
	}
	env := pyenv.NewBuilder(pyenv.KindVirtualEnv).
		Name(name).
		Executable(c.Executable).
		Prefix(c.Prefix).
		Version(c.Version).
		Build()
	return &env
}

// Enumerate returns nil: virtualenvs have no well-known global location.
func (*VirtualEnv) Enumerate() *pyenv.LocatorResult { return nil }

// HasActivateScript reports whether dir holds "activate", "activate.bat",
// or any other file whose name starts with "activate".
func HasActivateScript(dir types.FilesystemPath) bool {
	if fspath.IsFile(fspath.Join(dir, activateScript)) || fspath.IsFile(fspath.Join(dir, activateScript+".bat")) {
		return true
	}
	for _, name := range fspath.ReadDirNames(dir) {
		if strings.HasPrefix(strings.ToLower(name), activateScript) && fspath.IsFile(fspath.Join(dir, name)) {
			return true
		}
	}
	return false
}

// ActivatePrompt parses a POSIX activate script and returns the first
// literal value it assigns to VIRTUAL_ENV_PROMPT, without decoration such
// as surrounding parentheses. It returns "" when the script is missing,
// unparsable, or only computes the prompt at run time.
func ActivatePrompt(script types.FilesystemPath) string {
	f, err := os.Open(string(script))
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()

	file, err := syntax.NewParser().Parse(f, string(script))
	if err != nil {
		slog.Debug("unparsable activate script", "path", script, "error", err)
		return ""
	}

	var prompt string
	syntax.Walk(file, func(node syntax.Node) bool {
		if prompt != "" {
			return false
		}
		assign, ok := node.(*syntax.Assign)
		if !ok || assign.Name == nil || assign.Name.Value != promptVariable || assign.Value == nil {
			return true
		}
		if lit, ok := literalWord(assign.Value); ok {
			prompt = strings.TrimSpace(strings.Trim(strings.TrimSpace(lit), "()"))
		}
		return true
	})
	return prompt
}

// literalWord returns the value of a word made only of literal and quoted
// literal parts.
func literalWord(w *syntax.Word) (string, bool) {
	var sb strings.Builder
	for _, part := range w.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, inner := range p.Parts {
				lit, ok := inner.(*syntax.Lit)
				if !ok {
					return "", false
				}
				sb.WriteString(lit.Value)
			}
		default:
			return "", false
		}
	}
	return sb.String(), true
}
