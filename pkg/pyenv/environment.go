// SPDX-License-Identifier: MPL-2.0

package pyenv

import (
	"log/slog"
	"slices"

	"github.com/pylocate/pylocate/pkg/pathnorm"
	"github.com/pylocate/pylocate/pkg/types"
)

type (
	// EnvManager describes a tool capable of managing environments.
	EnvManager struct {
		Executable types.FilesystemPath `json:"executable"`
		Version    string               `json:"version,omitempty"`
		Type       ManagerType          `json:"tool"`
	}

	// PythonEnvironment is a discovered interpreter or environment.
	// Zero-valued fields mean "unknown". Symlinks always contains
	// Executable when Executable is present.
	PythonEnvironment struct {
		Kind       Kind                   `json:"kind"`
		Name       string                 `json:"name,omitempty"`
		Executable types.FilesystemPath   `json:"executable,omitempty"`
		Prefix     types.FilesystemPath   `json:"prefix,omitempty"`
		Version    string                 `json:"version,omitempty"`
		Arch       Architecture           `json:"arch,omitempty"`
		Symlinks   []types.FilesystemPath `json:"symlinks,omitempty"`
		Manager    *EnvManager            `json:"manager,omitempty"`
	}

	// Builder assembles a PythonEnvironment.
	Builder struct {
		env PythonEnvironment
	}
)

// NewBuilder starts a PythonEnvironment of the given kind.
func NewBuilder(kind Kind) *Builder {
	return &Builder{env: PythonEnvironment{Kind: kind}}
}

// Name sets the display name.
func (b *Builder) Name(name string) *Builder { b.env.Name = name; return b }

// Executable sets the interpreter path.
func (b *Builder) Executable(p types.FilesystemPath) *Builder { b.env.Executable = p; return b }

// Prefix sets the environment root.
func (b *Builder) Prefix(p types.FilesystemPath) *Builder { b.env.Prefix = p; return b }

// Version sets the interpreter version.
func (b *Builder) Version(v string) *Builder { b.env.Version = v; return b }

// Arch sets the interpreter architecture.
func (b *Builder) Arch(a Architecture) *Builder { b.env.Arch = a; return b }

// Symlinks adds alternate paths for the same interpreter.
func (b *Builder) Symlinks(paths ...types.FilesystemPath) *Builder {
	b.env.Symlinks = append(b.env.Symlinks, paths...)
	return b
}

// Manager sets the managing tool. A nil manager clears it.
func (b *Builder) Manager(m *EnvManager) *Builder {
	if m == nil {
		b.env.Manager = nil
		return b
	}
	cp := *m
	b.env.Manager = &cp
	return b
}

// Build returns the assembled environment. The executable is folded into
// Symlinks, which is then sorted and de-duplicated.
func (b *Builder) Build() PythonEnvironment {
	env := b.env
	links := make([]types.FilesystemPath, 0, len(env.Symlinks)+1)
	for _, l := range env.Symlinks {
		if l != "" {
			links = append(links, l)
		}
	}
	if env.Executable != "" {
		links = append(links, env.Executable)
	}
	slices.Sort(links)
	links = slices.Compact(links)
	if len(links) == 0 {
		links = nil
	}
	env.Symlinks = links
	if env.Manager != nil {
		cp := *env.Manager
		env.Manager = &cp
	}
	return env
}

// Key returns the identity used for de-duplication: the case-normalized
// executable when present, otherwise the case-normalized prefix. It is empty
// when both are absent.
func (e PythonEnvironment) Key() types.FilesystemPath {
	return e.KeyWith(pathnorm.Host())
}

// KeyWith returns Key computed with the given normalizer's case rules.
func (e PythonEnvironment) KeyWith(n pathnorm.Normalizer) types.FilesystemPath {
	if e.Executable != "" {
		return n.NormCase(e.Executable)
	}
	return n.NormCase(e.Prefix)
}

// HasSymlink reports whether p, after case normalization, is one of the
// environment's symlinks.
func (e PythonEnvironment) HasSymlink(p types.FilesystemPath) bool {
	if p == "" {
		return false
	}
	want := pathnorm.NormCase(p)
	for _, l := range e.Symlinks {
		if pathnorm.NormCase(l) == want {
			return true
		}
	}
	return false
}

// LogValue implements slog.LogValuer so environments log as a group.
func (e PythonEnvironment) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("kind", e.Kind.String())}
	if e.Name != "" {
		attrs = append(attrs, slog.String("name", e.Name))
	}
	if e.Executable != "" {
		attrs = append(attrs, slog.String("executable", e.Executable.String()))
	}
	if e.Prefix != "" {
		attrs = append(attrs, slog.String("prefix", e.Prefix.String()))
	}
	if e.Version != "" {
		attrs = append(attrs, slog.String("version", e.Version))
	}
	if e.Arch != "" {
		attrs = append(attrs, slog.String("arch", e.Arch.String()))
	}
	if e.Manager != nil {
		attrs = append(attrs, slog.String("manager", e.Manager.Executable.String()))
	}
	return slog.GroupValue(attrs...)
}
