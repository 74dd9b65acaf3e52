// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pylocate/pylocate/pkg/fspath"
	"github.com/pylocate/pylocate/pkg/platform"
	"github.com/pylocate/pylocate/pkg/pyenv"
	"github.com/pylocate/pylocate/pkg/types"
)

const globMeta = "*?[{"

// collectCandidates gathers interpreters under the search roots and, unless
// restricted to the workspace, in the host's global search locations: the
// executable search path followed by conventional install directories. Explicit
// candidates come first. The result holds one candidate per normalized
// executable.
func (d *Discovery) collectCandidates(ctx context.Context) ([]pyenv.Candidate, []Diagnostic, error) {
	var (
		out   []pyenv.Candidate
		diags []Diagnostic
		seen  = make(map[types.FilesystemPath]struct{})
	)
	add := func(c pyenv.Candidate) {
		key := d.norm.NormCase(c.Executable)
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}

	for _, c := range d.candidates {
		add(c)
	}

	for _, pattern := range d.searchRoots {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		roots, diag := expandSearchRoot(pattern)
		if diag != nil {
			diags = append(diags, *diag)
			continue
		}
		for _, root := range roots {
			found, diag := d.scanRoot(root)
			if diag != nil {
				diags = append(diags, *diag)
			}
			for _, c := range found {
				add(c)
			}
		}
	}

	if !d.workspaceOnly {
		for _, entry := range d.env.KnownGlobalSearchLocations() {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			if found := d.interpretersIn(entry); len(found) > 0 {
				add(pyenv.Candidate{Executable: found[0], Prefix: prefixForBinDir(entry)})
			}
		}
	}
	return out, diags, nil
}

// expandSearchRoot resolves a search root to existing directories. Patterns
// containing glob metacharacters are expanded with doublestar semantics.
func expandSearchRoot(pattern types.FilesystemPath) ([]types.FilesystemPath, *Diagnostic) {
	raw := string(pattern)
	if !strings.ContainsAny(raw, globMeta) {
		abs, err := fspath.Abs(pattern)
		if err != nil {
			abs = pattern
		}
		if !fspath.IsDir(abs) {
			d := warning(CodeSearchRootMissing, fmt.Sprintf("search path %s does not exist", pattern), pattern, nil)
			return nil, &d
		}
		return []types.FilesystemPath{abs}, nil
	}

	if !doublestar.ValidatePathPattern(raw) {
		d := warning(CodeSearchRootGlobInvalid, fmt.Sprintf("search path pattern %s is invalid", pattern), pattern, doublestar.ErrBadPattern)
		return nil, &d
	}
	matches, err := doublestar.FilepathGlob(raw)
	if err != nil {
		d := warning(CodeSearchRootGlobInvalid, fmt.Sprintf("search path pattern %s is invalid", pattern), pattern, err)
		return nil, &d
	}

	var roots []types.FilesystemPath
	for _, m := range matches {
		p := types.FilesystemPath(m)
		if abs, err := fspath.Abs(p); err == nil {
			p = abs
		}
		if fspath.IsDir(p) {
			roots = append(roots, p)
		}
	}
	if len(roots) == 0 {
		d := warning(CodeSearchRootMissing, fmt.Sprintf("search path pattern %s matched no directories", pattern), pattern, nil)
		return nil, &d
	}
	return roots, nil
}

// scanRoot returns candidates for root and each immediate subdirectory that
// holds an interpreter; that directory becomes the candidate's prefix.
func (d *Discovery) scanRoot(root types.FilesystemPath) ([]pyenv.Candidate, *Diagnostic) {
	var out []pyenv.Candidate
	for _, exe := range d.interpretersAt(root) {
		out = append(out, pyenv.Candidate{Executable: exe, Prefix: root})
	}

	entries, err := os.ReadDir(string(root))
	if err != nil {
		diag := warning(CodeSearchRootUnreadable, fmt.Sprintf("cannot list search path %s", root), root, err)
		return out, &diag
	}
	for _, e := range entries {
		if !e.IsDir() && e.Type()&os.ModeSymlink == 0 {
			continue
		}
		sub := fspath.Join(root, e.Name())
		if !fspath.IsDir(sub) {
			continue
		}
		for _, exe := range d.interpretersAt(sub) {
			out = append(out, pyenv.Candidate{Executable: exe, Prefix: sub})
		}
	}
	return out, nil
}

// interpretersAt returns the interpreters of the environment rooted at
// prefix. Only the first matching name is returned so aliases like python3
// do not become separate candidates.
func (d *Discovery) interpretersAt(prefix types.FilesystemPath) []types.FilesystemPath {
	goos := d.env.GOOS()
	if found := d.interpretersIn(fspath.Join(prefix, platform.BinDir(goos))); len(found) > 0 {
		return found[:1]
	}
	if platform.IsWindows(goos) {
		// Conda and registry installs keep python.exe at the prefix root.
		if exe := fspath.Join(prefix, "python.exe"); fspath.IsFile(exe) {
			return []types.FilesystemPath{exe}
		}
	}
	return nil
}

// interpretersIn returns the interpreter files present directly in dir.
func (d *Discovery) interpretersIn(dir types.FilesystemPath) []types.FilesystemPath {
	if dir == "" {
		return nil
	}
	var out []types.FilesystemPath
	for _, name := range platform.PythonExecutableNames(d.env.GOOS()) {
		if exe := fspath.Join(dir, name); fspath.IsFile(exe) {
			out = append(out, exe)
		}
	}
	return out
}

// prefixForBinDir maps a search path entry to the prefix it belongs to.
func prefixForBinDir(dir types.FilesystemPath) types.FilesystemPath {
	switch strings.ToLower(fspath.Base(dir)) {
	case "bin", "scripts":
		return fspath.Dir(dir)
	default:
		return dir
	}
}
