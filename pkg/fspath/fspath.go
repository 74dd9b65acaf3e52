// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath and os.Stat
// that accept and return types.FilesystemPath. Existence checks never return errors:
// an unreadable path is reported the same way as a missing one.
package fspath

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pylocate/pylocate/pkg/types"
)

// Join wraps filepath.Join, accepting a typed base path and raw string segments.
func Join(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Base wraps filepath.Base.
func Base(p types.FilesystemPath) string {
	return filepath.Base(string(p))
}

// Abs wraps filepath.Abs.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// Clean wraps filepath.Clean.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// Parents returns p followed by each of its ancestors, nearest first,
// ending at the filesystem root.
func Parents(p types.FilesystemPath) []types.FilesystemPath {
	var out []types.FilesystemPath
	cur := Clean(p)
	for {
		out = append(out, cur)
		parent := Dir(cur)
		if parent == cur {
			return out
		}
		cur = parent
	}
}

// Exists reports whether anything exists at p.
func Exists(p types.FilesystemPath) bool {
	if p == "" {
		return false
	}
	_, err := os.Stat(string(p))
	return err == nil
}

// IsFile reports whether p exists and is not a directory.
func IsFile(p types.FilesystemPath) bool {
	if p == "" {
		return false
	}
	info, err := os.Stat(string(p))
	return err == nil && !info.IsDir()
}

// IsDir reports whether p exists and is a directory.
func IsDir(p types.FilesystemPath) bool {
	if p == "" {
		return false
	}
	info, err := os.Stat(string(p))
	return err == nil && info.IsDir()
}

// ReadDirNames lists the entry names of dir. Unreadable directories yield nil.
func ReadDirNames(dir types.FilesystemPath) []string {
	entries, err := os.ReadDir(string(dir))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// SubDirs lists the immediate subdirectories of dir, following symlinks.
func SubDirs(dir types.FilesystemPath) []types.FilesystemPath {
	var out []types.FilesystemPath
	for _, name := range ReadDirNames(dir) {
		child := Join(dir, name)
		if IsDir(child) {
			out = append(out, child)
		}
	}
	return out
}
