// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// MustSetenv sets key to value for the rest of the test and returns the
// function that restores the previous state. Tests using it must not run
// in parallel.
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	prev, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv %s: %v", key, err)
	}
	return func() {
		var err error
		if had {
			err = os.Setenv(key, prev)
		} else {
			err = os.Unsetenv(key)
		}
		if err != nil {
			t.Errorf("restore env %s: %v", key, err)
		}
	}
}

// MustMkdirAll creates path and its parents.
func MustMkdirAll(t testing.TB, path string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

// MustWriteFile writes content to path, creating missing parent directories.
func MustWriteFile(t testing.TB, path, content string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MustSymlink links newname to oldname. The test is skipped where the
// platform refuses symlinks to unprivileged users.
func MustSymlink(t testing.TB, oldname, newname string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(newname), 0o755)
	if err := os.Symlink(oldname, newname); err != nil {
		if os.IsPermission(err) {
			t.Skipf("symlinks not permitted: %v", err)
		}
		t.Fatalf("symlink %s -> %s: %v", newname, oldname, err)
	}
}
