// SPDX-License-Identifier: MPL-2.0

// Package testutil builds on-disk fixtures for tests: interpreters, venvs,
// conda installations and environments, plus Must* helpers that fail the
// test instead of returning errors.
package testutil
