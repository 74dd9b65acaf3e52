// SPDX-License-Identifier: MPL-2.0

// Package pyenv defines the data model shared by every locator: the
// environment kinds, the discovered PythonEnvironment record and its
// Builder, the EnvManager tool descriptor, and the Locator contract that
// each environment-family strategy implements.
package pyenv
