// SPDX-License-Identifier: MPL-2.0

// Package locator implements the environment-family strategies consulted
// during discovery. Each strategy recognizes one family from filesystem
// evidence alone:
//
//   - Conda: a conda-meta directory inside the prefix.
//   - WindowsRegistry: installations advertised by an external registry source.
//   - Venv: a pyvenv.cfg beside the interpreter or at the prefix.
//   - VirtualEnv: an activate script beside the interpreter.
//
// Default returns the strategies in registration order; earlier strategies
// take precedence when two report the same environment.
package locator
