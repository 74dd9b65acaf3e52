// SPDX-License-Identifier: MPL-2.0

// Package conda resolves the conda, mamba, or micromamba manager that owns
// an environment, and reads the on-disk evidence conda leaves behind:
// conda-meta package records, the creation history, .condarc files, and the
// environments.txt registry.
//
// Resolution is static. No binary is ever executed; versions come from
// conda-meta package records.
package conda
