// SPDX-License-Identifier: MPL-2.0

// Package consistency compares statically discovered environments against
// the ground truth obtained by running their interpreters, and reports the
// attributes on which the two disagree. Reports are advisory: nothing here
// affects discovery.
package consistency
