// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform naming conventions.
//
// Discovery code receives the target OS as a value (usually from an
// osenv snapshot) instead of reading runtime.GOOS directly, so the helpers
// here take goos as a parameter and Windows layouts stay testable on Unix hosts.
package platform
