// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. The Issue catalog holds Markdown guidance for common
// failures, rendered with glamour.
package issue
