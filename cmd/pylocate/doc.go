// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for pylocate.
//
// App is the composition root: command handlers receive it and reach
// configuration, discovery and document validation through its service
// interfaces, so tests can swap any of them.
package cmd
