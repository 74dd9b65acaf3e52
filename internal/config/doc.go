// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from <xdg config home>/pylocate/config.cue, falling
// back to ./config.cue, or from an explicit path. Values are validated against
// the embedded CUE schema (config_schema.cue). PYLOCATE_* environment
// variables override file values; command-line flags override both.
package config
