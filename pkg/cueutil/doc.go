// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema.
//
//	//go:embed config_schema.cue
//	var configSchema string
//
//	schema, err := cueutil.Compile(configSchema, "#Config")
//	if err != nil {
//	    return nil, err
//	}
//	cfg, err := cueutil.Decode[Config](schema, "config.cue", data)
package cueutil
