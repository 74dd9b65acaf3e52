// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize bounds the size of a document accepted by a Schema.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

// Schema is one definition of a compiled CUE schema. Documents are unified
// with it and validated without requiring concrete values, so optional
// fields may be left out. A Schema is not safe for concurrent use.
type Schema struct {
	def     cue.Value
	maxSize int64
}

// Compile compiles src and selects definition (e.g. "#Config").
func Compile(src, definition string) (*Schema, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(src)
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", err)
	}
	def := root.LookupPath(cue.ParsePath(definition))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", definition, err)
	}
	return &Schema{def: def, maxSize: DefaultMaxFileSize}, nil
}

// Unify compiles data, unifies it with the definition and validates the
// result. Errors name filename and the offending field path.
func (s *Schema) Unify(filename string, data []byte) (cue.Value, error) {
	if int64(len(data)) > s.maxSize {
		return cue.Value{}, fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), s.maxSize)
	}

	doc := s.def.Context().CompileBytes(data, cue.Filename(filename))
	if err := doc.Err(); err != nil {
		return cue.Value{}, formatError(err, filename)
	}

	unified := s.def.Unify(doc)
	if err := unified.Validate(); err != nil {
		return cue.Value{}, formatError(err, filename)
	}
	return unified, nil
}

// Decode unifies data with s and decodes the result into a T.
func Decode[T any](s *Schema, filename string, data []byte) (*T, error) {
	unified, err := s.Unify(filename, data)
	if err != nil {
		return nil, err
	}
	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, formatError(err, filename)
	}
	return &out, nil
}
