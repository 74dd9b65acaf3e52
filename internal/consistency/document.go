// SPDX-License-Identifier: MPL-2.0

package consistency

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pylocate/pylocate/pkg/pathnorm"
	"github.com/pylocate/pylocate/pkg/pyenv"
	"github.com/pylocate/pylocate/pkg/types"
)

const schemaURL = "resolved.schema.json"

//go:embed schema/resolved.schema.json
var schemaBytes []byte

var (
	// ErrInvalidDocument is returned when an environment document does not
	// match the expected shape.
	ErrInvalidDocument = errors.New("invalid environment document")

	compiledSchema = sync.OnceValues(compileSchema)
	printer        = message.NewPrinter(language.English)
)

type (
	// Document is the JSON form of a discovery result. The find command
	// writes it and the validate command reads it.
	Document struct {
		Managers     []pyenv.EnvManager        `json:"managers"`
		Environments []pyenv.PythonEnvironment `json:"environments"`
	}

	// InvalidDocumentError lists the schema violations in a document.
	InvalidDocumentError struct {
		Path   types.FilesystemPath
		Issues []string
	}

	// FileResolver answers Resolve from a document of environments that
	// were resolved ahead of time.
	FileResolver struct {
		norm  pathnorm.Normalizer
		byExe map[types.FilesystemPath]pyenv.PythonEnvironment
	}
)

// Error implements the error interface.
func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("invalid environment document %s: %s", e.Path, strings.Join(e.Issues, "; "))
}

// Unwrap returns ErrInvalidDocument so callers can use errors.Is for programmatic detection.
func (e *InvalidDocumentError) Unwrap() error { return ErrInvalidDocument }

func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
	if err != nil {
		return nil, fmt.Errorf("unmarshaling schema JSON: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return schema, nil
}

// ReadDocument reads and schema-validates the document at path.
func ReadDocument(path types.FilesystemPath) (*Document, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read environment document: %w", err)
	}
	return ParseDocument(path, data)
}

// ParseDocument schema-validates and decodes data. path is used only in
// error messages.
func ParseDocument(path types.FilesystemPath, data []byte) (*Document, error) {
	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &InvalidDocumentError{Path: path, Issues: []string{err.Error()}}
	}
	if err := schema.Validate(inst); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return nil, &InvalidDocumentError{Path: path, Issues: leafIssues(ve)}
		}
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidDocumentError{Path: path, Issues: []string{err.Error()}}
	}
	return &doc, nil
}

// leafIssues flattens a validation error tree to its leaf messages.
func leafIssues(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := "/" + strings.Join(ve.InstanceLocation, "/")
		msg := ve.Error()
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}
		return []string{fmt.Sprintf("%s: %s", loc, msg)}
	}
	var out []string
	for _, c := range ve.Causes {
		out = append(out, leafIssues(c)...)
	}
	return out
}

// NewFileResolver indexes doc's environments by executable and symlink.
func NewFileResolver(doc *Document) *FileResolver {
	r := &FileResolver{norm: pathnorm.Host(), byExe: make(map[types.FilesystemPath]pyenv.PythonEnvironment)}
	for _, env := range doc.Environments {
		for _, p := range append([]types.FilesystemPath{env.Executable}, env.Symlinks...) {
			if p == "" {
				continue
			}
			key := r.norm.NormCase(p)
			if _, dup := r.byExe[key]; !dup {
				r.byExe[key] = env
			}
		}
	}
	return r
}

// Resolve returns the recorded environment for executable, or nil when the
// document has none.
func (r *FileResolver) Resolve(ctx context.Context, executable types.FilesystemPath) (*pyenv.PythonEnvironment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env, ok := r.byExe[r.norm.NormCase(executable)]
	if !ok {
		return nil, nil
	}
	return &env, nil
}
