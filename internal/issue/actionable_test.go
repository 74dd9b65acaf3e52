// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{"operation only", &ActionableError{Operation: "load configuration"}, "failed to load configuration"},
		{
			"with resource",
			&ActionableError{Operation: "read environment document", Resource: "found.json"},
			"failed to read environment document: found.json",
		},
		{
			"with cause",
			&ActionableError{Operation: "load configuration", Resource: "./config.cue", Cause: errors.New("file not found")},
			"failed to load configuration: ./config.cue: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	t.Parallel()

	cause := errors.New("permission denied")
	err := NewErrorContext().WithOperation("read environment document").Wrap(cause).Build()
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	nested := &ActionableError{
		Operation: "load configuration",
		Cause:     &ActionableError{Operation: "parse config.cue", Cause: errors.New("expected '}'")},
	}
	withHints := &ActionableError{
		Operation:   "load configuration",
		Resource:    "./config.cue",
		Suggestions: []string{"Run 'pylocate config init'", "Check file permissions"},
	}

	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{"suggestions", withHints, false, []string{"./config.cue", "• Run 'pylocate config init'", "• Check file permissions"}, nil},
		{"quiet chain", nested, false, []string{"failed to load configuration"}, []string{"Error chain:"}},
		{"verbose chain", nested, true, []string{"Error chain:", "1. failed to parse config.cue: expected '}'", "2. expected '}'"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.err.Format(tt.verbose)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Format() missing %q\ngot:\n%s", s, got)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("Format() should not contain %q\ngot:\n%s", s, got)
				}
			}
		})
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if err := NewErrorContext().WithResource("found.json").Build(); err != nil {
		t.Errorf("Build() without operation = %v, want nil", err)
	}

	err := NewErrorContext().
		WithOperation("read environment document").
		WithResource("found.json").
		WithSuggestion("Regenerate it", "Check the path").
		WithIssue(DocumentInvalidId).
		Wrap(errors.New("bad arch")).
		Build()

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("Build() = %T, want *ActionableError", err)
	}
	if ae.Resource != "found.json" || len(ae.Suggestions) != 2 || ae.Issue != DocumentInvalidId {
		t.Errorf("built %+v", *ae)
	}
}

func TestErrorContext_BuildCopies(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithOperation("read environment document").WithSuggestion("first")
	first := ctx.Wrap(errors.New("one")).Build()
	second := ctx.WithSuggestion("second").Wrap(errors.New("two")).Build()

	var a, b *ActionableError
	if !errors.As(first, &a) || !errors.As(second, &b) {
		t.Fatal("expected *ActionableError values")
	}
	if a.Cause.Error() != "one" || b.Cause.Error() != "two" {
		t.Errorf("causes = %v, %v", a.Cause, b.Cause)
	}
	if len(a.Suggestions) != 1 || len(b.Suggestions) != 2 {
		t.Errorf("suggestions = %q, %q; earlier errors must not change", a.Suggestions, b.Suggestions)
	}
}

func TestIssueOf(t *testing.T) {
	t.Parallel()

	inner := NewErrorContext().WithOperation("parse").WithIssue(DocumentInvalidId).Build()
	tests := []struct {
		name string
		err  error
		want Id
	}{
		{"nil", nil, 0},
		{"plain error", errors.New("boom"), 0},
		{"direct", NewErrorContext().WithOperation("load configuration").WithIssue(ConfigLoadFailedId).Build(), ConfigLoadFailedId},
		{"wrapped by fmt", fmt.Errorf("context: %w", inner), DocumentInvalidId},
		{"outer without issue", NewErrorContext().WithOperation("validate").Wrap(inner).Build(), DocumentInvalidId},
		{"no issue anywhere", NewErrorContext().WithOperation("validate").Wrap(errors.New("x")).Build(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IssueOf(tt.err); got != tt.want {
				t.Errorf("IssueOf() = %d, want %d", got, tt.want)
			}
		})
	}
}
