// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"testing"

	"github.com/pylocate/pylocate/pkg/types"
)

func TestLoadOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       LoadOptions
		wantFields int
	}{
		{name: "all empty", opts: LoadOptions{}},
		{name: "all valid", opts: LoadOptions{ConfigFilePath: "/tmp/config.cue", ConfigDirPath: "/tmp/config"}},
		{name: "blank file", opts: LoadOptions{ConfigFilePath: "   "}, wantFields: 1},
		{name: "blank dir", opts: LoadOptions{ConfigDirPath: "\t"}, wantFields: 1},
		{name: "both blank", opts: LoadOptions{ConfigFilePath: " ", ConfigDirPath: " "}, wantFields: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.opts.Validate()
			if tt.wantFields == 0 {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidLoadOptions) {
				t.Fatalf("error should wrap ErrInvalidLoadOptions, got %v", err)
			}
			var loadErr *InvalidLoadOptionsError
			if !errors.As(err, &loadErr) {
				t.Fatalf("error should be *InvalidLoadOptionsError, got %T", err)
			}
			if len(loadErr.FieldErrors) != tt.wantFields {
				t.Errorf("got %d field errors, want %d", len(loadErr.FieldErrors), tt.wantFields)
			}
			if !errors.Is(loadErr.FieldErrors[0], types.ErrInvalidFilesystemPath) {
				t.Errorf("field error should wrap ErrInvalidFilesystemPath, got %v", loadErr.FieldErrors[0])
			}
		})
	}
}

func TestProvider_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, `concurrency: 3`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Concurrency != 3 {
		t.Errorf("Concurrency = %d, want 3", cfg.Concurrency)
	}

	if _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: " "}); !errors.Is(err, ErrInvalidLoadOptions) {
		t.Errorf("expected ErrInvalidLoadOptions, got %v", err)
	}
}
