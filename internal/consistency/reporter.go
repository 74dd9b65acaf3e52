// SPDX-License-Identifier: MPL-2.0

package consistency

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pylocate/pylocate/pkg/pyenv"
	"github.com/pylocate/pylocate/pkg/types"
)

type (
	// Reporter receives inaccuracy reports. How they are transmitted or
	// displayed is the reporter's concern.
	Reporter interface {
		ReportInaccuracy(discovered, resolved pyenv.PythonEnvironment, report InaccuracyReport)
	}

	// Resolver supplies the ground truth for an interpreter, typically by
	// running it. A nil environment with a nil error means "unknown".
	Resolver interface {
		Resolve(ctx context.Context, executable types.FilesystemPath) (*pyenv.PythonEnvironment, error)
	}

	// LogReporter writes reports as structured warnings.
	LogReporter struct {
		// Logger defaults to slog.Default() when nil.
		Logger *slog.Logger
	}

	// ReporterFunc adapts a function to Reporter.
	ReporterFunc func(discovered, resolved pyenv.PythonEnvironment, report InaccuracyReport)
)

// ReportInaccuracy calls f.
func (f ReporterFunc) ReportInaccuracy(discovered, resolved pyenv.PythonEnvironment, report InaccuracyReport) {
	f(discovered, resolved, report)
}

// ReportInaccuracy logs the disagreement at warning level.
func (l LogReporter) ReportInaccuracy(discovered, resolved pyenv.PythonEnvironment, report InaccuracyReport) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{
		"kind", report.Kind,
		"invalid_executable", report.InvalidExecutable,
		"executable_not_in_symlinks", report.ExecutableNotInSymlinks,
		"invalid_prefix", report.InvalidPrefix,
		"invalid_arch", report.InvalidArch,
		"discovered", discovered,
		"resolved", resolved,
	}
	if report.InvalidVersion != nil {
		attrs = append(attrs, "invalid_version", *report.InvalidVersion)
	}
	logger.Warn("discovered environment disagrees with interpreter", attrs...)
}

// Check resolves env's interpreter, validates env against it, and hands any
// report to reporter. Environments without an executable, and interpreters
// the resolver does not know, yield no report.
func Check(ctx context.Context, resolver Resolver, reporter Reporter, env pyenv.PythonEnvironment) (*InaccuracyReport, error) {
	if env.Executable == "" {
		return nil, nil
	}
	resolved, err := resolver.Resolve(ctx, env.Executable)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", env.Executable, err)
	}
	if resolved == nil {
		return nil, nil
	}
	report := Validate(env, *resolved)
	if report != nil && reporter != nil {
		reporter.ReportInaccuracy(env, *resolved, *report)
	}
	return report, nil
}
