// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// newLogger builds the CLI's slog logger on top of a charmbracelet/log
// handler. Library packages log through slog.Default, so installing this
// logger routes their output to w.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Prefix: "pylocate",
		Level:  level,
	})
	return slog.New(handler)
}
