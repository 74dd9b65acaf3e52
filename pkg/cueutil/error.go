// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strconv"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// formatError reports each CUE error as "<field path>: <message>" under
// filename, e.g. "config.cue: search_paths[1]: invalid value".
func formatError(err error, filename string) error {
	if err == nil {
		return nil
	}
	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return fmt.Errorf("%s: %w", filename, err)
	}

	lines := make([]string, 0, len(list))
	for _, e := range list {
		field := fieldPath(cueerrors.Path(e))
		msg := e.Error()
		if field == "" {
			lines = append(lines, msg)
			continue
		}
		if rest, ok := strings.CutPrefix(msg, field); ok {
			msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
		}
		lines = append(lines, field+": "+msg)
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filename, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filename, strings.Join(lines, "\n  "))
}

// fieldPath joins CUE path selectors, rendering list indices in brackets:
// ["search_paths", "0"] becomes "search_paths[0]".
func fieldPath(selectors []string) string {
	var b strings.Builder
	for i, sel := range selectors {
		if _, err := strconv.Atoi(sel); err == nil && i > 0 {
			b.WriteString("[" + sel + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(sel)
	}
	return b.String()
}
