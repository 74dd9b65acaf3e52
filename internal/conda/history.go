// SPDX-License-Identifier: MPL-2.0

package conda

import (
	"bufio"
	"os"
	"strings"

	"github.com/pylocate/pylocate/pkg/fspath"
	"github.com/pylocate/pylocate/pkg/types"
)

const historyCmdPrefix = "# cmd:"

// ReadHistoryCommands returns the program recorded on each "# cmd:" line of
// prefix's conda-meta/history, in file order. A missing or unreadable file
// yields nil.
func ReadHistoryCommands(prefix types.FilesystemPath) []string {
	f, err := os.Open(string(fspath.Join(prefix, condaMetaDir, "history")))
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	var cmds []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		rest, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), historyCmdPrefix)
		if !ok {
			continue
		}
		if prog := firstField(strings.TrimSpace(rest)); prog != "" {
			cmds = append(cmds, prog)
		}
	}
	return cmds
}

// firstField returns the first whitespace-separated field, honoring a
// leading double-quoted path that may contain spaces.
func firstField(s string) string {
	if quoted, ok := strings.CutPrefix(s, `"`); ok {
		if end := strings.IndexByte(quoted, '"'); end >= 0 {
			return quoted[:end]
		}
		return quoted
	}
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
