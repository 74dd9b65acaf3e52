// SPDX-License-Identifier: MPL-2.0

package locator

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pylocate/pylocate/pkg/fspath"
	"github.com/pylocate/pylocate/pkg/types"
)

const pyvenvCfgName = "pyvenv.cfg"

var leadingTriple = regexp.MustCompile(`^\d+\.\d+\.\d+`)

// PyVenvCfg holds the pyvenv.cfg keys used for classification.
type PyVenvCfg struct {
	Path    types.FilesystemPath
	Home    string
	Version string
	Prompt  string
}

// FindPyVenvCfg returns the pyvenv.cfg governing exe: one beside exe, one in
// exe's parent directory, or one at prefix. It returns "" when none exists.
func FindPyVenvCfg(exe, prefix types.FilesystemPath) types.FilesystemPath {
	var dirs []types.FilesystemPath
	if exe != "" {
		dir := fspath.Dir(exe)
		dirs = append(dirs, dir, fspath.Dir(dir))
	}
	if prefix != "" {
		dirs = append(dirs, prefix)
	}
	for _, d := range dirs {
		if cfg := fspath.Join(d, pyvenvCfgName); fspath.IsFile(cfg) {
			return cfg
		}
	}
	return ""
}

// ParsePyVenvCfg reads a pyvenv.cfg file. The "version" key is preferred;
// virtualenv writes "version_info" instead, which is trimmed to its leading
// major.minor.patch.
func ParsePyVenvCfg(path types.FilesystemPath) (*PyVenvCfg, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	cfg := &PyVenvCfg{Path: path}
	var versionInfo string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "home":
			cfg.Home = value
		case "version":
			cfg.Version = value
		case "version_info":
			versionInfo = value
		case "prompt":
			cfg.Prompt = strings.Trim(value, `'"`)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if cfg.Version == "" && versionInfo != "" {
		if m := leadingTriple.FindString(versionInfo); m != "" {
			cfg.Version = m
		} else {
			cfg.Version = versionInfo
		}
	}
	return cfg, nil
}
