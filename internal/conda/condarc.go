// SPDX-License-Identifier: MPL-2.0

package conda

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pylocate/pylocate/internal/osenv"
	"github.com/pylocate/pylocate/pkg/fspath"
	"github.com/pylocate/pylocate/pkg/platform"
	"github.com/pylocate/pylocate/pkg/types"
)

// RC holds the .condarc settings that affect where environments live.
type RC struct {
	EnvsDirs []string `yaml:"envs_dirs"`
	PkgsDirs []string `yaml:"pkgs_dirs"`
}

// ReadCondaRC parses the .condarc file at path.
func ReadCondaRC(path types.FilesystemPath) (*RC, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read condarc %s: %w", path, err)
	}
	var rc RC
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("parse condarc %s: %w", path, err)
	}
	return &rc, nil
}

// EnvDirs returns the configured environment directories with a leading
// "~" expanded to home.
func (rc *RC) EnvDirs(home types.FilesystemPath) []types.FilesystemPath {
	if rc == nil {
		return nil
	}
	out := make([]types.FilesystemPath, 0, len(rc.EnvsDirs))
	for _, d := range rc.EnvsDirs {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(d, "~"); ok && home != "" && (rest == "" || rest[0] == '/' || rest[0] == '\\') {
			d = string(home) + rest
		}
		out = append(out, fspath.Clean(types.FilesystemPath(d)))
	}
	return out
}

// RCLocations lists the files conda reads its configuration from, in the
// order conda merges them.
func RCLocations(env osenv.Environment) []types.FilesystemPath {
	var out []types.FilesystemPath
	switch {
	case platform.IsWindows(env.GOOS()):
		if data := env.Getenv("PROGRAMDATA"); data != "" {
			out = append(out,
				fspath.Join(types.FilesystemPath(data), "conda", ".condarc"),
				fspath.Join(types.FilesystemPath(data), "conda", "condarc"),
			)
		}
	case env.Root() != "":
		root := env.Root()
		out = append(out,
			fspath.Join(root, "etc", "conda", ".condarc"),
			fspath.Join(root, "etc", "conda", "condarc"),
			fspath.Join(root, "var", "lib", "conda", ".condarc"),
			fspath.Join(root, "var", "lib", "conda", "condarc"),
		)
	}
	if root := env.Getenv("CONDA_ROOT"); root != "" {
		out = append(out, fspath.Join(types.FilesystemPath(root), ".condarc"), fspath.Join(types.FilesystemPath(root), "condarc"))
	}
	xdgConfig := types.FilesystemPath(env.Getenv("XDG_CONFIG_HOME"))
	if home := env.UserHome(); home != "" {
		if xdgConfig == "" {
			xdgConfig = fspath.Join(home, ".config")
		}
		out = append(out,
			fspath.Join(home, ".conda", ".condarc"),
			fspath.Join(home, ".conda", "condarc"),
			fspath.Join(home, ".condarc"),
		)
	}
	if xdgConfig != "" {
		out = append(out, fspath.Join(xdgConfig, "conda", ".condarc"), fspath.Join(xdgConfig, "conda", "condarc"))
	}
	if prefix := env.Getenv("CONDA_PREFIX"); prefix != "" {
		out = append(out, fspath.Join(types.FilesystemPath(prefix), ".condarc"))
	}
	if rc := env.Getenv("CONDARC"); rc != "" {
		out = append(out, types.FilesystemPath(rc))
	}
	return out
}

// ReadEnvironmentsTxt returns the environment prefixes listed in conda's
// environments.txt registry. A missing file yields nil.
func ReadEnvironmentsTxt(path types.FilesystemPath) []types.FilesystemPath {
	f, err := os.Open(string(path))
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	var out []types.FilesystemPath
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, types.FilesystemPath(line))
	}
	return out
}
