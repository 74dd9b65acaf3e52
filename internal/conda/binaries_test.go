// SPDX-License-Identifier: MPL-2.0

package conda

import (
	"testing"

	"github.com/pylocate/pylocate/pkg/platform"
)

func TestIsMambaExecutableOn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos string
		path string
		want bool
	}{
		{platform.Linux, "/usr/bin/mamba", true},
		{platform.Linux, "/usr/bin/micromamba", true},
		{platform.Linux, "/opt/miniforge3/bin/mamba", true},
		{platform.Linux, "/usr/bin/conda", false},
		{platform.Linux, "/usr/bin/python", false},
		{platform.Linux, "/usr/bin/Mamba", false},
		{platform.Linux, "mamba", true},
		{platform.Linux, "/usr/bin/mambaforge", false},
		{platform.Windows, `C:\Scripts\mamba.exe`, true},
		{platform.Windows, `C:\Users\Dev\micromamba\MICROMAMBA.EXE`, true},
		{platform.Windows, `C:\Scripts\conda.exe`, false},
		{platform.Windows, `C:/tools/Mamba.bat`, true},
		{platform.Windows, `C:\Python312\python.exe`, false},
	}
	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.path, func(t *testing.T) {
			t.Parallel()
			if got := IsMambaExecutableOn(tt.goos, p(tt.path)); got != tt.want {
				t.Errorf("IsMambaExecutableOn(%s, %q) = %v, want %v", tt.goos, tt.path, got, tt.want)
			}
		})
	}
}

func TestRecordVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, pkg, want string
		ok              bool
	}{
		{"conda-23.1.0-py310h06a4308_0.json", "conda", "23.1.0", true},
		{"conda-libmamba-solver-24.1.0-pyhd8ed1ab_0.json", "conda", "", false},
		{"conda-build-3.28.4-py311_0.json", "conda", "", false},
		{"python-3.12.1-hd12c33a_1_cpython.json", "python", "3.12.1", true},
		{"python-dateutil-2.8.2-pyhd3eb1b0_0.json", "python", "", false},
		{"mamba-1.5.6-py311h3072747_0.json", "mamba", "1.5.6", true},
		{"conda-23.1.0-py310_0.txt", "conda", "", false},
	}
	for _, tt := range tests {
		got, ok := recordVersion(tt.name, tt.pkg)
		if got != tt.want || ok != tt.ok {
			t.Errorf("recordVersion(%q, %q) = %q, %v; want %q, %v", tt.name, tt.pkg, got, ok, tt.want, tt.ok)
		}
	}
}
