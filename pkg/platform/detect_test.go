package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromGo(t *testing.T) {
	tests := []struct {
		name       string
		goos       string
		goarch     string
		wantFamily Family
		wantArch   string
		wantErr    bool
	}{
		{name: "windows amd64", goos: "windows", goarch: "amd64", wantFamily: FamilyWindows, wantArch: "x64"},
		{name: "linux amd64", goos: "linux", goarch: "amd64", wantFamily: FamilyLinux, wantArch: "x64"},
		{name: "linux arm64", goos: "linux", goarch: "arm64", wantFamily: FamilyLinux, wantArch: "arm64"},
		{name: "darwin arm64", goos: "darwin", goarch: "arm64", wantFamily: FamilyBSD, wantArch: "arm64"},
		{name: "windows 386", goos: "windows", goarch: "386", wantFamily: FamilyWindows, wantArch: "x86"},
		{name: "unknown os", goos: "plan9", goarch: "amd64", wantErr: true},
		{name: "unknown arch", goos: "linux", goarch: "mips", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := FromGo(tt.goos, tt.goarch)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFamily, h.Family)
			assert.Equal(t, tt.wantArch, h.Arch)
			assert.Equal(t, tt.goos, h.GOOS)
		})
	}
}

func TestHost_ExecutableName(t *testing.T) {
	win := Host{Family: FamilyWindows, Arch: "x64"}
	lin := Host{Family: FamilyLinux, Arch: "x64"}

	assert.True(t, win.IsWindows())
	assert.False(t, lin.IsWindows())
	assert.Equal(t, "clang++.exe", win.ExecutableName("clang++"))
	assert.Equal(t, "clang++", lin.ExecutableName("clang++"))
	assert.Equal(t, "Linux/x64", lin.String())
}

func TestDetect(t *testing.T) {
	h, err := Detect()
	require.NoError(t, err)
	assert.NotEmpty(t, h.Family)
	assert.NotEmpty(t, h.Arch)
}
