package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/installer"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/platform"
)

var (
	linuxHost   = platform.Host{Family: platform.FamilyLinux, Arch: "x64", GOOS: "linux"}
	windowsHost = platform.Host{Family: platform.FamilyWindows, Arch: "x64", GOOS: "windows"}
)

type recordingInstaller struct {
	spec installer.Spec
}

func (r *recordingInstaller) Install(context.Context, installer.InstallOptions) error { return nil }
func (r *recordingInstaller) ShouldInstall(*string) installer.Status                 { return installer.Status{} }
func (r *recordingInstaller) OutputDir() string                                      { return r.spec.OutputDir }
func (r *recordingInstaller) SetOutputDir(dir string)                                { r.spec.OutputDir = dir }
func (r *recordingInstaller) RequiredVersion() string                                { return r.spec.Version }

func recording(spec installer.Spec) (installer.Installer, error) {
	return &recordingInstaller{spec: spec}, nil
}

func TestNew_Linux(t *testing.T) {
	root := t.TempDir()
	c, err := New(root, linuxHost, WithInstallerFactory(recording))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "Tools"), c.ToolsDir())
	assert.Equal(t, []string{"0.8.12"}, c.GrcovVersions())
	assert.Equal(t, []string{"15.0.2"}, c.LLVMVersions())

	grcov, ok := c.Grcov("0.8.12")
	require.True(t, ok)
	assert.Equal(t, "standard", grcov.Name)
	assert.False(t, grcov.PromptForInteractive)

	spec := grcov.Installer.(*recordingInstaller).spec
	assert.Equal(t, installer.KindLocalSevenZip, spec.Kind)
	assert.Equal(t, filepath.Join(root, "Tools", "grcov", "v0.8.12", "Linux", "install.7z"), spec.Source)
	assert.Equal(t, filepath.Join(root, "Tools", "grcov", "v0.8.12", "Linux"), spec.OutputDir)
	assert.Equal(t, "0.8.12", spec.Version)

	entries, ok := c.LLVM("15.0.2")
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, FlavorStandard, entries[0].Flavor)
	assert.Equal(t, filepath.Join(root, "Tools", "LLVM", "v15.0.2", "Linux", "x64"), entries[0].Installer.OutputDir())
	assert.Equal(t, "alpha-4", entries[0].Installer.RequiredVersion())

	spec = entries[0].Installer.(*recordingInstaller).spec
	assert.Equal(t, installer.KindSevenZip, spec.Kind)
	assert.Equal(t, "https://github.com/davidbrownell/v4-Common_LLVM/releases/download/v15.0.2-alpha.4/install.7z", spec.Source)
	assert.Equal(t, "sha256:f4728ace762ff628df9baa9d67dbf256f3331059f15eea05385b556ac9da6cc7", spec.Checksum)
}

func TestNew_Windows(t *testing.T) {
	root := t.TempDir()
	c, err := New(root, windowsHost, WithInstallerFactory(recording))
	require.NoError(t, err)

	entries, ok := c.LLVM("15.0.2")
	require.True(t, ok)
	require.Len(t, entries, 2)

	base := filepath.Join(root, "Tools", "LLVM", "v15.0.2", "Windows", "x64")

	assert.Equal(t, "mingw", entries[0].Name)
	assert.Equal(t, FlavorMingw, entries[0].Flavor)
	assert.False(t, entries[0].PromptForInteractive)
	assert.Equal(t, filepath.Join(base, "mingw"), entries[0].Installer.OutputDir())
	assert.Equal(t, "20220906", entries[0].Installer.RequiredVersion())

	assert.Equal(t, "msvc", entries[1].Name)
	assert.Equal(t, FlavorMsvc, entries[1].Flavor)
	assert.True(t, entries[1].PromptForInteractive)
	assert.Equal(t, filepath.Join(base, "msvc"), entries[1].Installer.OutputDir())
	assert.Equal(t, installer.KindNSIS, entries[1].Installer.(*recordingInstaller).spec.Kind)

	grcov, ok := c.Grcov("0.8.12")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "Tools", "grcov", "v0.8.12", "Windows"), grcov.Installer.OutputDir())
}

func TestNew_DefaultFactory(t *testing.T) {
	root := t.TempDir()
	c, err := New(root, linuxHost, WithToolsSubdir("tools"), WithInstallerConfig(&installer.Config{CachePath: t.TempDir()}))
	require.NoError(t, err)

	entries, _ := c.LLVM("15.0.2")
	archive, ok := entries[0].Installer.(*installer.Archive)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "tools", "LLVM", "v15.0.2", "Linux", "x64"), archive.OutputDir())
	assert.Equal(t, filepath.Join(root, "tools", "LLVM"), c.ToolDir(ToolLLVM))
}

func TestNew_Invalid(t *testing.T) {
	const llvm = `
[[llvm]]
version = "1.0"
name = "standard"
kind = "7z"
source = "https://example.invalid/install.7z"
output_dir = "{tools}/LLVM/v1.0/{family}/x64"
required_version = "1.0"
`

	tests := []struct {
		name   string
		source string
	}{
		{name: "not toml", source: "[[llvm"},
		{name: "no llvm", source: ``},
		{name: "unknown key", source: llvm + "colour = \"red\"\n"},
		{name: "unknown kind", source: `
[[llvm]]
version = "1.0"
name = "standard"
kind = "rar"
source = "x"
output_dir = "y"
required_version = "1.0"
`},
		{name: "missing output dir", source: `
[[llvm]]
version = "1.0"
name = "standard"
kind = "zip"
source = "x"
required_version = "1.0"
`},
		{name: "bad checksum", source: `
[[llvm]]
version = "1.0"
name = "standard"
kind = "zip"
source = "x"
checksum = "md5:abc"
output_dir = "y"
required_version = "1.0"
`},
		{name: "unknown flavor", source: `
[[llvm]]
version = "1.0"
name = "cygwin"
kind = "zip"
source = "x"
output_dir = "y"
required_version = "1.0"
`},
		{name: "windows flavor on linux", source: `
[[llvm]]
version = "1.0"
name = "mingw"
kind = "zip"
source = "x"
output_dir = "y"
required_version = "1.0"
`},
		{name: "duplicate flavor", source: llvm + llvm},
		{name: "duplicate grcov", source: llvm + `
[[grcov]]
version = "2"
name = "standard"
kind = "local-7z"
source = "a"
output_dir = "b"
required_version = "2"

[[grcov]]
version = "2"
name = "standard"
kind = "local-7z"
source = "a"
output_dir = "b"
required_version = "2"
`},
		{name: "unknown family", source: llvm + "families = [\"Plan9\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(t.TempDir(), linuxHost, WithSource([]byte(tt.source)), WithInstallerFactory(recording))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}
}

func TestNew_FactoryError(t *testing.T) {
	failing := func(installer.Spec) (installer.Installer, error) {
		return nil, errors.New("boom")
	}
	_, err := New(t.TempDir(), linuxHost, WithInstallerFactory(failing))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew(t.TempDir(), linuxHost, WithSource([]byte("[[llvm")))
	})
	assert.NotPanics(t, func() {
		MustNew(t.TempDir(), windowsHost, WithInstallerFactory(recording))
	})
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := MustNew(t.TempDir(), windowsHost, WithInstallerFactory(recording))

	versions := c.LLVMVersions()
	versions[0] = "tampered"
	assert.Equal(t, []string{"15.0.2"}, c.LLVMVersions())

	entries, _ := c.LLVM("15.0.2")
	entries[0] = Entry{}
	again, _ := c.LLVM("15.0.2")
	assert.Equal(t, FlavorMingw, again[0].Flavor)

	_, ok := c.LLVM("0.0.0")
	assert.False(t, ok)
	_, ok = c.Grcov("0.0.0")
	assert.False(t, ok)
}

func TestAugmentOutputDir(t *testing.T) {
	inst := &recordingInstaller{spec: installer.Spec{OutputDir: filepath.Join("Tools", "LLVM")}}
	got := AugmentOutputDir(inst, "msvc")
	assert.Same(t, inst, got)
	assert.Equal(t, filepath.Join("Tools", "LLVM", "msvc"), inst.OutputDir())
}
