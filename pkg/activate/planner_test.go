package activate

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/catalog"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/installer"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/platform"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/report"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/shell"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/versions"
)

var (
	linuxHost   = platform.Host{Family: platform.FamilyLinux, Arch: "x64", GOOS: "linux"}
	windowsHost = platform.Host{Family: platform.FamilyWindows, Arch: "x64", GOOS: "windows"}

	llvmSpecs = versions.Specs{Tools: []versions.VersionInfo{{Name: "LLVM", Version: "15.0.2"}}}
)

func init() {
	color.NoColor = true
}

type statusInstaller struct {
	outputDir string
	status    installer.Status
	checked   int
}

func (s *statusInstaller) Install(context.Context, installer.InstallOptions) error { return nil }
func (s *statusInstaller) ShouldInstall(*string) installer.Status {
	s.checked++
	return s.status
}
func (s *statusInstaller) OutputDir() string       { return s.outputDir }
func (s *statusInstaller) SetOutputDir(dir string) { s.outputDir = dir }
func (s *statusInstaller) RequiredVersion() string { return "" }

type fixture struct {
	root       string
	tools      string
	output     *bytes.Buffer
	installers map[string]*statusInstaller // keyed by output dir base name
	planner    *Planner
}

func newFixture(t *testing.T, host platform.Host) *fixture {
	t.Helper()

	f := &fixture{
		root:       t.TempDir(),
		output:     &bytes.Buffer{},
		installers: map[string]*statusInstaller{},
	}
	f.tools = filepath.Join(f.root, "Tools")

	factory := func(spec installer.Spec) (installer.Installer, error) {
		inst := &statusInstaller{outputDir: spec.OutputDir}
		return inst, nil
	}
	cat, err := catalog.New(f.root, host, catalog.WithInstallerFactory(factory))
	require.NoError(t, err)

	for _, version := range cat.GrcovVersions() {
		entry, _ := cat.Grcov(version)
		f.installers["grcov"] = entry.Installer.(*statusInstaller)
	}
	for _, version := range cat.LLVMVersions() {
		entries, _ := cat.LLVM(version)
		for _, entry := range entries {
			f.installers[entry.Name] = entry.Installer.(*statusInstaller)
		}
	}

	f.planner, err = New(&Config{Catalog: cat, Reporter: report.New(f.output, false)})
	require.NoError(t, err)

	f.mkdir(t, "grcov", "v0.8.12", string(host.Family))
	return f
}

func (f *fixture) mkdir(t *testing.T, parts ...string) string {
	t.Helper()
	dir := filepath.Join(append([]string{f.tools}, parts...)...)
	require.NoError(t, os.MkdirAll(dir, 0755))
	return dir
}

func TestCustomActions_Linux(t *testing.T) {
	f := newFixture(t, linuxHost)
	llvm := f.mkdir(t, "LLVM", "v15.0.2", "Linux", "x64")
	f.mkdir(t, "LLVM", "v15.0.2", "Linux", "x64", "bin")
	f.mkdir(t, "LLVM", "v15.0.2", "Linux", "x64", "lib", "x86_64-unknown-linux-gnu")

	cmds, err := f.planner.CustomActions(context.Background(), Request{Configuration: "15.0.2-x64", VersionSpecs: llvmSpecs})
	require.NoError(t, err)

	assert.Equal(t, []shell.Command{
		shell.AugmentPath{Values: []string{filepath.Join(llvm, "bin")}},
		shell.Augment{Name: "LD_LIBRARY_PATH", Values: []string{filepath.Join(llvm, "lib", "x86_64-unknown-linux-gnu")}},
	}, cmds)

	assert.Equal(t, 1, f.installers["grcov"].checked)
	assert.Equal(t, 1, f.installers["standard"].checked)

	out := f.output.String()
	assert.Contains(t, out, "Validating 'grcov'...")
	assert.Contains(t, out, "Validating 'LLVM'...")
	assert.NotContains(t, out, "ERROR")
}

func TestCustomActions_WindowsMingw(t *testing.T) {
	f := newFixture(t, windowsHost)
	release := f.mkdir(t, "LLVM", "v15.0.2", "Windows", "x64", "mingw", "llvm-mingw-20220906-ucrt-x86_64")
	f.mkdir(t, "LLVM", "v15.0.2", "Windows", "x64", "mingw", "llvm-mingw-20220906-ucrt-x86_64", "bin")
	f.mkdir(t, "LLVM", "v15.0.2", "Windows", "x64", "mingw", "llvm-mingw-20220906-ucrt-x86_64", "x86_64-w64-mingw32", "bin")
	require.NoError(t, os.WriteFile(filepath.Join(f.tools, "LLVM", "v15.0.2", "Windows", "x64", "mingw", ".installed.yaml"), nil, 0644))

	cmds, err := f.planner.CustomActions(context.Background(), Request{Configuration: "15.0.2-mingw-x64", VersionSpecs: llvmSpecs})
	require.NoError(t, err)

	assert.Equal(t, []shell.Command{
		shell.AugmentPath{Values: []string{filepath.Join(release, "bin")}},
		shell.AugmentPath{Values: []string{filepath.Join(release, "x86_64-w64-mingw32", "bin")}},
	}, cmds)

	assert.Equal(t, 1, f.installers["mingw"].checked)
	assert.Equal(t, 0, f.installers["msvc"].checked)
}

func TestCustomActions_WindowsMsvc(t *testing.T) {
	f := newFixture(t, windowsHost)
	bin := f.mkdir(t, "LLVM", "v15.0.2", "Windows", "x64", "msvc", "bin")

	cmds, err := f.planner.CustomActions(context.Background(), Request{Configuration: "15.0.2-msvc-17.4-x64", VersionSpecs: llvmSpecs})
	require.NoError(t, err)

	assert.Equal(t, []shell.Command{shell.AugmentPath{Values: []string{bin}}}, cmds)
	assert.Equal(t, 0, f.installers["mingw"].checked)
	assert.Equal(t, 1, f.installers["msvc"].checked)
}

func TestCustomActions_ReasonIsReported(t *testing.T) {
	f := newFixture(t, linuxHost)
	f.mkdir(t, "LLVM", "v15.0.2", "Linux", "x64", "bin")
	f.mkdir(t, "LLVM", "v15.0.2", "Linux", "x64", "lib", "x86_64-unknown-linux-gnu")

	f.installers["standard"].status = installer.Status{Install: true, Reason: "'alpha-3' is installed in 'x64' but 'alpha-4' is required."}

	cmds, err := f.planner.CustomActions(context.Background(), Request{Configuration: "15.0.2-x64", VersionSpecs: llvmSpecs})
	require.NoError(t, err)
	assert.Len(t, cmds, 2)
	assert.Contains(t, f.output.String(), "ERROR: 'alpha-3' is installed in 'x64' but 'alpha-4' is required.")
	assert.Contains(t, f.output.String(), "FAILED")
}

func TestCustomActions_Idempotent(t *testing.T) {
	f := newFixture(t, windowsHost)
	f.mkdir(t, "LLVM", "v15.0.2", "Windows", "x64", "mingw", "release", "bin")
	f.mkdir(t, "LLVM", "v15.0.2", "Windows", "x64", "mingw", "release", "x86_64-w64-mingw32", "bin")

	req := Request{Configuration: "15.0.2-mingw-x64", VersionSpecs: llvmSpecs}

	first, err := f.planner.CustomActions(context.Background(), req)
	require.NoError(t, err)
	second, err := f.planner.CustomActions(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCustomActions_NotInstalled(t *testing.T) {
	f := newFixture(t, linuxHost)

	_, err := f.planner.CustomActions(context.Background(), Request{Configuration: "15.0.2-x64", VersionSpecs: llvmSpecs})
	assert.ErrorIs(t, err, versions.ErrNotInstalled)
}

func TestCustomActions_Defects(t *testing.T) {
	tests := []struct {
		name string
		host platform.Host
		dirs [][]string
		req  Request
	}{
		{
			name: "no configuration",
			host: linuxHost,
			req:  Request{VersionSpecs: llvmSpecs},
		},
		{
			name: "unparseable configuration",
			host: linuxHost,
			req:  Request{Configuration: "llvm", VersionSpecs: llvmSpecs},
		},
		{
			name: "version missing from catalog",
			host: linuxHost,
			dirs: [][]string{{"LLVM", "v16.0.0", "Linux", "x64", "bin"}},
			req:  Request{Configuration: "16.0.0-x64", VersionSpecs: versions.Specs{Tools: []versions.VersionInfo{{Name: "LLVM", Version: "16.0.0"}}}},
		},
		{
			name: "windows without flavor",
			host: windowsHost,
			dirs: [][]string{{"LLVM", "v15.0.2", "Windows", "x64", "bin"}},
			req:  Request{Configuration: "15.0.2-x64", VersionSpecs: llvmSpecs},
		},
		{
			name: "missing library directory",
			host: linuxHost,
			dirs: [][]string{{"LLVM", "v15.0.2", "Linux", "x64", "bin"}},
			req:  Request{Configuration: "15.0.2-x64", VersionSpecs: llvmSpecs},
		},
		{
			name: "empty mingw directory",
			host: windowsHost,
			dirs: [][]string{{"LLVM", "v15.0.2", "Windows", "x64", "mingw"}},
			req:  Request{Configuration: "15.0.2-mingw-x64", VersionSpecs: llvmSpecs},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.host)
			for _, dir := range tt.dirs {
				f.mkdir(t, dir...)
			}

			assert.Panics(t, func() {
				f.planner.CustomActions(context.Background(), tt.req)
			})
		})
	}
}

func TestCustomActionsEpilogue(t *testing.T) {
	f := newFixture(t, linuxHost)

	cmds, err := f.planner.CustomActionsEpilogue(context.Background(), Request{Configuration: "15.0.2-x64"})
	require.NoError(t, err)
	assert.Empty(t, cmds)
}

func TestNew_RequiresCatalog(t *testing.T) {
	_, err := New(&Config{})
	assert.Error(t, err)
}
