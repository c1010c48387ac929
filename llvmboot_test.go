package llvmboot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/catalog"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/core"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/installer"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/platform"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/process"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/shell"
)

var linuxHost = platform.Host{Family: platform.FamilyLinux, Arch: "x64", GOOS: "linux"}

type noopInstaller struct{ outputDir string }

func (n *noopInstaller) Install(context.Context, installer.InstallOptions) error { return nil }
func (n *noopInstaller) ShouldInstall(*string) installer.Status {
	return installer.Status{Install: true, Reason: "'" + n.outputDir + "' does not exist."}
}
func (n *noopInstaller) OutputDir() string       { return n.outputDir }
func (n *noopInstaller) SetOutputDir(dir string) { n.outputDir = dir }
func (n *noopInstaller) RequiredVersion() string { return "" }

type passingRunner struct{}

func (passingRunner) Run(_ context.Context, cmd process.Cmd) (*process.Result, error) {
	if filepath.Base(cmd.Args[0]) == "a.out" {
		return &process.Result{Output: "Hello world!\n"}, nil
	}
	return &process.Result{}, nil
}

func newBootstrap(t *testing.T) (*Bootstrap, *Config) {
	t.Helper()

	workspace := t.TempDir()
	foundation := filepath.Join(workspace, "Common_Foundation")
	require.NoError(t, os.MkdirAll(foundation, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(foundation, ".pylintrc"), nil, 0644))

	root := filepath.Join(workspace, "Common_LLVM")
	require.NoError(t, os.MkdirAll(root, 0755))

	cfg := &Config{
		RepositoryRoot: root,
		ToolsSubdir:    "Tools",
		FoundationRoot: foundation,
		GeneratedDir:   filepath.Join(root, "Generated"),
		CachePath:      t.TempDir(),
	}

	factory := func(spec installer.Spec) (installer.Installer, error) {
		return &noopInstaller{outputDir: spec.OutputDir}, nil
	}

	b, err := New(cfg,
		WithHost(linuxHost),
		WithRunner(passingRunner{}),
		WithCatalogOptions(catalog.WithInstallerFactory(factory)),
	)
	require.NoError(t, err)
	return b, cfg
}

func TestBootstrap_SetupThenActivate(t *testing.T) {
	b, cfg := newBootstrap(t)
	ctx := context.Background()

	assert.Equal(t, []string{"15.0.2-x64"}, b.Names())

	cmds, err := b.Setup(ctx, SetupOptions{})
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.IsType(t, shell.SymbolicLink{}, cmds[0])

	// The only configuration is remembered
	state, err := core.LoadState(cfg.GeneratedDir)
	require.NoError(t, err)
	assert.Equal(t, "15.0.2-x64", state.Configuration)

	llvm := filepath.Join(cfg.RepositoryRoot, "Tools", "LLVM", "v15.0.2", "Linux", "x64")
	require.NoError(t, os.MkdirAll(filepath.Join(llvm, "bin"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(llvm, "lib", "x86_64-unknown-linux-gnu"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.RepositoryRoot, "Tools", "grcov", "v0.8.12", "Linux"), 0755))

	cmds, err = b.Activate(ctx, "", false)
	require.NoError(t, err)
	require.Len(t, cmds, 2)

	script, err := b.Render(shell.DialectBash, cmds)
	require.NoError(t, err)
	assert.Contains(t, script, `export PATH="`+filepath.Join(llvm, "bin")+`${PATH:+:${PATH}}"`)
	assert.Contains(t, script, "export LD_LIBRARY_PATH=")
}

func TestBootstrap_UnknownConfiguration(t *testing.T) {
	b, _ := newBootstrap(t)

	_, err := b.Setup(context.Background(), SetupOptions{ExplicitConfigurations: []string{"15.0.2-mingw-x64"}})
	assert.ErrorIs(t, err, ErrUnknownConfiguration)

	_, err = b.Activate(context.Background(), "15.0.2-arm64", false)
	assert.ErrorIs(t, err, ErrUnknownConfiguration)

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "15.0.2-arm64", e.Tool)
}

func TestBootstrap_ActivateWithoutSelection(t *testing.T) {
	b, _ := newBootstrap(t)

	_, err := b.Activate(context.Background(), "", false)
	assert.ErrorIs(t, err, core.ErrNoState)
}

func TestBootstrap_ActivateNotInstalled(t *testing.T) {
	b, _ := newBootstrap(t)

	_, err := b.Activate(context.Background(), "15.0.2-x64", false)
	assert.ErrorIs(t, err, ErrNotInstalled)
}

func TestBootstrap_FetchDependencies(t *testing.T) {
	b, cfg := newBootstrap(t)

	paths, err := b.FetchDependencies(context.Background(), "15.0.2-x64", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(filepath.Dir(cfg.RepositoryRoot), "Common_Foundation")}, paths)

	_, err = b.FetchDependencies(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, ErrUnknownConfiguration)
}

func TestBootstrap_Status(t *testing.T) {
	b, cfg := newBootstrap(t)

	statuses := b.Status()
	require.Len(t, statuses, 2)

	assert.Equal(t, "grcov", statuses[0].Tool)
	assert.Equal(t, "0.8.12", statuses[0].Version)
	assert.Equal(t, "LLVM", statuses[1].Tool)
	assert.Equal(t, "standard", statuses[1].Entry)
	assert.Equal(t, filepath.Join(cfg.RepositoryRoot, "Tools", "LLVM", "v15.0.2", "Linux", "x64"), statuses[1].OutputDir)
	assert.True(t, statuses[1].Status.Install)
}

func TestError(t *testing.T) {
	err := &Error{Op: "setup", Err: ErrValidation}
	assert.Equal(t, "setup: installation validation failed", err.Error())
	assert.ErrorIs(t, err, ErrValidation)

	err = &Error{Op: "activate", Tool: "15.0.2-x64", Err: ErrNotInstalled}
	assert.Equal(t, "activate 15.0.2-x64: no installed version found", err.Error())
}
