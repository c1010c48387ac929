// llvmboot.go
package llvmboot

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/activate"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/catalog"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/core"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/deps"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/env"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/installer"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/platform"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/process"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/report"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/setup"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/shell"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/versions"
)

// Re-export types for convenience
type (
	Config        = core.Config
	State         = core.State
	Configuration = setup.Configuration
	SetupOptions  = setup.Options
	Command       = shell.Command
	Dialect       = shell.Dialect
	Host          = platform.Host
	VersionSpecs  = versions.Specs
	Dependency    = deps.Dependency
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// Option configures New
type Option func(*Bootstrap)

// WithHost replaces host detection
func WithHost(host Host) Option {
	return func(b *Bootstrap) { b.host = &host }
}

// WithReporter sends progress to r
func WithReporter(r *report.Reporter) Option {
	return func(b *Bootstrap) { b.reporter = r }
}

// WithRunner runs external commands through r
func WithRunner(r process.Runner) Option {
	return func(b *Bootstrap) { b.runner = r }
}

// WithLogger sets the debug logger
func WithLogger(l *log.Logger) Option {
	return func(b *Bootstrap) { b.logger = l }
}

// WithCatalogOptions is passed to catalog.New
func WithCatalogOptions(opts ...catalog.Option) Option {
	return func(b *Bootstrap) { b.catalogOpts = append(b.catalogOpts, opts...) }
}

// Bootstrap sets up and activates this repository's tools
type Bootstrap struct {
	config      *Config
	host        *Host
	reporter    *report.Reporter
	runner      process.Runner
	logger      *log.Logger
	catalogOpts []catalog.Option

	catalog  *catalog.Catalog
	setup    *setup.Planner
	activate *activate.Planner
}

// New creates a Bootstrap for the repository described by config
func New(config *Config, opts ...Option) (*Bootstrap, error) {
	if config == nil {
		config = DefaultConfig()
	}

	b := &Bootstrap{config: config}
	for _, opt := range opts {
		opt(b)
	}

	if b.host == nil {
		host, err := platform.Detect()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPlatformNotSupported, err)
		}
		b.host = &host
	}

	// Setup logger
	if b.logger == nil {
		if config.Debug {
			b.logger = log.New(os.Stdout, "[LLVMBOOT] ", log.LstdFlags)
		} else {
			b.logger = log.New(io.Discard, "", 0)
		}
	}
	if b.reporter == nil {
		b.reporter = report.Discard()
	}
	if b.runner == nil {
		b.runner = process.NewExecRunner(b.logger)
	}

	catalogOpts := append([]catalog.Option{
		catalog.WithToolsSubdir(config.ToolsSubdir),
		catalog.WithInstallerConfig(&installer.Config{
			CachePath: config.CachePath,
			Timeout:   config.DownloadTimeout,
			Runner:    b.runner,
			Debug:     config.Debug,
		}),
	}, b.catalogOpts...)

	cat, err := catalog.New(config.RepositoryRoot, *b.host, catalogOpts...)
	if err != nil {
		return nil, &Error{Op: "loading catalog", Err: err}
	}
	b.catalog = cat

	b.setup, err = setup.New(&setup.Config{
		Root:           config.RepositoryRoot,
		FoundationRoot: config.FoundationRoot,
		Catalog:        cat,
		Runner:         b.runner,
		Reporter:       b.reporter,
		Debug:          config.Debug,
	})
	if err != nil {
		return nil, err
	}

	b.activate, err = activate.New(&activate.Config{
		Catalog:  cat,
		Reporter: b.reporter,
		Debug:    config.Debug,
	})
	if err != nil {
		return nil, err
	}

	return b, nil
}

// Host returns the host the tools are installed for
func (b *Bootstrap) Host() Host {
	return *b.host
}

// Catalog returns the tool catalog
func (b *Bootstrap) Catalog() *catalog.Catalog {
	return b.catalog
}

// Configurations returns every configuration the host offers
func (b *Bootstrap) Configurations() map[string]Configuration {
	return b.setup.Configurations()
}

// Names returns the sorted configuration names
func (b *Bootstrap) Names() []string {
	return b.setup.Names()
}

// Configuration looks up a configuration by name
func (b *Bootstrap) Configuration(name string) (Configuration, error) {
	c, ok := b.setup.Configurations()[name]
	if !ok {
		return Configuration{}, &Error{Op: "configuration", Tool: name, Err: ErrUnknownConfiguration}
	}
	return c, nil
}

// Setup installs the tools and returns the setup commands. When the
// selection is unambiguous (one explicit configuration, or a host with a
// single configuration) it is saved for later activations.
func (b *Bootstrap) Setup(ctx context.Context, opts SetupOptions) ([]Command, error) {
	for _, name := range opts.ExplicitConfigurations {
		if _, err := b.Configuration(name); err != nil {
			return nil, err
		}
	}

	cmds, err := b.setup.CustomActions(ctx, opts)
	if err != nil {
		return nil, &Error{Op: "setup", Err: err}
	}

	selected := opts.ExplicitConfigurations
	if len(selected) == 0 {
		selected = b.Names()
	}
	if len(selected) == 1 {
		if err := b.saveState(selected[0]); err != nil {
			return nil, err
		}
	}

	return cmds, nil
}

// FetchDependencies clones the repositories configuration depends on next to
// this repository
func (b *Bootstrap) FetchDependencies(ctx context.Context, name string, progress io.Writer) ([]string, error) {
	c, err := b.Configuration(name)
	if err != nil {
		return nil, err
	}

	fetcher := &deps.Fetcher{
		Dir:      filepath.Dir(filepath.Clean(b.config.RepositoryRoot)),
		Progress: progress,
		Logger:   b.logger,
	}

	paths, err := fetcher.Fetch(ctx, c.Dependencies)
	if err != nil {
		return nil, &Error{Op: "fetching dependencies", Tool: name, Err: err}
	}
	return paths, nil
}

// Activate returns the commands that expose configuration name in a shell.
// An empty name uses the configuration saved by setup; an explicit name is
// saved for next time.
func (b *Bootstrap) Activate(ctx context.Context, name string, force bool) ([]Command, error) {
	explicit := name != ""

	if !explicit {
		state, err := core.LoadState(b.config.GeneratedDir)
		if err != nil {
			return nil, &Error{Op: "activate", Err: err}
		}
		name = state.Configuration
	}

	c, err := b.Configuration(name)
	if err != nil {
		return nil, err
	}

	req := activate.Request{
		Repositories:  []string{b.config.RepositoryRoot},
		GeneratedDir:  b.config.GeneratedDir,
		Configuration: c.Name,
		VersionSpecs:  c.VersionSpecs,
		Force:         force,
	}

	cmds, err := b.activate.CustomActions(ctx, req)
	if err != nil {
		return nil, &Error{Op: "activate", Tool: name, Err: err}
	}

	epilogue, err := b.activate.CustomActionsEpilogue(ctx, req)
	if err != nil {
		return nil, &Error{Op: "activate", Tool: name, Err: err}
	}
	cmds = append(cmds, epilogue...)

	if explicit {
		if err := b.saveState(name); err != nil {
			return nil, err
		}
	}
	return cmds, nil
}

// Render turns cmds into a script for dialect
func (b *Bootstrap) Render(dialect Dialect, cmds []Command) (string, error) {
	return shell.Render(dialect, cmds)
}

// ToolStatus describes one catalog entry on disk
type ToolStatus struct {
	Tool      string
	Version   string
	Entry     string
	OutputDir string
	Status    installer.Status
	Libraries []string // Runtime libraries of an installed LLVM entry
}

// Status reports every catalog entry and whether it needs installing
func (b *Bootstrap) Status() []ToolStatus {
	var result []ToolStatus

	for _, version := range b.catalog.GrcovVersions() {
		entry, _ := b.catalog.Grcov(version)
		result = append(result, toolStatus(catalog.ToolGrcov, version, entry))
	}
	for _, version := range b.catalog.LLVMVersions() {
		entries, _ := b.catalog.LLVM(version)
		for _, entry := range entries {
			result = append(result, toolStatus(catalog.ToolLLVM, version, entry))
		}
	}
	return result
}

func toolStatus(tool, version string, entry catalog.Entry) ToolStatus {
	s := ToolStatus{
		Tool:      tool,
		Version:   version,
		Entry:     entry.Name,
		OutputDir: entry.Installer.OutputDir(),
		Status:    entry.Installer.ShouldInstall(nil),
	}
	if tool == catalog.ToolLLVM && !s.Status.Install {
		s.Libraries = env.New(s.OutputDir, entry.Flavor).ListLibraryNames()
	}
	return s
}

func (b *Bootstrap) saveState(name string) error {
	c, err := b.Configuration(name)
	if err != nil {
		return err
	}

	state := &core.State{Configuration: c.Name, VersionSpecs: c.VersionSpecs}
	if err := core.SaveState(b.config.GeneratedDir, state); err != nil {
		return &Error{Op: "saving state", Tool: name, Err: err}
	}
	b.logger.Printf("Selected configuration %s", name)
	return nil
}
