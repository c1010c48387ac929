// Package activate validates the installed tools for a configuration and
// computes the environment changes a shell needs to use them.
//
// Activation never installs anything. It reads the directories setup
// produced, and a catalog or disk layout that does not match the selected
// configuration is treated as a defect (panic), not an error.
package activate

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/catalog"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/env"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/report"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/shell"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/versions"
)

const (
	// LibraryPathVar is the loader search path augmented on non-Windows hosts
	LibraryPathVar = "LD_LIBRARY_PATH"

	mingwOutputName = "mingw"
	msvcOutputName  = "msvc"
)

// Config holds activation configuration
type Config struct {
	// Catalog lists the known tool versions
	Catalog *catalog.Catalog

	// Reporter receives validation progress (default: discarded)
	Reporter *report.Reporter

	// Debug enables debug logging
	Debug bool

	// Logger for custom logging
	Logger *log.Logger
}

// Request describes one activation
type Request struct {
	Repositories  []string // Activated repository roots, this one included
	GeneratedDir  string
	Configuration string // Selected configuration name; required
	VersionSpecs  versions.Specs
	Force         bool
	IsMixinRepo   bool
}

// Planner computes activation commands
type Planner struct {
	catalog  *catalog.Catalog
	reporter *report.Reporter
	logger   *log.Logger
}

// New creates an activation planner
func New(cfg *Config) (*Planner, error) {
	if cfg == nil || cfg.Catalog == nil {
		return nil, fmt.Errorf("activate: a catalog is required")
	}

	// Setup logger
	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[ACTIVATE] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	reporter := cfg.Reporter
	if reporter == nil {
		reporter = report.Discard()
	}

	return &Planner{
		catalog:  cfg.Catalog,
		reporter: reporter,
		logger:   logger,
	}, nil
}

// CustomActions validates grcov and LLVM and returns the commands that
// expose the selected toolchain. An installer that reports it is not
// correctly installed is written as an error line; it does not stop
// activation. The result depends only on the catalog, the request and the
// directories on disk.
func (p *Planner) CustomActions(ctx context.Context, req Request) ([]shell.Command, error) {
	if req.Configuration == "" {
		panic("activate: a configuration is required")
	}

	target, err := catalog.ParseTarget(req.Configuration)
	if err != nil {
		panic(fmt.Sprintf("activate: %v", err))
	}

	p.reporter.Line("")

	if err := p.reporter.Nested("Validating 'grcov'...", func(r *report.Reporter) error {
		return p.validateGrcov(r, req.VersionSpecs)
	}); err != nil {
		return nil, err
	}

	var llvmDir string
	if err := p.reporter.Nested("Validating 'LLVM'...", func(r *report.Reporter) error {
		dir, err := p.validateLLVM(r, req.VersionSpecs, target)
		llvmDir = dir
		return err
	}); err != nil {
		return nil, err
	}

	p.logger.Printf("Activating %s from %s", req.Configuration, llvmDir)
	return p.commands(llvmDir, target), nil
}

// CustomActionsEpilogue runs after every repository's CustomActions. There
// is nothing to add.
func (p *Planner) CustomActionsEpilogue(ctx context.Context, req Request) ([]shell.Command, error) {
	return []shell.Command{}, nil
}

func (p *Planner) validateGrcov(r *report.Reporter, specs versions.Specs) error {
	_, version, err := p.resolve(catalog.ToolGrcov, specs)
	if err != nil {
		return err
	}

	entry, ok := p.catalog.Grcov(version)
	if !ok {
		panic(fmt.Sprintf("activate: grcov %s is installed but not in the catalog", version))
	}

	reportStatus(r, entry)
	return nil
}

func (p *Planner) validateLLVM(r *report.Reporter, specs versions.Specs, target catalog.Target) (string, error) {
	dir, version, err := p.resolve(catalog.ToolLLVM, specs)
	if err != nil {
		return "", err
	}

	entries, ok := p.catalog.LLVM(version)
	if !ok {
		panic(fmt.Sprintf("activate: LLVM %s is installed but not in the catalog", version))
	}

	entry, ok := catalog.SelectLLVMEntry(entries, target)
	if !ok {
		panic(fmt.Sprintf("activate: LLVM %s has no entry for %s", version, target.Name()))
	}

	reportStatus(r, entry)
	return dir, nil
}

// resolve finds the installed version directory of tool, descending into
// the host's family and architecture directories
func (p *Planner) resolve(tool string, specs versions.Specs) (string, string, error) {
	dir, version, err := versions.Resolve(p.catalog.ToolDir(tool), specs.Tools)
	if err != nil {
		return "", "", fmt.Errorf("resolving %s: %w", tool, err)
	}

	host := p.catalog.Host()
	return versions.Descend(dir, string(host.Family), host.Arch), version, nil
}

func reportStatus(r *report.Reporter, entry catalog.Entry) {
	if status := entry.Installer.ShouldInstall(nil); status.Install && status.Reason != "" {
		r.Error("%s", status.Reason)
	}
}

func (p *Planner) commands(llvmDir string, target catalog.Target) []shell.Command {
	if !p.catalog.Host().IsWindows() {
		layout := env.GetLayout(catalog.FlavorStandard)
		return []shell.Command{
			shell.NewAugmentPath(shell.EnsureDir(filepath.Join(llvmDir, layout.Binaries[0]))),
			shell.NewAugment(LibraryPathVar, shell.EnsureDir(filepath.Join(llvmDir, layout.Libraries[0]))),
		}
	}

	var root string
	switch target.Flavor {
	case catalog.FlavorMingw:
		// The archive unpacks into a directory named after its release.
		root = firstSubdir(filepath.Join(llvmDir, mingwOutputName))
	case catalog.FlavorMsvc:
		root = filepath.Join(llvmDir, msvcOutputName)
	default:
		panic(fmt.Sprintf("activate: %s does not select a Windows flavor", target.Name()))
	}

	var cmds []shell.Command
	for _, bin := range env.GetLayout(target.Flavor).Binaries {
		cmds = append(cmds, shell.NewAugmentPath(shell.EnsureDir(filepath.Join(root, bin))))
	}
	return cmds
}

// firstSubdir returns the first directory inside dir, panicking when there is none
func firstSubdir(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		panic(fmt.Sprintf("activate: reading %s: %v", dir, err))
	}
	for _, entry := range entries {
		if entry.IsDir() {
			return filepath.Join(dir, entry.Name())
		}
	}
	panic(fmt.Sprintf("activate: %s does not contain an installation", dir))
}
