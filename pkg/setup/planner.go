// Package setup enumerates the configurations this repository offers and
// installs the tools they need.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/danjacques/gofslock/fslock"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/catalog"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/installer"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/process"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/report"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/shell"
)

const (
	// FoundationRootEnv names the variable holding the foundation repository root
	FoundationRootEnv = "DE_FOUNDATION_ROOT"

	// LintConfigName is the lint configuration shared with the foundation repository
	LintConfigName = ".pylintrc"

	lockName = ".setup.lock"
)

// ErrFoundationNotFound indicates the foundation lint configuration is missing
var ErrFoundationNotFound = errors.New("foundation repository not found")

// ErrLocked indicates another setup of the same repository is running
var ErrLocked = errors.New("setup is already running")

// Config holds setup configuration
type Config struct {
	// Root is the repository root
	Root string

	// FoundationRoot holds the shared lint configuration (default: $DE_FOUNDATION_ROOT)
	FoundationRoot string

	// Catalog lists what gets installed
	Catalog *catalog.Catalog

	// Runner runs the smoke test
	Runner process.Runner

	// Reporter receives progress (default: discarded)
	Reporter *report.Reporter

	// ScratchDir is where smoke test directories are created (default: system temp)
	ScratchDir string

	// Debug enables debug logging
	Debug bool

	// Logger for custom logging
	Logger *log.Logger
}

// Options configures a single CustomActions call
type Options struct {
	// ExplicitConfigurations limits LLVM installs to versions that prefix one of these names
	ExplicitConfigurations []string

	// Force reinstalls tools that are already present
	Force bool

	// Interactive allows installers that offer it to prompt; nil = not specified
	Interactive *bool
}

// Planner installs catalog tools and produces the setup commands
type Planner struct {
	config   *Config
	catalog  *catalog.Catalog
	runner   process.Runner
	reporter *report.Reporter
	logger   *log.Logger
}

// New creates a setup planner
func New(cfg *Config) (*Planner, error) {
	if cfg == nil || cfg.Catalog == nil {
		return nil, fmt.Errorf("setup: a catalog is required")
	}

	// Setup logger
	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[SETUP] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	runner := cfg.Runner
	if runner == nil {
		runner = process.NewExecRunner(logger)
	}

	reporter := cfg.Reporter
	if reporter == nil {
		reporter = report.Discard()
	}

	return &Planner{
		config:   cfg,
		catalog:  cfg.Catalog,
		runner:   runner,
		reporter: reporter,
		logger:   logger,
	}, nil
}

// CustomActions installs every grcov version and the selected LLVM versions,
// validating each LLVM install on non-Windows hosts. It returns the commands
// the activated shell needs (the lint configuration link). Any failure
// returns nil commands and the error.
func (p *Planner) CustomActions(ctx context.Context, opts Options) ([]shell.Command, error) {
	link, err := p.lintConfigLink()
	if err != nil {
		return nil, err
	}
	commands := []shell.Command{link}

	unlock, err := p.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = p.reporter.Nested("\nProcessing 'Common_LLVM' tools...", func(r *report.Reporter) error {
		if err := r.Nested("Processing 'grcov'...", func(r *report.Reporter) error {
			return p.installGrcov(ctx, r, opts)
		}); err != nil {
			return err
		}

		return r.Nested("Processing 'LLVM'...", func(r *report.Reporter) error {
			return p.installLLVM(ctx, r, opts)
		})
	})
	if err != nil {
		return nil, err
	}

	if err := shell.Apply(commands); err != nil {
		return nil, fmt.Errorf("applying setup commands: %w", err)
	}

	return commands, nil
}

func (p *Planner) lintConfigLink() (shell.SymbolicLink, error) {
	foundationRoot := p.config.FoundationRoot
	if foundationRoot == "" {
		foundationRoot = os.Getenv(FoundationRootEnv)
	}
	if foundationRoot == "" {
		return shell.SymbolicLink{}, fmt.Errorf("%w: %s is not set", ErrFoundationNotFound, FoundationRootEnv)
	}

	target := filepath.Join(foundationRoot, LintConfigName)
	if info, err := os.Stat(target); err != nil || info.IsDir() {
		return shell.SymbolicLink{}, fmt.Errorf("%w: %s is not a file", ErrFoundationNotFound, target)
	}

	return shell.SymbolicLink{
		Link:           filepath.Join(p.config.Root, LintConfigName),
		Target:         target,
		RemoveExisting: true,
		Relative:       true,
	}, nil
}

func (p *Planner) lock() (func(), error) {
	toolsDir := p.catalog.ToolsDir()
	if err := os.MkdirAll(toolsDir, 0755); err != nil {
		return nil, fmt.Errorf("creating tools directory: %w", err)
	}

	path := filepath.Join(toolsDir, lockName)
	handle, err := fslock.Lock(path)
	if err != nil {
		if errors.Is(err, fslock.ErrLockHeld) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, path)
		}
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}

	p.logger.Printf("Acquired %s", path)
	return func() {
		if err := handle.Unlock(); err != nil {
			p.logger.Printf("Releasing %s: %v", path, err)
		}
	}, nil
}

func (p *Planner) installGrcov(ctx context.Context, r *report.Reporter, opts Options) error {
	versions := p.catalog.GrcovVersions()

	for i, version := range versions {
		entry, _ := p.catalog.Grcov(version)

		header := fmt.Sprintf("'%s' (%d of %d)...", version, i+1, len(versions))
		if err := r.Nested(header, func(r *report.Reporter) error {
			return p.install(ctx, r, entry, opts)
		}); err != nil {
			return fmt.Errorf("grcov %s: %w", version, err)
		}
	}
	return nil
}

func (p *Planner) installLLVM(ctx context.Context, r *report.Reporter, opts Options) error {
	versions := p.catalog.LLVMVersions()

	for i, version := range versions {
		header := fmt.Sprintf("'%s' (%d of %d)...", version, i+1, len(versions))
		err := r.Nested(header, func(r *report.Reporter) error {
			if !selected(version, opts.ExplicitConfigurations) {
				r.Verbose("The version was skipped.")
				return nil
			}

			entries, _ := p.catalog.LLVM(version)
			for _, entry := range entries {
				if err := r.Nested(fmt.Sprintf("'%s'...", entry.Name), func(r *report.Reporter) error {
					return p.install(ctx, r, entry, opts)
				}); err != nil {
					return err
				}

				if p.catalog.Host().IsWindows() {
					continue
				}
				if err := p.validate(ctx, r, entry.Installer.OutputDir()); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("LLVM %s: %w", version, err)
		}
	}
	return nil
}

func (p *Planner) install(ctx context.Context, r *report.Reporter, entry catalog.Entry, opts Options) error {
	err := entry.Installer.Install(ctx, installer.InstallOptions{
		Force:                opts.Force,
		PromptForInteractive: entry.PromptForInteractive,
		Interactive:          opts.Interactive,
	})
	if err != nil {
		r.Error("%v", err)
		return err
	}
	return nil
}

// selected reports whether an LLVM version is wanted. No explicit
// configurations selects everything.
func selected(version string, explicit []string) bool {
	if len(explicit) == 0 {
		return true
	}
	for _, name := range explicit {
		if strings.HasPrefix(name, version) {
			return true
		}
	}
	return false
}
