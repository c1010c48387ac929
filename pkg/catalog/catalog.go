// Package catalog is the table of tool versions this repository installs:
// where each payload comes from, how it is verified, where it is unpacked,
// and whether its installer may prompt the user.
//
// A Catalog is built once for a host and is read-only afterwards. Setup
// installs every entry; activation looks entries up by the version found on
// disk.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/installer"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/platform"
)

//go:embed catalog.toml
var defaultSource []byte

// ErrInvalid indicates malformed catalog data
var ErrInvalid = errors.New("invalid catalog")

const (
	// ToolGrcov is the coverage tool
	ToolGrcov = "grcov"

	// ToolLLVM is the toolchain
	ToolLLVM = "LLVM"

	// DefaultToolsSubdir is the tools directory below the repository root
	DefaultToolsSubdir = "Tools"
)

// Entry is one installable payload
type Entry struct {
	Name                 string
	Flavor               Flavor
	Installer            installer.Installer
	PromptForInteractive bool
}

// InstallerFactory creates the installer for a declared payload
type InstallerFactory func(spec installer.Spec) (installer.Installer, error)

// Catalog holds the grcov and LLVM entries that apply to a host
type Catalog struct {
	host     platform.Host
	toolsDir string

	grcovVersions []string
	grcov         map[string]Entry

	llvmVersions []string
	llvm         map[string][]Entry
}

type options struct {
	source       []byte
	toolsSubdir  string
	installerCfg *installer.Config
	factory      InstallerFactory
}

// Option configures New
type Option func(*options)

// WithSource replaces the embedded catalog data
func WithSource(data []byte) Option {
	return func(o *options) { o.source = data }
}

// WithToolsSubdir changes the tools directory below the repository root
func WithToolsSubdir(name string) Option {
	return func(o *options) { o.toolsSubdir = name }
}

// WithInstallerConfig is passed to every installer created by the default factory
func WithInstallerConfig(cfg *installer.Config) Option {
	return func(o *options) { o.installerCfg = cfg }
}

// WithInstallerFactory replaces how installers are created
func WithInstallerFactory(f InstallerFactory) Option {
	return func(o *options) { o.factory = f }
}

type record struct {
	Version              string   `toml:"version" validate:"required"`
	Name                 string   `toml:"name" validate:"required"`
	Kind                 string   `toml:"kind" validate:"required,oneof=zip tar.xz tar.zst 7z local-7z nsis"`
	Source               string   `toml:"source" validate:"required"`
	Checksum             string   `toml:"checksum" validate:"omitempty,startswith=sha256:"`
	OutputDir            string   `toml:"output_dir" validate:"required"`
	OutputSuffix         string   `toml:"output_suffix" validate:"omitempty,excludesall=/\\"`
	RequiredVersion      string   `toml:"required_version" validate:"required"`
	StripComponents      int      `toml:"strip_components" validate:"gte=0"`
	PromptForInteractive bool     `toml:"prompt_for_interactive"`
	Families             []string `toml:"families" validate:"dive,oneof=Windows Linux BSD"`
	ExcludedFamilies     []string `toml:"excluded_families" validate:"dive,oneof=Windows Linux BSD"`
}

type document struct {
	Grcov []record `toml:"grcov" validate:"dive"`
	LLVM  []record `toml:"llvm" validate:"min=1,dive"`
}

// New builds the catalog for host. root is the repository root.
func New(root string, host platform.Host, opts ...Option) (*Catalog, error) {
	o := options{
		source:      defaultSource,
		toolsSubdir: DefaultToolsSubdir,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.factory == nil {
		cfg := o.installerCfg
		o.factory = func(spec installer.Spec) (installer.Installer, error) {
			return installer.New(spec, cfg)
		}
	}

	var doc document
	md, err := toml.Decode(string(o.source), &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown keys %v", ErrInvalid, undecoded)
	}
	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	c := &Catalog{
		host:     host,
		toolsDir: filepath.Join(root, o.toolsSubdir),
		grcov:    make(map[string]Entry),
		llvm:     make(map[string][]Entry),
	}

	expand := strings.NewReplacer(
		"{tools}", filepath.ToSlash(c.toolsDir),
		"{family}", string(host.Family),
	)

	for _, r := range doc.Grcov {
		if !r.appliesTo(host.Family) {
			continue
		}
		if _, exists := c.grcov[r.Version]; exists {
			return nil, fmt.Errorf("%w: grcov %s is declared more than once", ErrInvalid, r.Version)
		}

		entry, err := r.entry(expand, o.factory)
		if err != nil {
			return nil, err
		}

		c.grcovVersions = append(c.grcovVersions, r.Version)
		c.grcov[r.Version] = entry
	}

	for _, r := range doc.LLVM {
		if !r.appliesTo(host.Family) {
			continue
		}

		entry, err := r.entry(expand, o.factory)
		if err != nil {
			return nil, err
		}
		if !entry.Flavor.Valid() {
			return nil, fmt.Errorf("%w: LLVM %s has unknown flavor %q", ErrInvalid, r.Version, r.Name)
		}
		if entry.Flavor.IsWindows() != host.IsWindows() {
			return nil, fmt.Errorf("%w: LLVM %s flavor %q does not apply to %s", ErrInvalid, r.Version, r.Name, host.Family)
		}

		if _, exists := c.llvm[r.Version]; !exists {
			c.llvmVersions = append(c.llvmVersions, r.Version)
		}
		for _, existing := range c.llvm[r.Version] {
			if existing.Flavor == entry.Flavor {
				return nil, fmt.Errorf("%w: LLVM %s declares %q more than once", ErrInvalid, r.Version, r.Name)
			}
		}
		c.llvm[r.Version] = append(c.llvm[r.Version], entry)
	}

	if len(c.llvmVersions) == 0 {
		return nil, fmt.Errorf("%w: no LLVM versions for %s", ErrInvalid, host.Family)
	}

	return c, nil
}

// MustNew is New for catalog data that ships with the binary; malformed
// data is a defect.
func MustNew(root string, host platform.Host, opts ...Option) *Catalog {
	c, err := New(root, host, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (r record) appliesTo(family platform.Family) bool {
	for _, excluded := range r.ExcludedFamilies {
		if excluded == string(family) {
			return false
		}
	}
	if len(r.Families) == 0 {
		return true
	}
	for _, f := range r.Families {
		if f == string(family) {
			return true
		}
	}
	return false
}

func (r record) entry(expand *strings.Replacer, factory InstallerFactory) (Entry, error) {
	kind := installer.Kind(r.Kind)

	source := expand.Replace(r.Source)
	if kind.IsLocal() {
		source = filepath.FromSlash(source)
	}

	inst, err := factory(installer.Spec{
		Kind:            kind,
		Source:          source,
		Checksum:        r.Checksum,
		OutputDir:       filepath.FromSlash(expand.Replace(r.OutputDir)),
		Version:         r.RequiredVersion,
		StripComponents: r.StripComponents,
	})
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %s %s: %w", ErrInvalid, r.Name, r.Version, err)
	}

	if r.OutputSuffix != "" {
		inst = AugmentOutputDir(inst, r.OutputSuffix)
	}

	return Entry{
		Name:                 r.Name,
		Flavor:               Flavor(r.Name),
		Installer:            inst,
		PromptForInteractive: r.PromptForInteractive,
	}, nil
}

// AugmentOutputDir moves inst's output directory into the suffix subdirectory
func AugmentOutputDir(inst installer.Installer, suffix string) installer.Installer {
	inst.SetOutputDir(filepath.Join(inst.OutputDir(), suffix))
	return inst
}

// Host is the host the catalog was built for
func (c *Catalog) Host() platform.Host {
	return c.host
}

// ToolsDir is the repository's tools directory
func (c *Catalog) ToolsDir() string {
	return c.toolsDir
}

// ToolDir is the directory holding every version of tool
func (c *Catalog) ToolDir(tool string) string {
	return filepath.Join(c.toolsDir, tool)
}

// GrcovVersions lists the grcov versions in declaration order
func (c *Catalog) GrcovVersions() []string {
	return append([]string(nil), c.grcovVersions...)
}

// Grcov returns the entry for a grcov version
func (c *Catalog) Grcov(version string) (Entry, bool) {
	e, ok := c.grcov[version]
	return e, ok
}

// LLVMVersions lists the LLVM versions in declaration order
func (c *Catalog) LLVMVersions() []string {
	return append([]string(nil), c.llvmVersions...)
}

// LLVM returns the entries for an LLVM version in declaration order
func (c *Catalog) LLVM(version string) ([]Entry, bool) {
	entries, ok := c.llvm[version]
	if !ok {
		return nil, false
	}
	return append([]Entry(nil), entries...), true
}
