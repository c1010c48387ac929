package setup

import (
	"fmt"
	"sort"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/catalog"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/deps"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/versions"
)

const conanFlavorsURL = "https://blog.conan.io/2022/10/13/Different-flavors-Clang-compiler-Windows.html"

var (
	// WindowsArchitectures are the targets configured on Windows
	WindowsArchitectures = []string{"x64"}

	// MSVCVersions are the Visual Studio versions the msvc flavor is configured for
	MSVCVersions = []string{"17.4"}
)

// Configuration is one selectable development environment
type Configuration struct {
	Name         string            `yaml:"name" json:"name"`
	Description  string            `yaml:"description" json:"description"`
	Dependencies []deps.Dependency `yaml:"dependencies" json:"dependencies"`
	VersionSpecs versions.Specs    `yaml:"version_specs" json:"version_specs"`
	Target       catalog.Target    `yaml:"-" json:"-"`
}

// Configurations generates one configuration per LLVM version and target
// available on the host, keyed by name
func (p *Planner) Configurations() map[string]Configuration {
	result := make(map[string]Configuration)

	host := p.catalog.Host()

	architectures := []string{host.Arch}
	if host.IsWindows() {
		architectures = WindowsArchitectures
	}

	for _, version := range p.catalog.LLVMVersions() {
		specs := versions.Specs{
			Tools: []versions.VersionInfo{{Name: catalog.ToolLLVM, Version: version}},
		}

		entries, _ := p.catalog.LLVM(version)
		for _, entry := range entries {
			for _, target := range targets(version, entry.Flavor, architectures) {
				c := Configuration{
					Name:         target.Name(),
					Description:  describe(target),
					Dependencies: dependencies(target),
					VersionSpecs: specs,
					Target:       target,
				}
				result[c.Name] = c
			}
		}
	}

	return result
}

// Names returns the configuration names in sorted order
func (p *Planner) Names() []string {
	configs := p.Configurations()

	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func targets(version string, flavor catalog.Flavor, architectures []string) []catalog.Target {
	var result []catalog.Target

	msvcVersions := []string{""}
	if flavor == catalog.FlavorMsvc {
		msvcVersions = MSVCVersions
	}

	for _, msvc := range msvcVersions {
		for _, arch := range architectures {
			result = append(result, catalog.Target{
				LLVMVersion:  version,
				Flavor:       flavor,
				Architecture: arch,
				MSVCVersion:  msvc,
			})
		}
	}
	return result
}

func describe(t catalog.Target) string {
	switch t.Flavor {
	case catalog.FlavorMingw:
		return fmt.Sprintf(`Uses LLVM 'v%s' (using mingw (aka "Msys2 MinGW Clang" at %s)) targeting '%s'.`,
			t.LLVMVersion, conanFlavorsURL, t.Architecture)
	case catalog.FlavorMsvc:
		return fmt.Sprintf(`Uses LLVM 'v%s' (using Microsoft Visual Studio 'v%s' (aka "LLVM/Clang" at %s)) targeting '%s'.`,
			t.LLVMVersion, t.MSVCVersion, conanFlavorsURL, t.Architecture)
	default:
		return fmt.Sprintf("Uses LLVM 'v%s' (without any external dependencies) targeting '%s'.",
			t.LLVMVersion, t.Architecture)
	}
}

func dependencies(t catalog.Target) []deps.Dependency {
	if t.Flavor == catalog.FlavorMsvc {
		return []deps.Dependency{deps.MSVC(t.MSVCVersion, t.Architecture)}
	}
	return []deps.Dependency{deps.Foundation}
}
