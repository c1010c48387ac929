// pkg/env/layout.go
package env

import (
	"os"
	"path/filepath"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/catalog"
)

const (
	// LinuxRuntimeDir holds the standard build's C++ runtime, relative to its root
	LinuxRuntimeDir = "lib/x86_64-unknown-linux-gnu"

	// MingwTriple is the llvm-mingw target directory
	MingwTriple = "x86_64-w64-mingw32"
)

// New creates a Toolchain rooted at dir
func New(dir string, flavor catalog.Flavor) *Toolchain {
	return &Toolchain{Root: dir, Flavor: flavor}
}

// GetLayout returns the directory structure of a flavor. Paths are relative
// to the toolchain root.
func GetLayout(flavor catalog.Flavor) Layout {
	switch flavor {
	case catalog.FlavorMingw:
		return Layout{
			Binaries:  []string{"bin", filepath.Join(MingwTriple, "bin")},
			Libraries: []string{filepath.Join(MingwTriple, "lib"), "lib"},
			Includes:  []string{filepath.Join(MingwTriple, "include"), "include"},
		}
	case catalog.FlavorMsvc:
		return Layout{
			Binaries:  []string{"bin"},
			Libraries: []string{"lib"},
			Includes:  []string{"include"},
		}
	default:
		return Layout{
			Binaries:  []string{"bin"},
			Libraries: []string{filepath.FromSlash(LinuxRuntimeDir), "lib"},
			Includes:  []string{filepath.Join("include", "c++", "v1"), "include"},
		}
	}
}

// Layout is the toolchain's flavor layout
func (t *Toolchain) Layout() Layout {
	return GetLayout(t.Flavor)
}

// BinaryPaths returns the binary directories that exist
func (t *Toolchain) BinaryPaths() []string {
	return t.existing(t.Layout().Binaries)
}

// LibraryPaths returns the library directories that exist
func (t *Toolchain) LibraryPaths() []string {
	return t.existing(t.Layout().Libraries)
}

// IncludePaths returns the include directories that exist
func (t *Toolchain) IncludePaths() []string {
	return t.existing(t.Layout().Includes)
}

func (t *Toolchain) existing(rel []string) []string {
	var paths []string
	for _, r := range rel {
		p := filepath.Join(t.Root, r)
		if dirExists(p) {
			paths = append(paths, p)
		}
	}
	return paths
}

// GetLibraryExtensions returns the library extensions of every platform,
// shared first
func GetLibraryExtensions() []string {
	return []string{".so", ".dylib", ".dll", ".a", ".lib"}
}

func isStatic(ext string) bool {
	return ext == ".a" || ext == ".lib"
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
