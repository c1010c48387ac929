// pkg/env/types.go
package env

import "github.com/davidbrownell/v4-Common-LLVM/pkg/catalog"

// Layout defines where files are located within an installed toolchain
type Layout struct {
	Binaries  []string // Relative paths to binary directories
	Libraries []string // Relative paths to library directories
	Includes  []string // Relative paths to include directories
}

// Library represents a found library file
type Library struct {
	Name     string // Library name (e.g., "c++")
	Path     string // Absolute path to library file
	Type     string // Extension: ".so", ".a", ".dylib", ".dll", ".lib"
	IsStatic bool   // True for .a and .lib files
}

// Toolchain is an installed LLVM entry
type Toolchain struct {
	Root   string // Installer output directory
	Flavor catalog.Flavor
}
