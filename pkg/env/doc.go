// pkg/env/doc.go

/*
Package env inspects an installed LLVM toolchain.

It knows where each flavor keeps its binaries, headers and runtime
libraries, and finds libraries by name within them.

Basic Usage:

	tc := env.New(outputDir, catalog.FlavorStandard)

	for _, dir := range tc.LibraryPaths() {
	    fmt.Println(dir) // <outputDir>/lib/x86_64-unknown-linux-gnu
	}

	if lib := tc.FindLibrary("c++"); lib != nil {
	    fmt.Printf("Found: %s at %s\n", lib.Name, lib.Path)
	}

Layouts:

The standard Unix build keeps its C++ runtime in a target-specific
directory below lib/. llvm-mingw nests a second bin/ below the target
triple, and the Visual Studio flavor keeps everything below its root.
*/
package env
