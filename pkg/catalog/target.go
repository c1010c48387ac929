package catalog

import (
	"fmt"
	"strings"
)

// Flavor is the compiler front-end an LLVM entry provides
type Flavor string

const (
	FlavorStandard Flavor = "standard" // self-contained Unix build
	FlavorMingw    Flavor = "mingw"    // llvm-mingw (Windows)
	FlavorMsvc     Flavor = "msvc"     // LLVM/Clang on top of Visual Studio (Windows)
)

// Valid reports whether f is a known flavor
func (f Flavor) Valid() bool {
	switch f {
	case FlavorStandard, FlavorMingw, FlavorMsvc:
		return true
	}
	return false
}

// IsWindows reports whether f only exists on Windows
func (f Flavor) IsWindows() bool {
	return f == FlavorMingw || f == FlavorMsvc
}

// Target is what a configuration name selects
type Target struct {
	LLVMVersion  string
	Flavor       Flavor
	Architecture string
	MSVCVersion  string // FlavorMsvc only
}

// Name returns the configuration name for t:
//
//	<version>-<arch>
//	<version>-mingw-<arch>
//	<version>-msvc-<msvc version>-<arch>
func (t Target) Name() string {
	switch t.Flavor {
	case FlavorMingw:
		return fmt.Sprintf("%s-mingw-%s", t.LLVMVersion, t.Architecture)
	case FlavorMsvc:
		return fmt.Sprintf("%s-msvc-%s-%s", t.LLVMVersion, t.MSVCVersion, t.Architecture)
	default:
		return fmt.Sprintf("%s-%s", t.LLVMVersion, t.Architecture)
	}
}

// ParseTarget is the inverse of Target.Name
func ParseTarget(name string) (Target, error) {
	tokens := strings.Split(name, "-")
	if len(tokens) < 2 {
		return Target{}, fmt.Errorf("invalid configuration name %q", name)
	}
	for _, tok := range tokens {
		if tok == "" {
			return Target{}, fmt.Errorf("invalid configuration name %q", name)
		}
	}

	t := Target{
		LLVMVersion:  tokens[0],
		Flavor:       FlavorStandard,
		Architecture: tokens[len(tokens)-1],
	}

	middle := tokens[1 : len(tokens)-1]
	switch {
	case len(middle) == 0:
	case len(middle) == 1 && middle[0] == string(FlavorMingw):
		t.Flavor = FlavorMingw
	case len(middle) == 2 && middle[0] == string(FlavorMsvc):
		t.Flavor = FlavorMsvc
		t.MSVCVersion = middle[1]
	default:
		return Target{}, fmt.Errorf("invalid configuration name %q", name)
	}

	return t, nil
}

// SelectLLVMEntry picks the entry a target uses: the sole entry, or the
// first whose flavor matches.
func SelectLLVMEntry(entries []Entry, t Target) (Entry, bool) {
	if len(entries) == 1 {
		return entries[0], true
	}
	for _, e := range entries {
		if e.Flavor == t.Flavor {
			return e, true
		}
	}
	return Entry{}, false
}
