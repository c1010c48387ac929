// Package deps describes the repositories a configuration depends on and
// fetches the ones that are missing.
package deps

import (
	"github.com/google/uuid"
)

// Dependency is a repository a configuration needs, activated with its own
// configuration
type Dependency struct {
	ID            uuid.UUID `yaml:"id" json:"id"`
	Name          string    `yaml:"name" json:"name"`
	Configuration string    `yaml:"configuration" json:"configuration"`
	URI           string    `yaml:"uri" json:"uri"`
}

var (
	// Foundation is the repository every configuration builds on
	Foundation = Dependency{
		ID:            uuid.MustParse("DD6FCD30-B043-4058-B0D5-A6C8BC0374F4"),
		Name:          "Common_Foundation",
		Configuration: "python310",
		URI:           "https://github.com/davidbrownell/v4-Common_Foundation.git",
	}

	msvcID = uuid.MustParse("6e6cbb2c-6512-470f-ba88-a6e4ad85fed0")
)

// MSVC is the Visual Studio repository configured for msvcVersion and arch
func MSVC(msvcVersion, arch string) Dependency {
	return Dependency{
		ID:            msvcID,
		Name:          "Common_cpp_MSVC",
		Configuration: msvcVersion + "-" + arch,
		URI:           "https://github.com/davidbrownell/v4-Common_cpp_MSVC.git",
	}
}
