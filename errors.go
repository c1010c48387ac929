// errors.go
package llvmboot

import (
	"errors"
	"fmt"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/catalog"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/installer"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/setup"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/versions"
)

var (
	// ErrNotInstalled indicates a tool has no installed version directory
	ErrNotInstalled = versions.ErrNotInstalled

	// ErrInstall indicates an installer could not complete
	ErrInstall = installer.ErrInstall

	// ErrChecksumMismatch indicates a download did not match its checksum
	ErrChecksumMismatch = installer.ErrChecksumMismatch

	// ErrValidation indicates an installed toolchain failed its smoke test
	ErrValidation = setup.ErrValidation

	// ErrInvalidCatalog indicates malformed catalog data
	ErrInvalidCatalog = catalog.ErrInvalid

	// ErrUnknownConfiguration indicates a configuration name this host does not offer
	ErrUnknownConfiguration = errors.New("unknown configuration")

	// ErrPlatformNotSupported indicates the platform is not supported
	ErrPlatformNotSupported = errors.New("platform not supported")
)

// Error wraps an error with additional context
type Error struct {
	Op   string // Operation that failed
	Tool string // Configuration or tool if applicable
	Err  error  // Underlying error
}

func (e *Error) Error() string {
	if e.Tool != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Tool, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
