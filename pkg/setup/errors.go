package setup

import (
	"errors"
	"fmt"
)

// ErrValidation indicates a freshly installed toolchain failed its smoke test
var ErrValidation = errors.New("installation validation failed")

// ValidationError describes a failed smoke test. The scratch directory is
// left on disk for inspection.
type ValidationError struct {
	Step       string // "compile" or "run"
	ExitCode   int
	Output     string
	ScratchDir string
	Err        error // set when the command could not be started
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s step failed: %v (see '%s')", e.Step, e.Err, e.ScratchDir)
	}
	return fmt.Sprintf("%s step failed with exit code %d (see '%s')", e.Step, e.ExitCode, e.ScratchDir)
}

// Is reports ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
