package setup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/env"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/process"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/report"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/shell"
)

const (
	// SmokeSource is compiled against every installed non-Windows toolchain
	SmokeSource = `#include <iostream>

int main() {
    std::cout << "Hello world!\n";
    return 0;
}
`

	// SmokeOutput is what the compiled program must print
	SmokeOutput = "Hello world!\n"

	// LinuxLibDir is the toolchain's runtime library directory, relative to its output directory
	LinuxLibDir = env.LinuxRuntimeDir

	smokeSourceName = "test.cpp"
)

const glibcHint = `Errors here generally indicate that glibc has not been installed (especially if the error is associated with 'features.h').
Visit https://www.gnu.org/software/libc/ for more information.

Please install glibc using your distro's favorite package manager.

Examples:
    Ubuntu:     ` + "`apt-get install -y libc6-dev`" + `

COMPILER ERROR
--------------
%s
`

// validate compiles and runs a hello world program with the toolchain in
// outputDir. The scratch directory is removed only on success.
func (p *Planner) validate(ctx context.Context, r *report.Reporter, outputDir string) error {
	return r.Nested("Validating installation...", func(r *report.Reporter) error {
		tempDir, err := shell.CreateTempDirectory(p.config.ScratchDir)
		if err != nil {
			return err
		}

		succeeded := false
		defer func() {
			if succeeded {
				if err := os.RemoveAll(tempDir); err != nil {
					p.logger.Printf("Removing %s: %v", tempDir, err)
				}
				return
			}
			r.Info("The temporary directory '%s' has not been deleted.", tempDir)
		}()

		if err := r.Nested("Creating source file...", func(*report.Reporter) error {
			return os.WriteFile(filepath.Join(tempDir, smokeSourceName), []byte(SmokeSource), 0644)
		}); err != nil {
			return fmt.Errorf("writing %s: %w", smokeSourceName, err)
		}

		if err := r.Nested("Compiling...", func(r *report.Reporter) error {
			return p.compile(ctx, r, outputDir, tempDir)
		}); err != nil {
			return err
		}

		if err := r.Nested("Testing...", func(r *report.Reporter) error {
			return p.run(ctx, r, tempDir)
		}); err != nil {
			return err
		}

		succeeded = true
		return nil
	})
}

func (p *Planner) compile(ctx context.Context, r *report.Reporter, outputDir, tempDir string) error {
	binDir := filepath.Join(outputDir, "bin")

	vars := process.EnvMap(os.Environ())
	if path := vars["PATH"]; path != "" {
		vars["PATH"] = path + string(os.PathListSeparator) + binDir
	} else {
		vars["PATH"] = binDir
	}
	vars["LD_LIBRARY_PATH"] = filepath.Join(outputDir, filepath.FromSlash(LinuxLibDir))

	r.Verbose("Command Line: clang++ \"%s\"", smokeSourceName)

	result, err := p.runner.Run(ctx, process.Cmd{
		Args: []string{filepath.Join(binDir, "clang++"), smokeSourceName},
		Dir:  tempDir,
		Env:  vars,
	})
	if err != nil {
		r.Error("%v", err)
		return &ValidationError{Step: "compile", ExitCode: -1, ScratchDir: tempDir, Err: err}
	}

	if result.ExitCode != 0 {
		r.Error(glibcHint, report.Indent(strings.TrimSpace(result.Output), 4))
		return &ValidationError{Step: "compile", ExitCode: result.ExitCode, Output: result.Output, ScratchDir: tempDir}
	}

	if result.Output != "" {
		r.Verbose("%s", result.Output)
	}
	return nil
}

func (p *Planner) run(ctx context.Context, r *report.Reporter, tempDir string) error {
	r.Verbose("Command Line: ./a.out")

	result, err := p.runner.Run(ctx, process.Cmd{
		Args: []string{filepath.Join(tempDir, "a.out")},
		Dir:  tempDir,
	})
	if err != nil {
		r.Error("%v", err)
		return &ValidationError{Step: "run", ExitCode: -1, ScratchDir: tempDir, Err: err}
	}

	exitCode := result.ExitCode
	if exitCode == 0 && result.Output != SmokeOutput {
		exitCode = -1
	}
	if exitCode != 0 {
		r.Error("%s", result.Output)
		return &ValidationError{Step: "run", ExitCode: exitCode, Output: result.Output, ScratchDir: tempDir}
	}

	r.Verbose("%s", result.Output)
	return nil
}
