// internal/cli/setup.go
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	llvmboot "github.com/davidbrownell/v4-Common-LLVM"
)

var (
	setupConfigurations    []string
	setupForce             bool
	setupInteractive       bool
	setupNoInteractive     bool
	setupFetchDependencies bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install the tools",
	Long: `Install grcov and the LLVM toolchain into the repository's Tools directory
and validate each toolchain by compiling a small program.

Examples:
  llvmboot setup
  llvmboot setup --configuration 15.0.2-x64
  llvmboot setup --configuration 15.0.2-msvc-17.4-x64 --interactive
  llvmboot setup --force --fetch-dependencies`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().StringSliceVarP(&setupConfigurations, "configuration", "c", nil, "only install LLVM for these configurations")
	setupCmd.Flags().BoolVar(&setupForce, "force", false, "reinstall tools that are already installed")
	setupCmd.Flags().BoolVar(&setupInteractive, "interactive", false, "let installers that support it prompt")
	setupCmd.Flags().BoolVar(&setupNoInteractive, "no-interactive", false, "never let installers prompt")
	setupCmd.Flags().BoolVar(&setupFetchDependencies, "fetch-dependencies", false, "clone missing dependency repositories")
	setupCmd.MarkFlagsMutuallyExclusive("interactive", "no-interactive")
}

func runSetup(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errOut := cmd.ErrOrStderr()

	b, reporter, err := newBootstrap(errOut)
	if err != nil {
		return err
	}

	opts := llvmboot.SetupOptions{
		ExplicitConfigurations: setupConfigurations,
		Force:                  setupForce,
		Interactive:            interactiveFlag(cmd),
	}

	if _, err := b.Setup(ctx, opts); err != nil {
		return err
	}

	if setupFetchDependencies {
		names := setupConfigurations
		if len(names) == 0 {
			names = b.Names()
		}
		for _, name := range names {
			paths, err := b.FetchDependencies(ctx, name, errOut)
			if err != nil {
				return err
			}
			for _, path := range paths {
				printSuccess(errOut, fmt.Sprintf("%s: %s", name, path))
			}
		}
	}

	if n := reporter.ErrorCount(); n > 0 {
		printWarning(errOut, fmt.Sprintf("Setup finished with %d error(s)", n))
		return nil
	}
	printSuccess(errOut, "Setup complete")
	return nil
}

// interactiveFlag returns the user's choice, or whether stdin is a terminal
// when neither flag was given
func interactiveFlag(cmd *cobra.Command) *bool {
	var value bool
	switch {
	case cmd.Flags().Changed("interactive"):
		value = setupInteractive
	case cmd.Flags().Changed("no-interactive"):
		value = !setupNoInteractive
	default:
		fd := os.Stdin.Fd()
		value = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return &value
}
