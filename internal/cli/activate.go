// internal/cli/activate.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/shell"
)

var (
	activateShell string
	activateForce bool
)

var activateCmd = &cobra.Command{
	Use:   "activate [configuration]",
	Short: "Print the shell commands that activate a configuration",
	Long: `Validate the installed tools and print the script that puts them on PATH.
Without a configuration the one selected by the last setup or activate is used.

Examples:
  eval "$(llvmboot activate 15.0.2-x64)"
  llvmboot activate 15.0.2-mingw-x64 --shell cmd > activate.cmd`,
	Args: cobra.MaximumNArgs(1),
	RunE: runActivate,
}

func init() {
	activateCmd.Flags().StringVar(&activateShell, "shell", "", "script dialect: bash or cmd (default depends on the host)")
	activateCmd.Flags().BoolVar(&activateForce, "force", false, "activate even if the configuration is already active")
}

func runActivate(cmd *cobra.Command, args []string) error {
	errOut := cmd.ErrOrStderr()

	b, reporter, err := newBootstrap(errOut)
	if err != nil {
		return err
	}

	dialect := shell.DefaultDialect(b.Host())
	if name := activateShell; name != "" || config.Shell != "" {
		if name == "" {
			name = config.Shell
		}
		if dialect, err = shell.ParseDialect(name); err != nil {
			return err
		}
	}

	var name string
	if len(args) == 1 {
		name = args[0]
	}

	cmds, err := b.Activate(context.Background(), name, activateForce)
	if err != nil {
		return err
	}

	script, err := b.Render(dialect, cmds)
	if err != nil {
		return fmt.Errorf("rendering activation script: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), script)

	if n := reporter.ErrorCount(); n > 0 {
		printWarning(errOut, fmt.Sprintf("Activation found %d problem(s); run 'llvmboot setup'", n))
	}
	return nil
}
