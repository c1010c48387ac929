// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the llvmboot release
const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "llvmboot version %s\n", Version)
		fmt.Fprintln(out, "LLVM toolchain bootstrap")
		fmt.Fprintln(out, "https://github.com/davidbrownell/v4-Common_LLVM")
	},
}
