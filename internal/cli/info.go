// internal/cli/info.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/platform"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the host and the state of every tool",
	Long:  `Display the detected host, the repository paths and whether each catalog entry is installed.`,
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	b, _, err := newBootstrap(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	printSection(out, "Host")
	printLabelValue(out, "Platform", b.Host().String())
	printLabelValue(out, "Repository", config.RepositoryRoot)
	printLabelValue(out, "Tools", b.Catalog().ToolsDir())
	printLabelValue(out, "Cache", config.CachePath)
	printLabelValue(out, "7-Zip", availability(b.Host().ExecutableName("7z")))

	printSection(out, "Tools")
	for _, s := range b.Status() {
		fmt.Fprintf(out, "%s %s (%s)\n", s.Tool, s.Version, s.Entry)
		printLabelValue(out, "Directory", s.OutputDir)
		if s.Status.Install {
			printWarning(out, s.Status.Reason)
		} else {
			printSuccess(out, "installed")
			if len(s.Libraries) > 0 {
				printLabelValue(out, "Libraries", strings.Join(s.Libraries, ", "))
			}
		}
	}

	return nil
}

func availability(exe string) string {
	if platform.CommandExists(exe) {
		return exe + " (found)"
	}
	return exe + " (not found on PATH)"
}
