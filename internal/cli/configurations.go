// internal/cli/configurations.go
package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	llvmboot "github.com/davidbrownell/v4-Common-LLVM"
)

var configurationsJSON bool

var configurationsCmd = &cobra.Command{
	Use:   "configurations",
	Short: "List the configurations this host offers",
	Long: `List every configuration that can be passed to setup and activate.

Examples:
  llvmboot configurations
  llvmboot configurations --json`,
	Args: cobra.NoArgs,
	RunE: runConfigurations,
}

func init() {
	configurationsCmd.Flags().BoolVar(&configurationsJSON, "json", false, "print configurations as JSON")
}

func runConfigurations(cmd *cobra.Command, args []string) error {
	b, _, err := newBootstrap(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	names := b.Names()
	configs := b.Configurations()

	if configurationsJSON {
		list := make([]llvmboot.Configuration, 0, len(names))
		for _, name := range names {
			list = append(list, configs[name])
		}

		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding configurations: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	printSection(out, fmt.Sprintf("Configurations (%s)", b.Host()))
	for _, name := range names {
		c := configs[name]
		_, _ = labelColor.Fprintf(out, "%s\n", name)
		fmt.Fprintf(out, "    %s\n", c.Description)
		for _, dep := range c.Dependencies {
			_, _ = valueColor.Fprintf(out, "    depends on %s (%s)\n", dep.Name, dep.Configuration)
		}
	}
	return nil
}
