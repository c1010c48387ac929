// internal/cli/root.go
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	llvmboot "github.com/davidbrownell/v4-Common-LLVM"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/core"
	"github.com/davidbrownell/v4-Common-LLVM/pkg/report"
)

var (
	cfgFile string
	rootDir string
	debug   bool
	verbose bool
	config  *core.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "llvmboot",
	Short: "LLVM toolchain bootstrap",
	Long: `llvmboot - LLVM toolchain bootstrap

Installs the LLVM toolchain and grcov into this repository's Tools directory
and prints the environment changes a shell needs to use them.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/llvmboot/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "repository root (default is the current directory)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show verbose progress")

	// Add commands
	rootCmd.AddCommand(configurationsCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(activateCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	// Override config with flags
	if rootDir != "" {
		config.RepositoryRoot = rootDir
		config.GeneratedDir = ""
		config.ToolsSubdir = ""
		applyDefaults(config)
	}
	if debug {
		config.Debug = true
	}
}

// applyDefaults fills fields cleared after a flag override
func applyDefaults(cfg *core.Config) {
	defaults := core.DefaultConfig()
	if cfg.ToolsSubdir == "" {
		cfg.ToolsSubdir = defaults.ToolsSubdir
	}
	if cfg.GeneratedDir == "" {
		cfg.GeneratedDir = filepath.Join(cfg.RepositoryRoot, "Generated")
	}
}

// newBootstrap creates a Bootstrap that reports progress to w
func newBootstrap(w io.Writer) (*llvmboot.Bootstrap, *report.Reporter, error) {
	reporter := report.New(w, verbose)

	b, err := llvmboot.New(config, llvmboot.WithReporter(reporter))
	if err != nil {
		return nil, nil, err
	}
	return b, reporter, nil
}
