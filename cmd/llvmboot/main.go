// cmd/llvmboot/main.go
package main

import (
	"fmt"
	"os"

	"github.com/davidbrownell/v4-Common-LLVM/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
