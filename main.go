// Command printtrace instruments LLVM IR modules with function-entry tracing
// calls. See internal/instrument for the rewriting rules and
// cmd/printtrace-rt for the runtime the instrumented code calls into.
package main

import (
	"fmt"
	"os"

	"github.com/sirkon/printtrace/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
