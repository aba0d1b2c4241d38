// Package cli implements the printtrace command line.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X github.com/sirkon/printtrace/internal/cli.Version=...".
var Version = "dev"

// NewRootCmd builds the printtrace command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "printtrace",
		Short: "Function-entry tracing for LLVM IR",
		Long: `printtrace rewrites LLVM IR so that every defined function calls a
logging hook as soon as it is entered. Link the instrumented program with
the printtrace-rt runtime (or any other definition of the hook) to get one
trace line per call on stderr.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newInstrumentCmd())
	rootCmd.AddCommand(newProbesCmd())
	rootCmd.AddCommand(newPassesCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("printtrace version %s\n", Version)
		},
	}
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
