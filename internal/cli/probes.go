package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sirkon/printtrace/internal/instrument"
)

func newProbesCmd() *cobra.Command {
	var (
		input string
		hook  string
	)

	cmd := &cobra.Command{
		Use:   "probes",
		Short: "List entry tracing calls present in an LLVM IR module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := readModule(cmd, input)
			if err != nil {
				return err
			}

			for _, p := range instrument.Probes(m, hook) {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), p.String()); err != nil {
					return fmt.Errorf("print probe: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "input .ll file, - for stdin")
	cmd.Flags().StringVar(&hook, "hook", instrument.DefaultHook, "logging hook symbol name")

	return cmd
}
