package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirkon/printtrace/internal/instrument"
	"github.com/sirkon/printtrace/internal/pipeline"
)

func newPassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passes",
		Short: "List registered passes and their extension points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := pipeline.NewRegistry()
			if err := instrument.Register(registry, instrument.Config{}, pipeline.ExtensionPoints); err != nil {
				return err
			}

			for _, name := range registry.Names() {
				var points []string
				for _, p := range registry.Points(name) {
					points = append(points, p.String())
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, strings.Join(points, ",")); err != nil {
					return fmt.Errorf("print pass %s: %w", name, err)
				}
			}
			return nil
		},
	}
}
