package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/formery/formery/internal/presentation/graph"
	"github.com/formery/formery/pkg/domain"
)

var graphCmd = &cobra.Command{
	Use:   "graph <code>",
	Short: "Export a notation's flow as a Mermaid diagram",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		n, ok := eng.Notation(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrNotationNotFound, args[0])
		}

		alignment, _ := cmd.Flags().GetBool("alignment")
		machine := &n.Flow
		if alignment {
			if n.Alignment == nil {
				return fmt.Errorf("notation %s declares no alignment flow", args[0])
			}
			machine = n.Alignment
		}
		fmt.Print(graph.GenerateMermaid(machine))
		return nil
	},
}

func init() {
	graphCmd.Flags().Bool("alignment", false, "render the alignment machine instead of the client flow")
	rootCmd.AddCommand(graphCmd)
}
