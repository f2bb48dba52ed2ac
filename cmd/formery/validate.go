package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/formery/formery"
	"github.com/formery/formery/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate [code...]",
	Short: "Check notations for semantic defects",
	Long:  `Validates notations against the configured question catalog: reachability, unknown questions, missing choice lists and dead ends. All problems are reported in one pass.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lint, _ := cmd.Flags().GetBool("lint")
		opts := []formery.Option{}
		if lint {
			opts = append(opts, formery.WithLint())
		}
		eng, err := newEngine(opts...)
		if err != nil {
			return err
		}

		codes := args
		if len(codes) == 0 {
			for _, n := range eng.Notations() {
				codes = append(codes, n.Code())
			}
		}

		failed := false
		for _, code := range codes {
			if err := eng.Validate(code); err != nil {
				failed = true
				fmt.Printf("%s: INVALID\n", code)
				for _, p := range validator.Problems(err) {
					fmt.Printf("  %s\n", p)
				}
				if validator.Problems(err) == nil {
					fmt.Printf("  %v\n", err)
				}
				continue
			}
			fmt.Printf("%s: ok\n", code)
		}
		if failed {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().Bool("lint", false, "also report advisory problems (shadowed transitions)")
	rootCmd.AddCommand(validateCmd)
}
