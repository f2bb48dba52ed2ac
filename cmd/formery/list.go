package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the notations found in the configured directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Code", "Title", "Respondent", "States", "Alignment", "Document"})
		for _, n := range eng.Notations() {
			alignment := ""
			if n.Alignment != nil {
				alignment = "yes"
			}
			document := ""
			if n.Document != nil {
				document = string(n.Document.Type)
			}
			t.AppendRow(table.Row{
				n.Code(),
				n.Metadata.Title,
				string(n.Metadata.Respondent),
				len(n.Flow.Nodes),
				alignment,
				document,
			})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
