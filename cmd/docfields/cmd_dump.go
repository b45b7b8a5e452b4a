package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docfields/internal/doctree"
)

func newDumpCmd(g *globals) *cobra.Command {
	var indent int

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the normalized document tree as XML",
		Long: `Decode a document and print the tree the field extractor searches.
Useful when writing a layout for a new kind of document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := g.engine()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			tree, err := eng.TreeFile(args[0], f)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			return doctree.WriteXML(cmd.OutOrStdout(), tree, indent)
		},
	}

	cmd.Flags().IntVar(&indent, "indent", 2, "spaces per nesting level")
	return cmd
}
