package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docfields/internal/output"
)

func newParseCmd(g *globals) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Extract the fields of one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			eng, _, err := g.engine()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			m, err := eng.ParseFile(args[0], f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			return output.Write(cmd.OutOrStdout(), format, m)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format: json, text, xml")
	return cmd
}
