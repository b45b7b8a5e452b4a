package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newLayoutsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "layouts",
		Short: "List the layouts and their field tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := g.engine()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, l := range eng.Layouts() {
				fmt.Fprintf(tw, "%s", l.Name)
				if l.Window != nil {
					fmt.Fprintf(tw, "  (window %q..%q)", l.Window.From, l.Window.To)
				}
				fmt.Fprintln(tw)
				for _, f := range l.Table() {
					end := f.End
					if end == "" {
						end = "(end of text)"
					}
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", f.Name, f.StartLabel(), end)
				}
			}
			return tw.Flush()
		},
	}
}
