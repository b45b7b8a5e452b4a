package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docfields/internal/batch"
	"github.com/dgallion1/docfields/internal/output"
)

func newBatchCmd(g *globals) *cobra.Command {
	var (
		outputFormat string
		workers      int
		summary      string
	)

	cmd := &cobra.Command{
		Use:   "batch <input-dir> <output-dir>",
		Short: "Extract the fields of every document in a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			eng, log, err := g.engine()
			if err != nil {
				return err
			}

			s, err := batch.NewRunner(eng, format, workers, log).Dir(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			if summary != "" {
				f, err := os.Create(summary)
				if err != nil {
					return err
				}
				if err := output.WriteXLSX(f, s.Rows()); err != nil {
					f.Close()
					return fmt.Errorf("write summary: %w", err)
				}
				if err := f.Close(); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d processed, %d failed\n", s.Processed, s.Failed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format: json, text, xml")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "documents parsed concurrently")
	cmd.Flags().StringVar(&summary, "summary", "", "also write an .xlsx summary with one row per document")
	return cmd
}
