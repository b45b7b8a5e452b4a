package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docfields/internal/batch"
	"github.com/dgallion1/docfields/internal/output"
)

func newWatchCmd(g *globals) *cobra.Command {
	var (
		outputFormat string
		debounce     time.Duration
		existing     bool
	)

	cmd := &cobra.Command{
		Use:   "watch <input-dir> <output-dir>",
		Short: "Extract fields from documents as they arrive in a folder",
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

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return batch.NewRunner(eng, format, 1, log).Watch(ctx, args[0], args[1], batch.WatchOptions{
				Debounce:    debounce,
				InitialScan: existing,
				OnResult: func(r batch.Result) {
					if r.Err != nil {
						fmt.Fprintf(out, "FAIL %s: %v\n", r.Input, r.Err)
						return
					}
					fmt.Fprintf(out, "ok   %s -> %s\n", r.Input, r.Output)
				},
			})
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format: json, text, xml")
	cmd.Flags().DurationVar(&debounce, "debounce", 250*time.Millisecond, "quiet period before a changed file is parsed")
	cmd.Flags().BoolVar(&existing, "existing", false, "parse files already in the folder first")
	return cmd
}
