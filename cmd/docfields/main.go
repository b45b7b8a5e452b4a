// Command docfields extracts labelled fields from documents on the command
// line, over folders, or from a watched folder.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docfields/internal/config"
	"github.com/dgallion1/docfields/internal/engine"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	layoutsFile string
	logLevel    string
	noSort      bool
}

func main() {
	cfg := config.Load()
	g := &globals{layoutsFile: cfg.LayoutsFile, logLevel: cfg.LogLevel, noSort: !cfg.PDFSortByPosition}

	rootCmd := &cobra.Command{
		Use:          "docfields",
		Short:        "Extract labelled fields from documents",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.layoutsFile, "layouts", g.layoutsFile, "YAML layouts file (default: built-in layouts)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", g.logLevel, "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&g.noSort, "pdf-stream-order", g.noSort, "read PDF text in content-stream order instead of by position")

	rootCmd.AddCommand(newParseCmd(g))
	rootCmd.AddCommand(newDumpCmd(g))
	rootCmd.AddCommand(newBatchCmd(g))
	rootCmd.AddCommand(newWatchCmd(g))
	rootCmd.AddCommand(newLayoutsCmd(g))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (g *globals) config() config.Config {
	return config.Config{
		LayoutsFile:       g.layoutsFile,
		LogLevel:          g.logLevel,
		PDFSortByPosition: !g.noSort,
	}
}

func (g *globals) logger() (*slog.Logger, error) {
	level, err := g.config().Level()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

func (g *globals) engine() (*engine.Engine, *slog.Logger, error) {
	log, err := g.logger()
	if err != nil {
		return nil, nil, err
	}
	opts, err := engine.OptionsFromConfig(g.config())
	if err != nil {
		return nil, nil, err
	}
	eng, err := engine.New(opts, log)
	if err != nil {
		return nil, nil, err
	}
	return eng, log, nil
}
