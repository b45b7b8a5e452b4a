// Package engine wires the decoders, the layouts and the parse chain into
// the single entry point used by the CLI, the batch runner and the API.
package engine

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/docfields/internal/config"
	"github.com/dgallion1/docfields/internal/docparse"
	"github.com/dgallion1/docfields/internal/doctree"
	"github.com/dgallion1/docfields/internal/fallback"
	"github.com/dgallion1/docfields/internal/fields"
	"github.com/dgallion1/docfields/internal/parser"
	"github.com/dgallion1/docfields/internal/props"
)

// Options selects the layouts and decoder tuning of an Engine.
type Options struct {
	// Layouts to try in order; nil means fields.BuiltinLayouts.
	Layouts           []fields.Layout
	PDFSortByPosition bool
}

// OptionsFromConfig loads the layouts file named by cfg, if any.
func OptionsFromConfig(cfg config.Config) (Options, error) {
	opts := Options{PDFSortByPosition: cfg.PDFSortByPosition}
	if cfg.LayoutsFile != "" {
		layouts, err := fields.LoadLayoutsFile(cfg.LayoutsFile)
		if err != nil {
			return Options{}, err
		}
		opts.Layouts = layouts
	}
	return opts, nil
}

// Engine parses documents of any known format against the known layouts.
// It is immutable and safe for concurrent use.
type Engine struct {
	log        *slog.Logger
	registry   *parser.Registry
	layouts    []fields.Layout
	extractors *fields.ExtractorChain
	byFormat   map[string]*docparse.TreeParser
	sniffing   []*docparse.TreeParser
	chain      *docparse.Chain
}

func New(opts Options, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	layouts := opts.Layouts
	if layouts == nil {
		layouts = fields.BuiltinLayouts()
	}
	extractors, err := fields.BuildChain(layouts, log)
	if err != nil {
		return nil, fmt.Errorf("build layouts: %w", err)
	}

	e := &Engine{
		log:        log,
		registry:   parser.NewRegistry(parser.Options{PDFSortByPosition: opts.PDFSortByPosition}),
		layouts:    append([]fields.Layout(nil), layouts...),
		extractors: extractors,
		byFormat:   map[string]*docparse.TreeParser{},
	}
	for _, f := range e.registry.Formats() {
		e.byFormat[f.Name] = docparse.NewTreeParser(f.Name, f.Decoder, extractors, log)
	}
	b := docparse.NewChainBuilder().WithLogger(log)
	for _, f := range e.registry.Sniffing() {
		tp := e.byFormat[f.Name]
		e.sniffing = append(e.sniffing, tp)
		b.Add(tp)
	}
	e.chain = b.Build()

	log.Info("engine ready", "layouts", len(layouts), "formats", len(e.byFormat), "pdf_sort_by_position", opts.PDFSortByPosition)
	return e, nil
}

// Layouts returns the layouts tried, in order.
func (e *Engine) Layouts() []fields.Layout {
	return append([]fields.Layout(nil), e.layouts...)
}

// Registry returns the decoder registry.
func (e *Engine) Registry() *parser.Registry { return e.registry }

// Parse sniffs the format of r and extracts its properties.
func (e *Engine) Parse(r io.Reader) (*props.Map, error) {
	return e.chain.Parse(r)
}

// ParseFile parses r with the decoder for filename's extension, falling
// back to sniffing when the extension is unknown.
func (e *Engine) ParseFile(filename string, r io.Reader) (*props.Map, error) {
	f, err := e.registry.ForFile(filename)
	if err != nil {
		e.log.Debug("unknown extension, sniffing", "file", filename)
		return e.Parse(r)
	}
	return e.byFormat[f.Name].Parse(r)
}

// Tree decodes r with the first decoder that accepts it and returns the
// normalized tree, without extracting anything.
func (e *Engine) Tree(r io.Reader) (*doctree.Tree, error) {
	buf, err := docparse.Materialize(r)
	if err != nil {
		return nil, err
	}
	tree, res, err := fallback.Run(e.sniffing, func(tp *docparse.TreeParser) (*doctree.Tree, error) {
		buf.Reset()
		return tp.Tree(buf)
	}, func(err error) fallback.Outcome {
		if docparse.IsUnsupported(err) {
			return fallback.Skip
		}
		return fallback.Suppress
	})
	if err != nil {
		return nil, err
	}
	if res.Winner >= 0 {
		e.log.Debug("decoded document", "decoder", e.sniffing[res.Winner].String())
		return tree, nil
	}
	if !res.Hard {
		return nil, fmt.Errorf("%w: no decoders support the type of document", docparse.ErrUnsupportedFormat)
	}
	return nil, &docparse.AggregateError{Msg: "all decoders failed to read the document", Causes: res.Causes}
}

// TreeFile is Tree with the decoder chosen by extension.
func (e *Engine) TreeFile(filename string, r io.Reader) (*doctree.Tree, error) {
	f, err := e.registry.ForFile(filename)
	if err != nil {
		return e.Tree(r)
	}
	return e.byFormat[f.Name].Tree(r)
}
