package docparse

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/docfields/internal/doctree"
	"github.com/dgallion1/docfields/internal/props"
)

// Decoder converts document bytes into structural events. Decoders for the
// wrong format return an error wrapping ErrUnsupportedFormat.
type Decoder interface {
	Decode(r io.Reader, h doctree.Handler) error
}

// Extractor pulls properties out of a normalized tree.
type Extractor interface {
	Extract(t *doctree.Tree) (*props.Map, error)
}

// TreeParser decodes a document into a normalized tree and hands the tree
// to an extractor.
type TreeParser struct {
	name string
	dec  Decoder
	ext  Extractor
	log  *slog.Logger
}

func NewTreeParser(name string, dec Decoder, ext Extractor, log *slog.Logger) *TreeParser {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TreeParser{name: name, dec: dec, ext: ext, log: log}
}

func (p *TreeParser) String() string { return p.name }

// Parse decodes r and extracts properties. A layout miss is reported as an
// unsupported format so a surrounding Chain moves on to the next parser.
func (p *TreeParser) Parse(r io.Reader) (*props.Map, error) {
	tree, err := p.Tree(r)
	if err != nil {
		return nil, err
	}
	m, err := p.ext.Extract(tree)
	if err != nil {
		if errors.Is(err, ErrUnsupportedLayout) {
			return nil, fmt.Errorf("%s: %w: %w", p.name, ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("%s: extract: %w", p.name, err)
	}
	return m, nil
}

// Tree decodes r into a normalized tree without extracting anything.
func (p *TreeParser) Tree(r io.Reader) (*doctree.Tree, error) {
	b := doctree.NewBuilder(p.log.With("decoder", p.name))
	if err := p.dec.Decode(r, b); err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: decode: %w", p.name, err)
	}
	tree := b.Tree()
	if tree == nil {
		return nil, fmt.Errorf("%s: %w: document never ended", p.name, doctree.ErrMalformed)
	}
	return tree, nil
}
