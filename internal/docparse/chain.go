// Package docparse turns a document byte stream into an ordered property map
// by trying a list of parsing strategies over one replayable buffer.
package docparse

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/docfields/internal/fallback"
	"github.com/dgallion1/docfields/internal/props"
)

// Parser reads a whole document and extracts its properties. It must not
// close r. A parser that does not handle the document returns an error
// wrapping ErrUnsupportedFormat (or ErrUnsupportedLayout).
type Parser interface {
	Parse(r io.Reader) (*props.Map, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(r io.Reader) (*props.Map, error)

func (f ParserFunc) Parse(r io.Reader) (*props.Map, error) { return f(r) }

// Chain tries its parsers in registration order and returns the first
// success. A Chain is immutable and safe for concurrent use.
type Chain struct {
	parsers []Parser
	log     *slog.Logger
}

// ChainBuilder collects parsers for a Chain.
type ChainBuilder struct {
	parsers []Parser
	log     *slog.Logger
}

func NewChainBuilder() *ChainBuilder {
	return &ChainBuilder{}
}

// Add appends parsers in order. Nil parsers are ignored.
func (b *ChainBuilder) Add(parsers ...Parser) *ChainBuilder {
	for _, p := range parsers {
		if p != nil {
			b.parsers = append(b.parsers, p)
		}
	}
	return b
}

func (b *ChainBuilder) WithLogger(log *slog.Logger) *ChainBuilder {
	b.log = log
	return b
}

// Build freezes the registered parsers into a Chain.
func (b *ChainBuilder) Build() *Chain {
	log := b.log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	parsers := make([]Parser, len(b.parsers))
	copy(parsers, b.parsers)
	return &Chain{parsers: parsers, log: log}
}

// Len returns the number of registered parsers.
func (c *Chain) Len() int { return len(c.parsers) }

// Parse runs the chain against r.
//
// With a single parser the call is delegated directly and its error is
// returned untouched. With more, r is buffered once and every parser reads
// the buffer from the start.
func (c *Chain) Parse(r io.Reader) (*props.Map, error) {
	switch len(c.parsers) {
	case 0:
		return nil, fmt.Errorf("%w: no parsers available", ErrUnsupportedFormat)
	case 1:
		return c.parsers[0].Parse(r)
	}

	buf, err := Materialize(r)
	if err != nil {
		return nil, err
	}

	m, res, _ := fallback.Run(c.parsers, func(p Parser) (*props.Map, error) {
		buf.Reset()
		m, err := p.Parse(buf)
		if err != nil {
			if IsUnsupported(err) {
				c.log.Debug("parser does not support document type", "parser", nameOf(p), "error", err)
			} else {
				c.log.Debug("parser failed to parse the document", "parser", nameOf(p), "error", err)
			}
		}
		return m, err
	}, classifyParse)
	if res.Winner >= 0 {
		return m, nil
	}
	if !res.Hard {
		return nil, fmt.Errorf("%w: no parsers support the type of document", ErrUnsupportedFormat)
	}
	return nil, &AggregateError{Msg: "all parsers failed to parse the document", Causes: res.Causes}
}

func classifyParse(err error) fallback.Outcome {
	if IsUnsupported(err) {
		return fallback.Skip
	}
	return fallback.Suppress
}

func nameOf(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", v)
}
