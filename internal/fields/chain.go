package fields

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/docfields/internal/docparse"
	"github.com/dgallion1/docfields/internal/doctree"
	"github.com/dgallion1/docfields/internal/fallback"
	"github.com/dgallion1/docfields/internal/props"
)

// ExtractorChain tries one extractor per known layout against the same tree
// and returns the first that finds anything.
type ExtractorChain struct {
	extractors []docparse.Extractor
	log        *slog.Logger
}

// NewExtractorChain freezes extractors, in order, into a chain. Nil
// extractors are ignored.
func NewExtractorChain(log *slog.Logger, extractors ...docparse.Extractor) *ExtractorChain {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &ExtractorChain{log: log}
	for _, e := range extractors {
		if e != nil {
			c.extractors = append(c.extractors, e)
		}
	}
	return c
}

func (c *ExtractorChain) Len() int { return len(c.extractors) }

// Extract runs the extractors in order. Layout misses move on to the next
// extractor; any other error is a bug in that extractor and is returned
// immediately.
func (c *ExtractorChain) Extract(t *doctree.Tree) (*props.Map, error) {
	if len(c.extractors) == 0 {
		return nil, fmt.Errorf("%w: no property extractors are available", docparse.ErrUnsupportedLayout)
	}
	m, res, err := fallback.Run(c.extractors, func(e docparse.Extractor) (*props.Map, error) {
		m, err := e.Extract(t)
		if errors.Is(err, docparse.ErrUnsupportedLayout) {
			c.log.Debug("property extractor does not support the document", "extractor", fmt.Sprint(e), "error", err)
		}
		return m, err
	}, func(err error) fallback.Outcome {
		if errors.Is(err, docparse.ErrUnsupportedLayout) {
			return fallback.Skip
		}
		return fallback.Abort
	})
	if err != nil {
		return nil, err
	}
	if res.Winner < 0 {
		return nil, fmt.Errorf("%w: no property extractors support the document", docparse.ErrUnsupportedLayout)
	}
	return m, nil
}
