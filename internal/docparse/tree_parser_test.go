package docparse

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docfields/internal/doctree"
	"github.com/dgallion1/docfields/internal/props"
)

// lineDecoder emits one <p> per input line, or rejects input without a prefix.
type lineDecoder struct{ prefix string }

func (d lineDecoder) Decode(r io.Reader, h doctree.Handler) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(string(b), d.prefix) {
		return fmt.Errorf("line: %w", ErrUnsupportedFormat)
	}
	if err := h.StartDocument(); err != nil {
		return err
	}
	if err := h.StartElement("body", nil); err != nil {
		return err
	}
	for _, line := range strings.Split(string(b), "\n") {
		if err := h.StartElement("p", nil); err != nil {
			return err
		}
		if err := h.Characters(line); err != nil {
			return err
		}
		if err := h.EndElement("p"); err != nil {
			return err
		}
	}
	if err := h.EndElement("body"); err != nil {
		return err
	}
	return h.EndDocument()
}

type extractorFunc func(*doctree.Tree) (*props.Map, error)

func (f extractorFunc) Extract(t *doctree.Tree) (*props.Map, error) { return f(t) }

func TestTreeParser_DecodesNormalizesAndExtracts(t *testing.T) {
	ext := extractorFunc(func(tree *doctree.Tree) (*props.Map, error) {
		m := props.New()
		m.Set("paragraphs", fmt.Sprint(len(tree.ElementsByTag("p"))))
		m.Set("text", tree.TextContent(tree.Root()))
		return m, nil
	})
	p := NewTreeParser("lines", lineDecoder{}, ext, nil)

	m, err := p.Parse(strings.NewReader("  one  \n   \ntwo"))
	require.NoError(t, err)
	assert.Equal(t, "3", m.String("paragraphs"))
	assert.Equal(t, "onetwo", m.String("text"))
	assert.Equal(t, "lines", p.String())
}

func TestTreeParser_LayoutMissIsUnsupportedFormat(t *testing.T) {
	ext := extractorFunc(func(*doctree.Tree) (*props.Map, error) {
		return nil, ErrUnsupportedLayout
	})
	_, err := NewTreeParser("lines", lineDecoder{}, ext, nil).Parse(strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.ErrorIs(t, err, ErrUnsupportedLayout)
}

func TestTreeParser_ExtractorDefectIsNotUnsupported(t *testing.T) {
	defect := errors.New("nil map")
	ext := extractorFunc(func(*doctree.Tree) (*props.Map, error) { return nil, defect })
	_, err := NewTreeParser("lines", lineDecoder{}, ext, nil).Parse(strings.NewReader("x"))
	assert.ErrorIs(t, err, defect)
	assert.False(t, IsUnsupported(err))
}

func TestTreeParser_InChain(t *testing.T) {
	ext := extractorFunc(func(tree *doctree.Tree) (*props.Map, error) {
		m := props.New()
		m.Set("first", tree.TextContent(tree.ElementsByTag("p")[0]))
		return m, nil
	})
	c := NewChainBuilder().
		Add(NewTreeParser("pdf", lineDecoder{prefix: "%PDF"}, ext, nil)).
		Add(NewTreeParser("text", lineDecoder{}, ext, nil)).
		Build()

	m, err := c.Parse(strings.NewReader("plain\nbody"))
	require.NoError(t, err)
	assert.Equal(t, "plain", m.String("first"))
}

func TestTreeParser_UnfinishedDocument(t *testing.T) {
	dec := decoderFunc(func(_ io.Reader, h doctree.Handler) error {
		if err := h.StartDocument(); err != nil {
			return err
		}
		return h.StartElement("body", nil)
	})
	_, err := NewTreeParser("broken", dec, nil, nil).Tree(strings.NewReader(""))
	assert.ErrorIs(t, err, doctree.ErrMalformed)
}

type decoderFunc func(io.Reader, doctree.Handler) error

func (f decoderFunc) Decode(r io.Reader, h doctree.Handler) error { return f(r, h) }
