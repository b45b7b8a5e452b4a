package fields

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dgallion1/docfields/internal/docparse"
	"github.com/dgallion1/docfields/internal/doctree"
	"github.com/dgallion1/docfields/internal/props"
)

// BlockTag is the element whose text forms one block when windowing.
const BlockTag = "p"

// Extractor matches a field table against the text of a document tree.
type Extractor struct {
	name     string
	specs    []Spec
	from, to string
	log      *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithWindow limits the searched text to the blocks from the first one
// starting with from through the one starting with to. Both markers must be
// set for the window to apply.
func WithWindow(from, to string) Option {
	return func(e *Extractor) {
		e.from, e.to = from, to
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(e *Extractor) {
		if log != nil {
			e.log = log
		}
	}
}

// NewExtractor returns an extractor for compiled specs.
func NewExtractor(name string, specs []Spec, opts ...Option) *Extractor {
	e := &Extractor{
		name:  name,
		specs: append([]Spec(nil), specs...),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extractor) String() string { return e.name }

// Fields returns the field table in registration order.
func (e *Extractor) Fields() []Field {
	out := make([]Field, len(e.specs))
	for i, s := range e.specs {
		out[i] = s.Field
	}
	return out
}

// Extract returns every field found, in table order. Finding nothing is
// reported as docparse.ErrUnsupportedLayout.
func (e *Extractor) Extract(t *doctree.Tree) (*props.Map, error) {
	return e.ExtractText(e.SearchText(t))
}

// ExtractText matches the field table against already flattened text.
func (e *Extractor) ExtractText(text string) (*props.Map, error) {
	m := props.New()
	for _, s := range e.specs {
		if v, ok := s.Find(text); ok {
			m.Set(s.Name, v)
		}
	}
	if m.Len() == 0 {
		return nil, fmt.Errorf("%s: %w: no matching properties could be found", e.name, docparse.ErrUnsupportedLayout)
	}
	e.log.Debug("extracted properties", "layout", e.name, "count", m.Len())
	return m, nil
}

// SearchText returns the text the patterns run against: the whole document,
// or the configured window of blocks joined by newlines.
func (e *Extractor) SearchText(t *doctree.Tree) string {
	if e.from == "" || e.to == "" {
		return t.TextContent(t.Root())
	}
	blocks := t.ElementsByTag(BlockTag)
	texts := make([]string, len(blocks))
	for i, id := range blocks {
		texts[i] = t.TextContent(id)
	}
	return Window(texts, e.from, e.to)
}

// Window joins the blocks from the first whose trimmed text starts with from
// through the next one starting with to. It returns "" when from never
// matches.
func Window(blocks []string, from, to string) string {
	var sb strings.Builder
	started := false
	for _, b := range blocks {
		trimmed := strings.TrimSpace(b)
		switch {
		case strings.HasPrefix(trimmed, from):
			started = true
			appendBlock(&sb, b)
		case started:
			appendBlock(&sb, b)
			if strings.HasPrefix(trimmed, to) {
				return sb.String()
			}
		}
	}
	return sb.String()
}

func appendBlock(sb *strings.Builder, b string) {
	if sb.Len() > 0 {
		sb.WriteByte('\n')
	}
	sb.WriteString(b)
}
