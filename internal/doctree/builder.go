package doctree

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ErrMalformed is returned when a decoder emits events that do not describe
// a single well-formed tree.
var ErrMalformed = errors.New("malformed event sequence")

// Handler receives the structural events of a decoded document. Decoders
// call the methods strictly nested, the way a SAX parser would.
type Handler interface {
	StartDocument() error
	StartElement(name string, attrs []Attr) error
	Characters(text string) error
	IgnorableWhitespace(text string) error
	EndElement(name string) error
	EndDocument() error
}

// Builder turns a stream of events into a normalized Tree.
type Builder struct {
	log   *slog.Logger
	tree  *Tree
	open  []NodeID
	state builderState
}

type builderState uint8

const (
	stateIdle builderState = iota
	stateOpen
	stateDone
)

// NewBuilder returns a Builder. A nil logger discards trace output.
func NewBuilder(log *slog.Logger) *Builder {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Builder{log: log}
}

func (b *Builder) StartDocument() error {
	if b.state != stateIdle {
		return fmt.Errorf("%w: document already started", ErrMalformed)
	}
	b.log.Debug("startDocument")
	b.tree = New()
	b.open = b.open[:0]
	b.state = stateOpen
	return nil
}

func (b *Builder) StartElement(name string, attrs []Attr) error {
	if err := b.requireOpen("startElement"); err != nil {
		return err
	}
	b.log.Debug("startElement", "name", name, "attrs", len(attrs))
	parent := NoNode
	if len(b.open) > 0 {
		parent = b.open[len(b.open)-1]
	} else if b.tree.root != NoNode {
		return fmt.Errorf("%w: second root element %q", ErrMalformed, name)
	}
	var copied []Attr
	if len(attrs) > 0 {
		copied = append(copied, attrs...)
	}
	b.open = append(b.open, b.tree.NewElement(parent, name, copied))
	return nil
}

func (b *Builder) Characters(text string) error {
	return b.text("characters", text)
}

func (b *Builder) IgnorableWhitespace(text string) error {
	return b.text("ignorableWhitespace", text)
}

func (b *Builder) text(event, text string) error {
	if err := b.requireOpen(event); err != nil {
		return err
	}
	b.log.Debug(event, "len", len(text))
	if len(b.open) == 0 {
		// Whitespace around the root carries no content.
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return fmt.Errorf("%w: text outside the root element", ErrMalformed)
	}
	b.tree.NewText(b.open[len(b.open)-1], text)
	return nil
}

func (b *Builder) EndElement(name string) error {
	if err := b.requireOpen("endElement"); err != nil {
		return err
	}
	b.log.Debug("endElement", "name", name)
	if len(b.open) == 0 {
		return fmt.Errorf("%w: unmatched end of %q", ErrMalformed, name)
	}
	b.open = b.open[:len(b.open)-1]
	return nil
}

func (b *Builder) EndDocument() error {
	if err := b.requireOpen("endDocument"); err != nil {
		return err
	}
	b.log.Debug("endDocument")
	b.open = b.open[:0]
	b.state = stateDone
	Normalize(b.tree)
	return nil
}

// Tree returns the finished tree, or nil until EndDocument has been seen.
func (b *Builder) Tree() *Tree {
	if b.state != stateDone {
		return nil
	}
	return b.tree
}

func (b *Builder) requireOpen(event string) error {
	switch b.state {
	case stateIdle:
		return fmt.Errorf("%w: %s before startDocument", ErrMalformed, event)
	case stateDone:
		return fmt.Errorf("%w: %s after endDocument", ErrMalformed, event)
	}
	return nil
}
