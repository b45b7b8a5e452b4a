package parser

import (
	"strings"

	"github.com/dgallion1/docfields/internal/doctree"
)

// emitter wraps a Handler with a sticky error and a pending text buffer.
// Text written between two structural events reaches the handler as a
// single Characters call.
type emitter struct {
	h    doctree.Handler
	text strings.Builder
	err  error
}

func newEmitter(h doctree.Handler) *emitter {
	return &emitter{h: h}
}

func (e *emitter) flush() {
	if e.err != nil || e.text.Len() == 0 {
		return
	}
	e.err = e.h.Characters(e.text.String())
	e.text.Reset()
}

func (e *emitter) start(name string, attrs ...doctree.Attr) {
	e.flush()
	if e.err == nil {
		e.err = e.h.StartElement(name, attrs)
	}
}

func (e *emitter) end(name string) {
	e.flush()
	if e.err == nil {
		e.err = e.h.EndElement(name)
	}
}

func (e *emitter) chars(s string) {
	if e.err == nil {
		e.text.WriteString(s)
	}
}

// element writes <name>text</name>.
func (e *emitter) element(name, text string, attrs ...doctree.Attr) {
	e.start(name, attrs...)
	e.chars(text)
	e.end(name)
}

// document wraps body in startDocument, an <html><body> root and
// endDocument.
func (e *emitter) document(body func() error) error {
	if err := e.h.StartDocument(); err != nil {
		return err
	}
	e.start("html")
	e.start("body")
	if err := body(); err != nil {
		return err
	}
	e.end("body")
	e.end("html")
	if e.err != nil {
		return e.err
	}
	return e.h.EndDocument()
}
