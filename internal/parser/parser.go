// Package parser decodes document formats into structural events for
// doctree. Every decoder sniffs its input and reports a foreign format as
// docparse.ErrUnsupportedFormat, so decoders can be chained.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docfields/internal/docparse"
)

// Format is a named decoder and the file extensions it serves.
type Format struct {
	Name       string
	Extensions []string
	Decoder    docparse.Decoder
	// Sniffed formats recognise their own input reliably enough to take
	// part in a chain that has no file name to go on.
	Sniffed bool
}

// Options tunes the decoders of a Registry.
type Options struct {
	PDFSortByPosition bool
}

// Registry holds the known formats in sniffing order.
type Registry struct {
	formats []Format
}

func NewRegistry(opts Options) *Registry {
	return &Registry{formats: []Format{
		{Name: "pdf", Extensions: []string{".pdf"}, Decoder: PDF{SortByPosition: opts.PDFSortByPosition}, Sniffed: true},
		{Name: "docx", Extensions: []string{".docx"}, Decoder: DOCX{}, Sniffed: true},
		{Name: "html", Extensions: []string{".html", ".htm", ".xhtml"}, Decoder: HTML{}, Sniffed: true},
		{Name: "markdown", Extensions: []string{".md", ".markdown"}, Decoder: Markdown{}, Sniffed: true},
		{Name: "text", Extensions: []string{".txt", ".text"}, Decoder: Text{}, Sniffed: true},
		{Name: "csv", Extensions: []string{".csv"}, Decoder: CSV{}},
	}}
}

// Default returns a registry with position sorting enabled for PDFs.
func Default() *Registry {
	return NewRegistry(Options{PDFSortByPosition: true})
}

// Formats returns every format.
func (r *Registry) Formats() []Format {
	return append([]Format(nil), r.formats...)
}

// Sniffing returns the formats that may be tried blind, in order.
func (r *Registry) Sniffing() []Format {
	var out []Format
	for _, f := range r.formats {
		if f.Sniffed {
			out = append(out, f)
		}
	}
	return out
}

// ForFile returns the format for a file name's extension.
func (r *Registry) ForFile(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range r.formats {
		for _, e := range f.Extensions {
			if e == ext {
				return f, nil
			}
		}
	}
	return Format{}, fmt.Errorf("%w: file extension %q", docparse.ErrUnsupportedFormat, ext)
}

// IsSupportedExtension checks if a file extension is supported.
func (r *Registry) IsSupportedExtension(filename string) bool {
	_, err := r.ForFile(filename)
	return err == nil
}
