package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/docfields/internal/docparse"
	"github.com/dgallion1/docfields/internal/doctree"
)

func TestRegistry_ForFile(t *testing.T) {
	r := Default()
	cases := map[string]string{
		"letter.PDF":   "pdf",
		"letter.docx":  "docx",
		"page.htm":     "html",
		"notes.md":     "markdown",
		"notes.txt":    "text",
		"export.csv":   "csv",
		"dir/x.y.html": "html",
	}
	for name, want := range cases {
		f, err := r.ForFile(name)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if f.Name != want {
			t.Errorf("%s: expected %q, got %q", name, want, f.Name)
		}
	}

	if _, err := r.ForFile("image.png"); !errors.Is(err, docparse.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if r.IsSupportedExtension("archive.zip") {
		t.Error("zip should not be supported")
	}
}

func TestRegistry_SniffingOrder(t *testing.T) {
	var names []string
	for _, f := range Default().Sniffing() {
		names = append(names, f.Name)
	}
	equalStrings(t, "sniffing", names, []string{"pdf", "docx", "html", "markdown", "text"})
}

// Each input must be accepted by exactly the first matching sniffer.
func TestRegistry_SniffersClaimTheirOwnInput(t *testing.T) {
	inputs := map[string]string{
		"pdf":      makePDF(t, []pdfLine{{"Ward: 1"}}),
		"html":     "<html><body><p>Ward: 1</p></body></html>",
		"markdown": "# Heading\n\nWard: 1\n",
		"text":     "Ward: 1\n",
	}
	for want, input := range inputs {
		var got string
		for _, f := range Default().Sniffing() {
			err := f.Decoder.Decode(strings.NewReader(input), doctree.NewBuilder(nil))
			if err == nil {
				got = f.Name
				break
			}
			if !errors.Is(err, docparse.ErrUnsupportedFormat) {
				t.Fatalf("%s: %s decoder failed hard: %v", want, f.Name, err)
			}
		}
		if got != want {
			t.Errorf("expected %s to be claimed by %q, got %q", want, want, got)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestDecoders_ReadErrorsAreNotUnsupported(t *testing.T) {
	for _, f := range Default().Formats() {
		err := f.Decoder.Decode(failingReader{}, doctree.NewBuilder(nil))
		if err == nil || errors.Is(err, docparse.ErrUnsupportedFormat) {
			t.Errorf("%s: expected a hard read error, got %v", f.Name, err)
		}
	}
}

func TestEmitter_StopsAtFirstHandlerError(t *testing.T) {
	b := doctree.NewBuilder(nil)
	e := newEmitter(b)
	// No StartDocument: the first event fails and the rest are swallowed.
	e.element("p", "x")
	e.end("body")
	if !errors.Is(e.err, doctree.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", e.err)
	}
}
