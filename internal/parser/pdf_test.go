package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/docfields/internal/docparse"
	"github.com/dgallion1/docfields/internal/doctree"
)

// pdfLine is one line of a generated page; cells share the line.
type pdfLine []string

func makePDF(t *testing.T, pages ...[]pdfLine) string {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	for _, page := range pages {
		doc.AddPage()
		doc.SetFont("Helvetica", "", 12)
		for _, line := range page {
			for _, cell := range line {
				doc.Cell(70, 10, cell)
			}
			doc.Ln(10)
		}
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("generate pdf: %v", err)
	}
	return buf.String()
}

func TestPDF_PagesAndLines(t *testing.T) {
	input := makePDF(t,
		[]pdfLine{{"Ward: 3 North"}, {"Hospital Number: 12345"}},
		[]pdfLine{{"GP: Dr Smith"}},
	)

	for _, sorted := range []bool{false, true} {
		tree := decode(t, PDF{SortByPosition: sorted}, input)

		pages := tree.ElementsByTag("div")
		if len(pages) != 2 {
			t.Fatalf("sorted=%v: expected 2 pages, got %d", sorted, len(pages))
		}
		if class, _ := tree.Attr(pages[0], "class"); class != "page" {
			t.Errorf("sorted=%v: expected class %q, got %q", sorted, "page", class)
		}
		equalStrings(t, "p", texts(tree, "p"), []string{"Ward: 3 North", "Hospital Number: 12345", "GP: Dr Smith"})
	}
}

func TestPDF_SortByPositionJoinsCellsOnALine(t *testing.T) {
	input := makePDF(t, []pdfLine{{"Ward: 3 North", "Hospital Number: 12345"}, {"GP: Dr Smith"}})

	tree := decode(t, PDF{SortByPosition: true}, input)
	equalStrings(t, "p", texts(tree, "p"), []string{"Ward: 3 North Hospital Number: 12345", "GP: Dr Smith"})
}

func TestPDF_RejectsOtherFormats(t *testing.T) {
	err := PDF{}.Decode(strings.NewReader("Ward: 3 North"), doctree.NewBuilder(nil))
	if !errors.Is(err, docparse.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestPDF_CorruptFileIsNotUnsupported(t *testing.T) {
	err := PDF{}.Decode(strings.NewReader("%PDF-1.4\ngarbage"), doctree.NewBuilder(nil))
	if err == nil {
		t.Fatal("expected an error for a corrupt pdf")
	}
	if errors.Is(err, docparse.ErrUnsupportedFormat) {
		t.Fatalf("corrupt pdf should not read as a foreign format: %v", err)
	}
}

func TestPositionLines(t *testing.T) {
	// Same baseline, stream order kept for equal X, widths unknown.
	glyphs := []pdflib.Text{
		{X: 10, Y: 700, S: "A"}, {X: 10, Y: 700, S: "b"},
		{X: 80, Y: 700, S: "C"},
		{X: 10, Y: 720, S: "T"},
	}
	equalStrings(t, "lines", positionLines(glyphs), []string{"T", "Ab C"})
}
