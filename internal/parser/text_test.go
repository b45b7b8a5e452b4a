package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/docfields/internal/docparse"
	"github.com/dgallion1/docfields/internal/doctree"
)

func TestText_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	tree := decode(t, Text{}, input)

	equalStrings(t, "paragraphs", texts(tree, "p"), []string{
		"First paragraph line one.\nFirst paragraph line two.",
		"Second paragraph.",
		"Third paragraph.",
	})
	if name := tree.Name(tree.Root()); name != "html" {
		t.Errorf("expected root %q, got %q", "html", name)
	}
}

func TestText_EmptyInput(t *testing.T) {
	tree := decode(t, Text{}, "")
	if got := len(tree.ElementsByTag("p")); got != 0 {
		t.Errorf("expected 0 paragraphs for empty input, got %d", got)
	}
}

func TestText_MultipleBlankLines(t *testing.T) {
	// Multiple consecutive blank lines should not produce empty paragraphs.
	tree := decode(t, Text{}, "Para one.\n\n\n\nPara two.")
	equalStrings(t, "paragraphs", texts(tree, "p"), []string{"Para one.", "Para two."})
}

func TestText_WhitespaceOnlyLinesAndCRLF(t *testing.T) {
	tree := decode(t, Text{}, "Para one.\r\n   \r\nPara two.\r\n")
	equalStrings(t, "paragraphs", texts(tree, "p"), []string{"Para one.", "Para two."})
}

func TestText_RejectsBinary(t *testing.T) {
	for name, input := range map[string]string{
		"nul byte":     "abc\x00def",
		"invalid utf8": "abc\xff\xfe",
	} {
		t.Run(name, func(t *testing.T) {
			err := Text{}.Decode(strings.NewReader(input), doctree.NewBuilder(nil))
			if !errors.Is(err, docparse.ErrUnsupportedFormat) {
				t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
			}
		})
	}
}
