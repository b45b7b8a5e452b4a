package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/docfields/internal/docparse"
	"github.com/dgallion1/docfields/internal/doctree"
)

func decode(t *testing.T, dec docparse.Decoder, input string) *doctree.Tree {
	t.Helper()
	b := doctree.NewBuilder(nil)
	if err := dec.Decode(strings.NewReader(input), b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	tree := b.Tree()
	if tree == nil {
		t.Fatal("decoder never ended the document")
	}
	return tree
}

// texts returns the text content of every element with the given tag.
func texts(tree *doctree.Tree, tag string) []string {
	var out []string
	for _, id := range tree.ElementsByTag(tag) {
		out = append(out, tree.TextContent(id))
	}
	return out
}

func equalStrings(t *testing.T, what string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: expected %d items %q, got %d %q", what, len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d]: expected %q, got %q", what, i, want[i], got[i])
		}
	}
}
