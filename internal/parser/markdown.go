package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/docfields/internal/docparse"
	"github.com/dgallion1/docfields/internal/doctree"
)

// Markdown decodes Markdown through the goldmark AST. Inline markup is
// flattened into the text of its block.
type Markdown struct{}

func (Markdown) Decode(r io.Reader, h doctree.Handler) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read markdown: %w", err)
	}
	if !isText(src) {
		return fmt.Errorf("%w: not text", docparse.ErrUnsupportedFormat)
	}
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	if !hasMarkdownStructure(doc) {
		return fmt.Errorf("%w: no markdown structure", docparse.ErrUnsupportedFormat)
	}

	e := newEmitter(h)
	return e.document(func() error {
		err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			return markdownNode(e, n, src, entering), nil
		})
		if err != nil {
			return err
		}
		return e.err
	})
}

func markdownNode(e *emitter, n ast.Node, src []byte, entering bool) ast.WalkStatus {
	if e.err != nil {
		return ast.WalkStop
	}
	var tag string
	switch node := n.(type) {
	case *ast.Heading:
		tag = fmt.Sprintf("h%d", node.Level)
	case *ast.Paragraph:
		tag = "p"
	case *ast.Blockquote:
		tag = "blockquote"
	case *ast.List:
		tag = "ul"
		if node.IsOrdered() {
			tag = "ol"
		}
	case *ast.ListItem:
		tag = "li"
	case *ast.ThematicBreak:
		tag = "hr"
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			e.element("pre", string(blockLines(n, src)))
		}
		return ast.WalkSkipChildren
	case *ast.HTMLBlock, *ast.RawHTML:
		return ast.WalkSkipChildren
	case *ast.Text:
		if entering {
			e.chars(string(node.Segment.Value(src)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				e.chars("\n")
			}
		}
		return ast.WalkContinue
	case *ast.String:
		if entering {
			e.chars(string(node.Value))
		}
		return ast.WalkContinue
	case *ast.AutoLink:
		if entering {
			e.chars(string(node.Label(src)))
		}
		return ast.WalkSkipChildren
	}
	if tag != "" {
		if entering {
			e.start(tag)
		} else {
			e.end(tag)
		}
	}
	return ast.WalkContinue
}

func blockLines(n ast.Node, src []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.Bytes()
}

// hasMarkdownStructure reports whether the document uses any block markup
// beyond plain paragraphs.
func hasMarkdownStructure(doc ast.Node) bool {
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch n.(type) {
		case *ast.Heading, *ast.List, *ast.FencedCodeBlock, *ast.Blockquote:
			return true
		}
	}
	return false
}
