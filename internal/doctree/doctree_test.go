package doctree

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func start(name string, attrs ...Attr) Event {
	return Event{Kind: EventStartElement, Name: name, Attrs: attrs}
}
func end(name string) Event  { return Event{Kind: EventEndElement, Name: name} }
func chars(s string) Event   { return Event{Kind: EventCharacters, Text: s} }
func space(s string) Event   { return Event{Kind: EventWhitespace, Text: s} }
func doc(evs ...Event) []Event {
	out := []Event{{Kind: EventStartDocument}}
	out = append(out, evs...)
	return append(out, Event{Kind: EventEndDocument})
}

func TestBuild_NestsElementsAndText(t *testing.T) {
	tree, err := Build(doc(
		start("html"),
		start("body", Attr{Name: "class", Value: "main"}),
		start("p"), chars("Ward: "), chars("3 North"), end("p"),
		start("p"), chars("GP: Dr Smith"), end("p"),
		end("body"),
		end("html"),
	))
	require.NoError(t, err)

	root := tree.Root()
	require.NotEqual(t, NoNode, root)
	assert.Equal(t, "html", tree.Name(root))

	body := tree.Children(root)
	require.Len(t, body, 1)
	v, ok := tree.Attr(body[0], "class")
	assert.True(t, ok)
	assert.Equal(t, "main", v)

	paras := tree.ElementsByTag("p")
	require.Len(t, paras, 2)
	// Consecutive character events stay separate text nodes.
	assert.Len(t, tree.Children(paras[0]), 2)
	assert.Equal(t, "Ward:3 North", tree.TextContent(paras[0]))
	assert.Equal(t, "Ward:3 NorthGP: Dr Smith", tree.TextContent(root))
}

func TestBuild_PrunesWhitespaceText(t *testing.T) {
	tree, err := Build(doc(
		start("html"),
		space("\n  "),
		start("p"), chars("  Hello  "), end("p"),
		chars("   "),
		start("p"), space("\t"), end("p"),
		end("html"),
	))
	require.NoError(t, err)

	var texts []string
	var walk func(NodeID)
	walk = func(id NodeID) {
		for c := tree.FirstChild(id); c != NoNode; c = tree.NextSibling(c) {
			if tree.Kind(c) == TextNode {
				texts = append(texts, tree.Text(c))
			}
			walk(c)
		}
	}
	walk(tree.Root())

	assert.Equal(t, []string{"Hello"}, texts)
	assert.Len(t, tree.Children(tree.Root()), 2)
	paras := tree.ElementsByTag("p")
	assert.Empty(t, tree.Children(paras[1]))
}

func TestNormalize_Idempotent(t *testing.T) {
	tree, err := Build(doc(
		start("div"),
		start("p"), chars(" a "), chars(" "), end("p"),
		start("p"), chars("b"), end("p"),
		end("div"),
	))
	require.NoError(t, err)

	var before bytes.Buffer
	require.NoError(t, WriteXML(&before, tree, 2))

	Normalize(tree)
	Normalize(tree)

	var after bytes.Buffer
	require.NoError(t, WriteXML(&after, tree, 2))
	assert.Equal(t, before.String(), after.String())
}

func TestDetach_FirstMiddleLast(t *testing.T) {
	tree := New()
	root := tree.NewElement(NoNode, "root", nil)
	a := tree.NewText(root, "a")
	b := tree.NewText(root, "b")
	c := tree.NewText(root, "c")
	d := tree.NewText(root, "d")

	tree.Detach(b)
	assert.Equal(t, "acd", tree.TextContent(root))
	tree.Detach(a)
	assert.Equal(t, "cd", tree.TextContent(root))
	tree.Detach(d)
	assert.Equal(t, "c", tree.TextContent(root))
	assert.Equal(t, []NodeID{c}, tree.Children(root))
	assert.Equal(t, NoNode, tree.Parent(b))
}

func TestBuild_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
	}{
		{"unmatched end", doc(end("p"))},
		{"second root", doc(start("a"), end("a"), start("b"), end("b"))},
		{"text outside root", doc(chars("loose"))},
		{"no start document", []Event{start("a")}},
		{"missing end document", []Event{{Kind: EventStartDocument}, start("a"), end("a")}},
		{"after end document", append(doc(start("a"), end("a")), start("b"))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.events)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestBuild_WhitespaceAroundRootIgnored(t *testing.T) {
	tree, err := Build(doc(space("\n"), start("a"), chars("x"), end("a"), chars(" \n")))
	require.NoError(t, err)
	assert.Equal(t, "x", tree.TextContent(tree.Root()))
}

func TestWriteXML_Indented(t *testing.T) {
	tree, err := Build(doc(
		start("html"),
		start("body"),
		start("p", Attr{Name: "id", Value: "1"}), chars("Ward: A & B"), end("p"),
		end("body"),
		end("html"),
	))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, tree, 2))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, "\n  <body>")
	assert.Contains(t, out, `<p id="1">Ward: A &amp; B</p>`)

	assert.Error(t, WriteXML(&buf, tree, -1))
}

func TestElementsByTag_EmptyTree(t *testing.T) {
	tree := New()
	assert.Empty(t, tree.ElementsByTag("p"))
	assert.Equal(t, "", tree.TextContent(tree.Root()))
	Normalize(tree)
}
