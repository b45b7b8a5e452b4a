// Package doctree is the normalized document tree handed to field extraction.
//
// Nodes live in a single arena slice and link to each other by index, so a
// tree has no pointer cycles and can be read concurrently once built.
package doctree

import "strings"

// NodeID addresses a node in a Tree. NoNode marks a missing link.
type NodeID int32

const NoNode NodeID = -1

// Kind distinguishes element nodes from text nodes.
type Kind uint8

const (
	ElementNode Kind = iota + 1
	TextNode
)

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

type node struct {
	kind   Kind
	name   string // element tag
	attrs  []Attr
	text   string // text content for TextNode
	parent NodeID
	first  NodeID
	last   NodeID
	prev   NodeID
	next   NodeID
}

// Tree is a rooted element/text tree. Detached nodes stay in the arena but
// are unreachable from Root.
type Tree struct {
	nodes []node
	root  NodeID
}

// New returns an empty tree without a root.
func New() *Tree {
	return &Tree{root: NoNode}
}

// Root returns the root element, or NoNode for an empty tree.
func (t *Tree) Root() NodeID { return t.root }

func (t *Tree) Kind(id NodeID) Kind    { return t.nodes[id].kind }
func (t *Tree) Name(id NodeID) string  { return t.nodes[id].name }
func (t *Tree) Attrs(id NodeID) []Attr { return t.nodes[id].attrs }
func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

// Text returns the content of a text node. Elements return "".
func (t *Tree) Text(id NodeID) string { return t.nodes[id].text }

// Attr returns the value of the named attribute.
func (t *Tree) Attr(id NodeID, name string) (string, bool) {
	for _, a := range t.nodes[id].attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// FirstChild and NextSibling walk the child list without allocating.
func (t *Tree) FirstChild(id NodeID) NodeID  { return t.nodes[id].first }
func (t *Tree) NextSibling(id NodeID) NodeID { return t.nodes[id].next }

// Children returns the child IDs of id in order.
func (t *Tree) Children(id NodeID) []NodeID {
	var out []NodeID
	for c := t.nodes[id].first; c != NoNode; c = t.nodes[c].next {
		out = append(out, c)
	}
	return out
}

// NewElement adds an element under parent. With parent NoNode the element
// becomes the root; a tree can only have one.
func (t *Tree) NewElement(parent NodeID, name string, attrs []Attr) NodeID {
	id := t.alloc(node{kind: ElementNode, name: name, attrs: attrs})
	if parent == NoNode {
		t.root = id
	} else {
		t.appendChild(parent, id)
	}
	return id
}

// NewText adds a text node under parent.
func (t *Tree) NewText(parent NodeID, text string) NodeID {
	id := t.alloc(node{kind: TextNode, text: text})
	t.appendChild(parent, id)
	return id
}

// SetText replaces the content of a text node.
func (t *Tree) SetText(id NodeID, text string) {
	t.nodes[id].text = text
}

// Detach unlinks id from its parent. The node keeps its own subtree.
func (t *Tree) Detach(id NodeID) {
	n := &t.nodes[id]
	if n.parent == NoNode {
		return
	}
	p := &t.nodes[n.parent]
	if n.prev != NoNode {
		t.nodes[n.prev].next = n.next
	} else {
		p.first = n.next
	}
	if n.next != NoNode {
		t.nodes[n.next].prev = n.prev
	} else {
		p.last = n.prev
	}
	n.parent, n.prev, n.next = NoNode, NoNode, NoNode
}

// TextContent concatenates every text node under id in document order.
func (t *Tree) TextContent(id NodeID) string {
	if id == NoNode {
		return ""
	}
	if t.nodes[id].kind == TextNode {
		return t.nodes[id].text
	}
	var sb strings.Builder
	t.writeText(&sb, id)
	return sb.String()
}

func (t *Tree) writeText(sb *strings.Builder, id NodeID) {
	for c := t.nodes[id].first; c != NoNode; c = t.nodes[c].next {
		if t.nodes[c].kind == TextNode {
			sb.WriteString(t.nodes[c].text)
		} else {
			t.writeText(sb, c)
		}
	}
}

// ElementsByTag returns every element named tag under the root, in document
// order, the root included.
func (t *Tree) ElementsByTag(tag string) []NodeID {
	var out []NodeID
	if t.root == NoNode {
		return out
	}
	var walk func(NodeID)
	walk = func(id NodeID) {
		if t.nodes[id].kind != ElementNode {
			return
		}
		if t.nodes[id].name == tag {
			out = append(out, id)
		}
		for c := t.nodes[id].first; c != NoNode; c = t.nodes[c].next {
			walk(c)
		}
	}
	walk(t.root)
	return out
}

func (t *Tree) alloc(n node) NodeID {
	n.parent, n.first, n.last, n.prev, n.next = NoNode, NoNode, NoNode, NoNode, NoNode
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) appendChild(parent, child NodeID) {
	p := &t.nodes[parent]
	c := &t.nodes[child]
	c.parent = parent
	c.prev = p.last
	if p.last != NoNode {
		t.nodes[p.last].next = child
	} else {
		p.first = child
	}
	p.last = child
}
