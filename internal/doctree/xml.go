package doctree

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// WriteXML renders the tree as an indented XML document with declaration.
func WriteXML(w io.Writer, t *Tree, indent int) error {
	if indent < 0 {
		return fmt.Errorf("indent cannot be negative: %d", indent)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", strings.Repeat(" ", indent))
	if t.root != NoNode {
		if err := t.encode(enc, t.root); err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func (t *Tree) encode(enc *xml.Encoder, id NodeID) error {
	n := t.nodes[id]
	if n.kind == TextNode {
		return enc.EncodeToken(xml.CharData(n.text))
	}
	start := xml.StartElement{Name: xml.Name{Local: n.name}}
	for _, a := range n.attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for c := n.first; c != NoNode; c = t.nodes[c].next {
		if err := t.encode(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
