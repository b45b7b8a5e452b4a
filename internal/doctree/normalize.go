package doctree

import "strings"

// Normalize trims every text node reachable from the root and detaches the
// ones left empty. Running it on a normalized tree changes nothing.
func Normalize(t *Tree) {
	if t == nil || t.root == NoNode {
		return
	}
	queue := []NodeID{t.root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		n := &t.nodes[id]
		if n.kind == TextNode {
			trimmed := strings.TrimSpace(n.text)
			if trimmed == "" {
				t.Detach(id)
				continue
			}
			n.text = trimmed
			continue
		}
		for c := n.first; c != NoNode; c = t.nodes[c].next {
			queue = append(queue, c)
		}
	}
}
