package fields

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docfields/internal/doctree"
)

// paragraphs builds a normalized <html><body><p>...</p></body></html> tree.
func paragraphs(t *testing.T, blocks ...string) *doctree.Tree {
	t.Helper()
	events := []doctree.Event{
		{Kind: doctree.EventStartDocument},
		{Kind: doctree.EventStartElement, Name: "html"},
		{Kind: doctree.EventStartElement, Name: "body"},
	}
	for _, b := range blocks {
		events = append(events,
			doctree.Event{Kind: doctree.EventStartElement, Name: "p"},
			doctree.Event{Kind: doctree.EventCharacters, Text: b},
			doctree.Event{Kind: doctree.EventEndElement, Name: "p"},
		)
	}
	events = append(events,
		doctree.Event{Kind: doctree.EventEndElement, Name: "body"},
		doctree.Event{Kind: doctree.EventEndElement, Name: "html"},
		doctree.Event{Kind: doctree.EventEndDocument},
	)
	tree, err := doctree.Build(events)
	require.NoError(t, err)
	return tree
}
