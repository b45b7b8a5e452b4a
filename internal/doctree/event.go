package doctree

import "fmt"

// EventKind identifies a structural event.
type EventKind uint8

const (
	EventStartDocument EventKind = iota + 1
	EventStartElement
	EventCharacters
	EventWhitespace
	EventEndElement
	EventEndDocument
)

// Event is a recorded structural event.
type Event struct {
	Kind  EventKind
	Name  string
	Attrs []Attr
	Text  string
}

// Replay feeds recorded events into h in order.
func Replay(events []Event, h Handler) error {
	for i, ev := range events {
		var err error
		switch ev.Kind {
		case EventStartDocument:
			err = h.StartDocument()
		case EventStartElement:
			err = h.StartElement(ev.Name, ev.Attrs)
		case EventCharacters:
			err = h.Characters(ev.Text)
		case EventWhitespace:
			err = h.IgnorableWhitespace(ev.Text)
		case EventEndElement:
			err = h.EndElement(ev.Name)
		case EventEndDocument:
			err = h.EndDocument()
		default:
			err = fmt.Errorf("%w: unknown event kind %d", ErrMalformed, ev.Kind)
		}
		if err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}

// Build replays events into a fresh Builder and returns the normalized tree.
func Build(events []Event) (*Tree, error) {
	b := NewBuilder(nil)
	if err := Replay(events, b); err != nil {
		return nil, err
	}
	t := b.Tree()
	if t == nil {
		return nil, fmt.Errorf("%w: missing endDocument", ErrMalformed)
	}
	return t, nil
}
