package parser

import "testing"

func TestCSV_Table(t *testing.T) {
	tree := decode(t, CSV{}, "Field,Value\nWard,3 North\n\"Hospital Number\", 12345\n")

	equalStrings(t, "th", texts(tree, "th"), []string{"Field", "Value"})
	equalStrings(t, "td", texts(tree, "td"), []string{"Ward", "3 North", "Hospital Number", "12345"})
	if got := len(tree.ElementsByTag("tr")); got != 3 {
		t.Errorf("expected 3 rows, got %d", got)
	}
}
