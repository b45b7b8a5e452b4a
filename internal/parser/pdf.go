package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/dgallion1/docfields/internal/docparse"
	"github.com/dgallion1/docfields/internal/doctree"
)

// PDF decodes PDF files into one <div class="page"> per page holding one
// <p> per line of text.
type PDF struct {
	// SortByPosition rebuilds lines from glyph positions, top to bottom and
	// left to right, instead of trusting content stream order.
	SortByPosition bool
}

func (d PDF) Decode(r io.Reader, h doctree.Handler) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read pdf: %w", err)
	}
	if !isPDF(data) {
		return fmt.Errorf("%w: not a pdf", docparse.ErrUnsupportedFormat)
	}
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open pdf: %w", err)
	}

	e := newEmitter(h)
	return e.document(func() error {
		for i := 1; i <= reader.NumPage(); i++ {
			page := reader.Page(i)
			if page.V.IsNull() {
				continue
			}
			lines, err := d.pageLines(page)
			if err != nil {
				return fmt.Errorf("page %d: %w", i, err)
			}
			e.start("div", doctree.Attr{Name: "class", Value: "page"})
			for _, line := range lines {
				line = norm.NFKC.String(line)
				if strings.TrimSpace(line) == "" {
					continue
				}
				e.element("p", line)
			}
			e.end("div")
		}
		return e.err
	})
}

func (d PDF) pageLines(page pdflib.Page) ([]string, error) {
	if !d.SortByPosition {
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, err
		}
		return strings.Split(text, "\n"), nil
	}
	glyphs, err := pageGlyphs(page)
	if err != nil {
		return nil, err
	}
	return positionLines(glyphs), nil
}

func pageGlyphs(page pdflib.Page) (glyphs []pdflib.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			glyphs = nil
			err = errors.New(fmt.Sprint(r))
		}
	}()
	return page.Content().Text, nil
}

// positionLines groups glyphs sharing a baseline into lines ordered top to
// bottom. Glyphs at the same X keep their stream order, so fonts without
// width tables still read correctly.
func positionLines(glyphs []pdflib.Text) []string {
	rows := map[int][]pdflib.Text{}
	var ys []int
	for _, g := range glyphs {
		y := int(math.Round(g.Y))
		if _, ok := rows[y]; !ok {
			ys = append(ys, y)
		}
		rows[y] = append(rows[y], g)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ys)))

	lines := make([]string, 0, len(ys))
	for _, y := range ys {
		row := rows[y]
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		var sb strings.Builder
		for i, g := range row {
			if i > 0 && separated(row[i-1], g) {
				sb.WriteByte(' ')
			}
			sb.WriteString(g.S)
		}
		lines = append(lines, sb.String())
	}
	return lines
}

// separated reports whether a gap between two glyphs reads as a space.
func separated(prev, cur pdflib.Text) bool {
	if strings.HasSuffix(prev.S, " ") || strings.HasPrefix(cur.S, " ") {
		return false
	}
	tolerance := 0.0
	if prev.W > 0 {
		tolerance = prev.FontSize / 4
	}
	return cur.X-(prev.X+prev.W) > tolerance+0.01
}

func isPDF(data []byte) bool {
	head := data[:min(len(data), 1024)]
	return bytes.Contains(head, []byte("%PDF-"))
}
