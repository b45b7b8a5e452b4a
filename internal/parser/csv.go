package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/docfields/internal/docparse"
	"github.com/dgallion1/docfields/internal/doctree"
)

// CSV decodes comma separated files into a single <table>. The first record
// becomes a row of <th> cells.
type CSV struct{}

func (CSV) Decode(r io.Reader, h doctree.Handler) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}
	if !isText(data) {
		return fmt.Errorf("%w: not text", docparse.ErrUnsupportedFormat)
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("%w: parse csv: %w", docparse.ErrUnsupportedFormat, err)
	}

	e := newEmitter(h)
	return e.document(func() error {
		e.start("table")
		for i, record := range records {
			cell := "td"
			if i == 0 {
				cell = "th"
			}
			e.start("tr")
			for _, v := range record {
				e.element(cell, v)
			}
			e.end("tr")
		}
		e.end("table")
		return e.err
	})
}
