package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/docfields/internal/docparse"
	"github.com/dgallion1/docfields/internal/doctree"
)

// DOCX decodes Word documents: one <p> per paragraph, <h1>..<h6> for
// heading styles and <table><tr><td> for tables.
type DOCX struct{}

func (DOCX) Decode(r io.Reader, h doctree.Handler) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read docx: %w", err)
	}
	if !isDOCX(data) {
		return fmt.Errorf("%w: not a docx", docparse.ErrUnsupportedFormat)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("parse docx: %w", err)
	}

	e := newEmitter(h)
	return e.document(func() error {
		for _, item := range doc.Document.Body.Items {
			switch it := item.(type) {
			case *docx.Paragraph:
				docxParagraph(e, it)
			case *docx.Table:
				docxTable(e, it)
			}
		}
		return e.err
	})
}

func docxParagraph(e *emitter, para *docx.Paragraph) {
	text := docxParagraphText(para)
	if text == "" {
		return
	}
	tag := "p"
	if level := docxHeadingLevel(para); level > 0 {
		tag = fmt.Sprintf("h%d", level)
	}
	e.element(tag, text)
}

func docxTable(e *emitter, tbl *docx.Table) {
	e.start("table")
	for _, row := range tbl.TableRows {
		e.start("tr")
		for _, cell := range row.TableCells {
			e.start("td")
			for _, para := range cell.Paragraphs {
				docxParagraph(e, para)
			}
			for _, nested := range cell.Tables {
				docxTable(e, nested)
			}
			e.end("td")
		}
		e.end("tr")
	}
	e.end("table")
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if len(style) == len("heading1") && strings.HasPrefix(style, "heading") {
		if n := style[len(style)-1]; n >= '1' && n <= '6' {
			return int(n - '0')
		}
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch t := rc.(type) {
			case *docx.Text:
				buf.WriteString(t.Text)
			case *docx.Tab:
				buf.WriteByte('\t')
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// isDOCX reports whether data is a zip archive holding a Word main part.
func isDOCX(data []byte) bool {
	if !bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			return true
		}
	}
	return false
}
