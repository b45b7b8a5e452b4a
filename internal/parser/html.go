package parser

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/docfields/internal/docparse"
	"github.com/dgallion1/docfields/internal/doctree"
)

// HTML streams tags and text from an HTML document straight into events.
// Unbalanced markup is repaired: void elements close themselves, stray end
// tags are dropped and anything still open at EOF is closed.
type HTML struct{}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

var skippedElements = map[string]bool{
	"script": true, "style": true, "template": true, "noscript": true,
}

func (HTML) Decode(r io.Reader, h doctree.Handler) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read html: %w", err)
	}
	if !isHTML(data) {
		return fmt.Errorf("%w: not html", docparse.ErrUnsupportedFormat)
	}

	e := newEmitter(h)
	if err := h.StartDocument(); err != nil {
		return err
	}
	e.start("html")
	var open []string
	closeTo := func(i int) {
		for len(open) > i {
			e.end(open[len(open)-1])
			open = open[:len(open)-1]
		}
	}

	z := html.NewTokenizer(bytes.NewReader(data))
	skipping := ""
	for e.err == nil {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				return fmt.Errorf("tokenize html: %w", z.Err())
			}
			break
		}
		name, hasAttr := z.TagName()
		tag := string(name)
		if skipping != "" {
			if tt == html.EndTagToken && tag == skipping {
				skipping = ""
			}
			continue
		}
		switch tt {
		case html.TextToken:
			e.chars(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			if tag == "html" {
				continue
			}
			if skippedElements[tag] {
				if tt == html.StartTagToken {
					skipping = tag
				}
				continue
			}
			var attrs []doctree.Attr
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				attrs = append(attrs, doctree.Attr{Name: string(k), Value: string(v)})
			}
			e.start(tag, attrs...)
			if tt == html.SelfClosingTagToken || voidElements[tag] {
				e.end(tag)
				continue
			}
			open = append(open, tag)
		case html.EndTagToken:
			for i := len(open) - 1; i >= 0; i-- {
				if open[i] == tag {
					closeTo(i)
					break
				}
			}
		}
	}
	closeTo(0)
	e.end("html")
	if e.err != nil {
		return e.err
	}
	return h.EndDocument()
}

func isHTML(data []byte) bool {
	return strings.HasPrefix(http.DetectContentType(data), "text/html")
}
