package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docfields/internal/docparse"
	"github.com/dgallion1/docfields/internal/doctree"
)

// Text decodes plain text: blank-line separated paragraphs become <p>
// elements. It accepts any valid UTF-8 without NUL bytes, which makes it
// the last resort of a sniffing chain.
type Text struct{}

func (Text) Decode(r io.Reader, h doctree.Handler) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read text: %w", err)
	}
	if !isText(data) {
		return fmt.Errorf("%w: not text", docparse.ErrUnsupportedFormat)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	e := newEmitter(h)
	return e.document(func() error {
		var current strings.Builder
		flush := func() {
			if current.Len() > 0 {
				e.element("p", current.String())
				current.Reset()
			}
		}
		for scanner.Scan() {
			line := strings.TrimSuffix(scanner.Text(), "\r")
			if strings.TrimSpace(line) == "" {
				flush()
				continue
			}
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("scan text: %w", err)
		}
		flush()
		return e.err
	})
}

func isText(data []byte) bool {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	return utf8.Valid(data) && bytes.IndexByte(data, 0) < 0
}
