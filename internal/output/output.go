// Package output renders extracted properties for people and for other
// programs.
package output

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docfields/internal/props"
)

// Format names a rendering of a single property map.
type Format string

const (
	JSON Format = "json"
	Text Format = "text"
	XML  Format = "xml"
)

// ParseFormat accepts json, text/txt and xml, in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "text", "txt":
		return Text, nil
	case "xml":
		return XML, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Extension returns the file extension, dot included.
func (f Format) Extension() string {
	if f == Text {
		return ".txt"
	}
	return "." + string(f)
}

// Write renders m in format f.
func Write(w io.Writer, f Format, m *props.Map) error {
	switch f {
	case JSON:
		return WriteJSON(w, m)
	case Text:
		return WriteText(w, m)
	case XML:
		return WriteXML(w, m)
	}
	return fmt.Errorf("unknown output format %q", f)
}

// WriteJSON writes m as an indented JSON object in field order.
func WriteJSON(w io.Writer, m *props.Map) error {
	if m == nil {
		m = props.New()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// WriteText writes one "Name: value" line per property. Line breaks inside
// values are folded into spaces.
func WriteText(w io.Writer, m *props.Map) error {
	var err error
	m.Range(func(k string, v any) bool {
		value := strings.Join(strings.Fields(fmt.Sprint(v)), " ")
		_, err = fmt.Fprintf(w, "%s: %s\n", k, value)
		return err == nil
	})
	return err
}

type xmlProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type xmlProperties struct {
	XMLName    xml.Name      `xml:"properties"`
	Properties []xmlProperty `xml:"property"`
}

// WriteXML writes <properties><property name="...">value</property>...
// Labels are not valid element names in general, so they go in attributes.
func WriteXML(w io.Writer, m *props.Map) error {
	doc := xmlProperties{}
	m.Range(func(k string, v any) bool {
		doc.Properties = append(doc.Properties, xmlProperty{Name: k, Value: fmt.Sprint(v)})
		return true
	})
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
