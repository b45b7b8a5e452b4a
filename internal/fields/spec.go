// Package fields extracts named values from document text. Each field runs
// from its own label, past a colon, up to the label of the field after it.
package fields

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyName      = errors.New("field name is empty")
	ErrDuplicateField = errors.New("duplicate field name")
)

// Field is one entry of a field table. Start defaults to Name. An empty
// End means the value runs to the end of the searched text.
type Field struct {
	Name  string `yaml:"name" json:"name"`
	Start string `yaml:"start,omitempty" json:"start,omitempty"`
	End   string `yaml:"end,omitempty" json:"end,omitempty"`
}

// UnmarshalYAML accepts either a bare label or a {name, start, end} mapping.
func (f *Field) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		f.Name = value.Value
		return nil
	}
	type plain Field
	return value.Decode((*plain)(f))
}

// StartLabel returns the literal that opens the field.
func (f Field) StartLabel() string {
	if f.Start != "" {
		return f.Start
	}
	return f.Name
}

// Chain builds a field table from labels, each ending where the next begins.
func Chain(names ...string) []Field {
	fields := make([]Field, len(names))
	for i, n := range names {
		fields[i] = Field{Name: n, Start: n}
	}
	return ChainFields(fields)
}

// ChainFields returns a copy of fields where every End is the Start label of
// the following field and the last field has no End.
func ChainFields(fields []Field) []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	next := ""
	for i := len(out) - 1; i >= 0; i-- {
		out[i].Start = out[i].StartLabel()
		out[i].End = next
		next = out[i].Start
	}
	return out
}

// Spec is a Field with its compiled pattern. Specs are immutable and safe
// for concurrent use.
type Spec struct {
	Field
	re *regexp.Regexp
}

// Pattern builds the expression for a field: the start label, a colon with
// any surrounding whitespace, then the shortest value up to the end label.
func Pattern(f Field) string {
	p := regexp.QuoteMeta(f.StartLabel()) + `\s*:\s*`
	if f.End == "" {
		return p + `(?s:(.*))`
	}
	return p + `(?s:(.*?))\s*` + regexp.QuoteMeta(f.End)
}

// Compile validates a field table and compiles every pattern.
func Compile(fields []Field) ([]Spec, error) {
	specs := make([]Spec, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if strings.TrimSpace(f.Name) == "" {
			return nil, fmt.Errorf("field %d: %w", i, ErrEmptyName)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("field %q: %w", f.Name, ErrDuplicateField)
		}
		seen[f.Name] = true
		f.Start = f.StartLabel()
		re, err := regexp.Compile(Pattern(f))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		specs = append(specs, Spec{Field: f, re: re})
	}
	return specs, nil
}

// MustCompile is Compile for tables known at build time.
func MustCompile(fields []Field) []Spec {
	specs, err := Compile(fields)
	if err != nil {
		panic(err)
	}
	return specs
}

// Find returns the trimmed value of the first match in text.
func (s Spec) Find(text string) (string, bool) {
	m := s.re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}

// Pattern returns the compiled expression source.
func (s Spec) Pattern() string {
	return s.re.String()
}
