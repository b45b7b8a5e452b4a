package fields

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/docfields/internal/docparse"
)

var (
	ErrNoLayouts       = errors.New("no layouts defined")
	ErrDuplicateLayout = errors.New("duplicate layout name")
)

type layoutsFile struct {
	Layouts []Layout `yaml:"layouts"`
}

// LoadLayouts reads layout definitions from YAML:
//
//	layouts:
//	  - name: discharge-notification
//	    chain: true
//	    window: {from: Ward, to: GP}
//	    fields: [Ward, Hospital Number, NHS Number, GP]
//	  - name: ed-discharge
//	    fields:
//	      - {name: Re, end: ED No}
func LoadLayouts(r io.Reader) ([]Layout, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f layoutsFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoLayouts
		}
		return nil, fmt.Errorf("decode layouts: %w", err)
	}
	if len(f.Layouts) == 0 {
		return nil, ErrNoLayouts
	}
	return f.Layouts, nil
}

// LoadLayoutsFile reads layouts from a YAML file.
func LoadLayoutsFile(path string) ([]Layout, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open layouts: %w", err)
	}
	defer fh.Close()
	layouts, err := LoadLayouts(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return layouts, nil
}

// BuildChain compiles layouts into an extractor chain, in order.
func BuildChain(layouts []Layout, log *slog.Logger) (*ExtractorChain, error) {
	extractors := make([]docparse.Extractor, 0, len(layouts))
	seen := make(map[string]bool, len(layouts))
	for _, l := range layouts {
		if seen[l.Name] {
			return nil, fmt.Errorf("layout %q: %w", l.Name, ErrDuplicateLayout)
		}
		seen[l.Name] = true
		e, err := l.Extractor(log)
		if err != nil {
			return nil, err
		}
		extractors = append(extractors, e)
	}
	return NewExtractorChain(log, extractors...), nil
}
