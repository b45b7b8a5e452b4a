// Package batch runs the parser over folders of documents, once or as files
// arrive.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/docfields/internal/output"
	"github.com/dgallion1/docfields/internal/props"
)

// Parser parses one named document.
type Parser interface {
	ParseFile(filename string, r io.Reader) (*props.Map, error)
}

// Result is the outcome of one input file.
type Result struct {
	Input  string
	Output string // empty when parsing failed
	Props  *props.Map
	Err    error
}

// Summary counts the results of a folder run. Results are in directory
// order.
type Summary struct {
	Processed int
	Failed    int
	Results   []Result
}

// Rows adapts the results for output.WriteXLSX.
func (s Summary) Rows() []output.Row {
	rows := make([]output.Row, len(s.Results))
	for i, r := range s.Results {
		rows[i] = output.Row{Document: filepath.Base(r.Input), Props: r.Props, Err: r.Err}
	}
	return rows
}

// Runner writes one output file per parsed input file.
type Runner struct {
	parser  Parser
	format  output.Format
	workers int
	log     *slog.Logger
}

func NewRunner(p Parser, format output.Format, workers int, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if workers <= 0 {
		workers = 1
	}
	return &Runner{parser: p, format: format, workers: workers, log: log}
}

// File parses in and writes the result into outDir, named after in with
// the output format's extension appended, so a.pdf and a.txt do not
// overwrite each other.
func (r *Runner) File(in, outDir string) Result {
	res := Result{Input: in}
	m, err := r.parse(in)
	if err != nil {
		res.Err = err
		r.log.Warn("parse failed", "file", in, "error", err)
		return res
	}
	res.Props = m

	out := filepath.Join(outDir, filepath.Base(in)+r.format.Extension())
	if err := r.write(out, m); err != nil {
		res.Err = err
		r.log.Error("write failed", "file", out, "error", err)
		return res
	}
	res.Output = out
	r.log.Info("parsed", "file", in, "output", out, "fields", m.Len())
	return res
}

func (r *Runner) parse(path string) (*props.Map, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer fh.Close()
	return r.parser.ParseFile(path, fh)
}

func (r *Runner) write(path string, m *props.Map) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := output.Write(fh, r.format, m); err != nil {
		fh.Close()
		return fmt.Errorf("write output: %w", err)
	}
	return fh.Close()
}

// Dir parses every regular file directly inside inDir. Per-file failures
// are counted in the summary; only folder-level problems return an error.
func (r *Runner) Dir(ctx context.Context, inDir, outDir string) (Summary, error) {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return Summary{}, fmt.Errorf("read input folder: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output folder: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			files = append(files, filepath.Join(inDir, e.Name()))
		}
	}

	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.File(f, outDir)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	s := Summary{Processed: len(files), Results: results}
	for _, res := range results {
		if res.Err != nil {
			s.Failed++
		}
	}
	r.log.Info("batch finished", "input", inDir, "processed", s.Processed, "failed", s.Failed)
	return s, nil
}
