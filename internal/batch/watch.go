package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// WatchOptions tunes Watch.
type WatchOptions struct {
	// Debounce is how long a file must stay quiet before it is parsed.
	Debounce time.Duration
	// InitialScan parses the files already present before watching.
	InitialScan bool
	// OnResult, if set, receives every result.
	OnResult func(Result)
	// Ready, if set, is called once the folder is being watched.
	Ready func()
}

// Watch parses files as they are created or rewritten in inDir, until ctx
// is done.
func (r *Runner) Watch(ctx context.Context, inDir, outDir string, opts WatchOptions) error {
	if sameDir(inDir, outDir) {
		return errors.New("output folder must differ from the watched folder")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output folder: %w", err)
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	emit := func(res Result) {
		if opts.OnResult != nil {
			opts.OnResult(res)
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(inDir); err != nil {
		return fmt.Errorf("watch %s: %w", inDir, err)
	}
	r.log.Info("watching", "input", inDir, "output", outDir)

	if opts.InitialScan {
		s, err := r.Dir(ctx, inDir, outDir)
		if err != nil {
			return err
		}
		for _, res := range s.Results {
			emit(res)
		}
	}
	if opts.Ready != nil {
		opts.Ready()
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := map[string]struct{}{}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if strings.HasPrefix(filepath.Base(ev.Name), ".") {
				continue
			}
			pending[ev.Name] = struct{}{}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.log.Error("watcher error", "error", err)
		case <-timer.C:
			for path := range pending {
				delete(pending, path)
				info, err := os.Stat(path)
				if err != nil || !info.Mode().IsRegular() {
					continue
				}
				emit(r.File(path, outDir))
			}
		}
	}
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
