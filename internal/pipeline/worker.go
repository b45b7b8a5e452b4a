package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docfields/internal/docparse"
)

// Worker processes a single document job.
type Worker struct {
	parser Parser
	jobs   *JobStore
	stats  *ParseStats
	log    *slog.Logger
}

func NewWorker(p Parser, jobs *JobStore, stats *ParseStats, log *slog.Logger) *Worker {
	return &Worker{parser: p, jobs: jobs, stats: stats, log: log}
}

// Process parses the job's document and records the outcome on the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "cancelled")
		return
	}

	if prev := w.jobs.Completed(job.DedupKey()); prev != nil && prev.ID != job.ID && prev.Properties() != nil {
		log.Info("duplicate document, reusing result", "duplicate_of", prev.ID)
		job.Complete(prev.Properties(), prev.ID)
		return
	}

	job.SetStatus(StatusParsing, "parsing")
	start := time.Now()
	m, err := w.parser.ParseFile(job.Filename, bytes.NewReader(job.FileData()))
	elapsed := time.Since(start)

	// Stats and the hash index are updated before the status changes, so a
	// poller that sees the final status also sees both.
	switch {
	case err == nil:
		w.stats.Record(elapsed, StatusCompleted)
		w.jobs.Remember(job)
		job.Complete(m, "")
		log.Info("parse complete", "fields", m.Len(), "duration_ms", elapsed.Milliseconds())
	case docparse.IsUnsupported(err):
		w.stats.Record(elapsed, StatusUnsupported)
		job.AddError(err.Error())
		job.SetStatus(StatusUnsupported, "parsing")
		log.Warn("unsupported document", "error", err)
	default:
		w.stats.Record(elapsed, StatusFailed)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		log.Error("parse failed", "error", err)
	}
}
