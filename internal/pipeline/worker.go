package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/pyoutline/internal/doctree"
	"github.com/dgallion1/pyoutline/internal/index"
	"github.com/dgallion1/pyoutline/internal/parser"
	"github.com/dgallion1/pyoutline/internal/pathstore"
)

// Worker processes outline jobs.
type Worker struct {
	publisher *pathstore.Publisher
	stats     *ParseStats
	log       *slog.Logger

	maxConcurrentPublish int
}

// NewWorker returns a worker. A nil publisher skips the publishing phase.
func NewWorker(pub *pathstore.Publisher, stats *ParseStats, log *slog.Logger, maxPublish int) *Worker {
	if maxPublish <= 0 {
		maxPublish = 1
	}
	return &Worker{
		publisher:            pub,
		stats:                stats,
		log:                  log,
		maxConcurrentPublish: maxPublish,
	}
}

// Outline parses one uploaded file and records its parse latency.
func Outline(stats *ParseStats, filename string, data []byte) (*doctree.File, error) {
	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	file, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return nil, err
	}
	if stats != nil {
		stats.Record(time.Since(start), bytes.Count(data, []byte("\n"))+1)
	}
	return file, nil
}

// Process runs parsing and publishing for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "project", job.Project)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	forest := doctree.NewForest()
	hadErrors := false
	for _, up := range job.Uploads() {
		file, err := Outline(w.stats, up.Filename, up.Data)
		if err != nil {
			log.Error("parse failed", "filename", up.Filename, "error", err)
			job.AddError(fmt.Sprintf("parse %s: %s", up.Filename, err))
			hadErrors = true
			continue
		}
		n := doctree.Count(file.Nodes)
		forest.Add(file.Path, file.Nodes)
		job.FileParsed(n)
		log.Info("parsed file", "filename", up.Filename, "definitions", n)
	}
	job.SetForest(forest)

	if forest.Len() == 0 {
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	if w.publisher == nil {
		w.finish(job, hadErrors, true)
		return
	}

	// Phase 2: Publish
	job.SetStatus(StatusPublishing, "publishing")
	published, publishErrors := w.publish(ctx, log, job, forest)
	job.AddPublished(published)
	log.Info("publishing complete", "published", published, "errors", publishErrors)

	if publishErrors > 0 {
		hadErrors = true
	}
	w.finish(job, hadErrors, published > 0 || publishErrors == 0)
}

func (w *Worker) finish(job *Job, hadErrors, anyDone bool) {
	switch {
	case hadErrors && anyDone:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusFailed, "publishing")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

// publish replaces each file's previous entries, then writes nodes and parent links with
// bounded concurrency.
func (w *Worker) publish(ctx context.Context, log *slog.Logger, job *Job, forest *doctree.Forest) (int, int) {
	failures := 0
	var entries []index.Entry
	for _, f := range forest.Files() {
		err := withRetry(ctx, log, "clear", func() error {
			return w.publisher.ClearFile(ctx, job.Project, f.Path)
		})
		if err != nil {
			log.Error("clear failed", "filename", f.Path, "error", err)
			job.AddError(fmt.Sprintf("clear %s: %s", f.Path, err))
			failures++
			continue
		}
		entries = append(entries, index.BuildFile(f)...)
	}

	type result struct {
		key string
		err error
	}
	results := make(chan result, len(entries))
	sem := make(chan struct{}, w.maxConcurrentPublish)
	var wg sync.WaitGroup

	for _, e := range entries {
		sem <- struct{}{}
		wg.Add(1)
		go func(e index.Entry) {
			defer wg.Done()
			defer func() { <-sem }()
			key := pathstore.EntryKey(job.Project, e)
			err := withRetry(ctx, log, "put", func() error {
				return w.publisher.PutEntry(ctx, job.Project, e)
			})
			if err == nil {
				linkErr := withRetry(ctx, log, "link", func() error {
					return w.publisher.LinkEntry(ctx, job.Project, e)
				})
				if linkErr != nil {
					log.Warn("link write failed", "key", key, "error", linkErr)
				}
			}
			results <- result{key: key, err: err}
		}(e)
	}
	wg.Wait()
	close(results)

	published := 0
	for r := range results {
		if r.err != nil {
			log.Error("publish failed", "key", r.key, "error", r.err)
			job.AddError(fmt.Sprintf("publish %s: %s", r.key, r.err))
			failures++
			continue
		}
		published++
	}
	return published, failures
}
