package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gnana997/semindex/pkg/extractor"
	_ "github.com/gnana997/semindex/pkg/extractor/lang/javascript"
	_ "github.com/gnana997/semindex/pkg/extractor/lang/python"
	_ "github.com/gnana997/semindex/pkg/extractor/lang/rust"
	_ "github.com/gnana997/semindex/pkg/extractor/lang/typescript"
	"github.com/gnana997/semindex/pkg/parser"
	"github.com/gnana997/semindex/pkg/util"
)

// FileJob represents a file queued for indexing.
type FileJob struct {
	FilePath string
	JobID    int
}

// FileResult is the outcome of indexing one file.
type FileResult struct {
	FilePath    string
	Index       *extractor.SemanticIndex
	ContentHash string
	JobID       int
}

// WorkerPool runs a pool of goroutines that each parse and build a
// SemanticIndex for one file at a time, sharing one ParserManager across
// all workers — its compiled-query cache and parser pools are built for
// concurrent use, per spec.md §5.
type WorkerPool struct {
	numWorkers int
	jobs       chan FileJob
	results    chan FileResult
	errors     chan FileError
	wg         sync.WaitGroup
	pm         *parser.ParserManager
	cache      util.FileCache
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewWorkerPool creates a worker pool. numWorkers of 0 auto-detects via
// util.GetOptimalPoolSize(), matching the parser pool size so workers never
// block waiting on a parser. cache serves memory-mapped reads so a batch run
// across thousands of files copies each source file into RAM at most once.
func NewWorkerPool(numWorkers int, pm *parser.ParserManager, cache util.FileCache, logger *slog.Logger) *WorkerPool {
	if numWorkers == 0 {
		numWorkers = util.GetOptimalPoolSize()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan FileJob, numWorkers*2),
		results:    make(chan FileResult, numWorkers),
		errors:     make(chan FileError, numWorkers),
		pm:         pm,
		cache:      cache,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start spawns all worker goroutines. Must be called before Submit.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("worker pool already started")
		return
	}

	wp.logger.Info("starting worker pool", "workers", wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

func (wp *WorkerPool) processJob(workerID int, job FileJob) {
	mapped, err := wp.cache.Get(job.FilePath)
	if err != nil {
		wp.jobsFailed.Add(1)
		wp.errors <- FileError{FilePath: job.FilePath, Error: fmt.Errorf("failed to read file: %w", err)}
		return
	}
	content := []byte(mapped.Data)

	lang := parser.DetectLanguage(job.FilePath)
	if lang == parser.LanguageUnknown {
		wp.jobsFailed.Add(1)
		wp.errors <- FileError{FilePath: job.FilePath, Error: fmt.Errorf("unsupported file extension")}
		return
	}
	isTSX := parser.IsTSXFile(job.FilePath)

	tree, err := wp.pm.Parse(content, lang, isTSX)
	if err != nil {
		wp.jobsFailed.Add(1)
		wp.errors <- FileError{FilePath: job.FilePath, Error: fmt.Errorf("parse failed: %w", err)}
		return
	}
	defer tree.Close()

	parsed := extractor.ParsedFile{FilePath: job.FilePath, Lang: lang}
	index, err := extractor.BuildSemanticIndex(wp.pm, parsed, tree, content)
	if err != nil {
		wp.jobsFailed.Add(1)
		wp.errors <- FileError{FilePath: job.FilePath, Error: fmt.Errorf("extraction failed: %w", err)}
		return
	}

	wp.jobsProcessed.Add(1)
	wp.results <- FileResult{
		FilePath:    job.FilePath,
		Index:       index,
		ContentHash: ComputeContentHash(content),
		JobID:       job.JobID,
	}
}

// Submit enqueues a job. Blocks if the jobs channel is full.
func (wp *WorkerPool) Submit(job FileJob) error {
	if wp.stopped.Load() {
		return fmt.Errorf("worker pool is stopped")
	}
	wp.jobsSubmitted.Add(1)

	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled")
	case wp.jobs <- job:
		return nil
	}
}

// Results returns the channel consumers read completed FileResults from.
func (wp *WorkerPool) Results() <-chan FileResult { return wp.results }

// Errors returns the channel consumers read failed-file errors from.
func (wp *WorkerPool) Errors() <-chan FileError { return wp.errors }

// FinishSubmitting closes the jobs channel; safe to call multiple times.
func (wp *WorkerPool) FinishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
}

// Wait blocks until every worker has exited.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop gracefully shuts the pool down; safe to call multiple times.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}

	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
	wp.wg.Wait()

	close(wp.results)
	close(wp.errors)
	wp.cancel()

	wp.logger.Info("worker pool stopped",
		"jobs_submitted", wp.jobsSubmitted.Load(),
		"jobs_processed", wp.jobsProcessed.Load(),
		"jobs_failed", wp.jobsFailed.Load())
}

// GetStats returns current worker pool statistics.
func (wp *WorkerPool) GetStats() WorkerPoolStats {
	return WorkerPoolStats{
		NumWorkers:    wp.numWorkers,
		JobsSubmitted: wp.jobsSubmitted.Load(),
		JobsProcessed: wp.jobsProcessed.Load(),
		JobsFailed:    wp.jobsFailed.Load(),
		QueueLength:   len(wp.jobs),
		ResultsQueued: len(wp.results),
		ErrorsQueued:  len(wp.errors),
	}
}

// WorkerPoolStats reports on worker pool throughput.
type WorkerPoolStats struct {
	NumWorkers    int
	JobsSubmitted int64
	JobsProcessed int64
	JobsFailed    int64
	QueueLength   int
	ResultsQueued int
	ErrorsQueued  int
}
