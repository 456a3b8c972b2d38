package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gnana997/importsorter/pkg/runner"
	"github.com/gnana997/importsorter/pkg/util"
)

// ErrPoolStopped is returned by Submit after Stop.
var ErrPoolStopped = errors.New("worker pool is stopped")

// FileJob is one file to sort.
type FileJob struct {
	Path string
	ID   int
}

// FileResult is the outcome of a successful job.
type FileResult struct {
	Path    string
	Outcome *runner.Outcome
	ID      int
}

// WorkerPool runs a fixed number of goroutines that sort files.
//
// Results and errors are delivered on separate channels, which must be
// drained while jobs are submitted:
//
//	pool := NewWorkerPool(ctx, 0, runner, true, logger)
//	pool.Start()
//	go collect(pool.Results(), pool.Errors())
//	for i, f := range files {
//	    pool.Submit(FileJob{Path: f, ID: i})
//	}
//	pool.Stop()
type WorkerPool struct {
	numWorkers int
	processor  Processor
	write      bool
	logger     *slog.Logger

	jobs    chan FileJob
	results chan FileResult
	errors  chan FileError
	wg      sync.WaitGroup

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewWorkerPool returns a pool of numWorkers workers (0 picks the parser
// pool default, so workers never wait on parsers). Cancelling ctx stops the
// workers after their current file.
func NewWorkerPool(ctx context.Context, numWorkers int, p Processor, write bool, logger *slog.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = util.GetOptimalPoolSize()
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers: numWorkers,
		processor:  p,
		write:      write,
		logger:     logger,
		jobs:       make(chan FileJob, numWorkers*2),
		results:    make(chan FileResult, numWorkers),
		errors:     make(chan FileError, numWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start spawns the workers. Calling it twice is a no-op.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("worker pool already started")
		return
	}
	wp.logger.Debug("starting worker pool", "workers", wp.numWorkers, "write", wp.write)

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
	out, err := wp.processor.ProcessFile(job.Path, wp.write)
	if err != nil {
		wp.jobsFailed.Add(1)
		wp.errors <- FileError{Path: job.Path, Err: err}
		return
	}

	wp.jobsProcessed.Add(1)
	wp.logger.Debug("file processed", "worker_id", workerID, "file", job.Path, "changed", out.Changed)
	wp.results <- FileResult{Path: job.Path, Outcome: out, ID: job.ID}
}

// Submit enqueues a job, blocking while the queue is full.
func (wp *WorkerPool) Submit(job FileJob) error {
	if wp.stopped.Load() {
		return ErrPoolStopped
	}

	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled: %w", wp.ctx.Err())
	case wp.jobs <- job:
		wp.jobsSubmitted.Add(1)
		return nil
	}
}

// Results returns the channel of successful jobs. It is closed by Stop.
func (wp *WorkerPool) Results() <-chan FileResult {
	return wp.results
}

// Errors returns the channel of failed jobs. It is closed by Stop.
func (wp *WorkerPool) Errors() <-chan FileError {
	return wp.errors
}

// FinishSubmitting closes the job queue. Workers exit once it is drained.
func (wp *WorkerPool) FinishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
}

// Wait blocks until every worker has exited.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop closes the job queue, waits for in-flight jobs and closes the result
// channels. It is idempotent.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}

	wp.FinishSubmitting()
	wp.wg.Wait()

	close(wp.results)
	close(wp.errors)
	wp.cancel()

	wp.logger.Debug("worker pool stopped",
		"jobs_submitted", wp.jobsSubmitted.Load(),
		"jobs_processed", wp.jobsProcessed.Load(),
		"jobs_failed", wp.jobsFailed.Load())
}

// GetStats returns a snapshot of the pool counters.
func (wp *WorkerPool) GetStats() WorkerPoolStats {
	return WorkerPoolStats{
		NumWorkers:    wp.numWorkers,
		JobsSubmitted: wp.jobsSubmitted.Load(),
		JobsProcessed: wp.jobsProcessed.Load(),
		JobsFailed:    wp.jobsFailed.Load(),
		QueueLength:   len(wp.jobs),
	}
}

// WorkerPoolStats holds WorkerPool counters.
type WorkerPoolStats struct {
	NumWorkers    int
	JobsSubmitted int64
	JobsProcessed int64
	JobsFailed    int64
	QueueLength   int
}
