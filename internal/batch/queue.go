package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/export"
	"github.com/joseph-ayodele/docsum/internal/extract"
	"github.com/joseph-ayodele/docsum/internal/pipeline"
)

var ErrQueueClosed = errors.New("batch queue is shutting down")

// Runner summarizes one document. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, doc extract.Document, req pipeline.Request) (pipeline.Result, error)
}

// Job is one file to summarize. Index fixes its position in Rows.
type Job struct {
	Index   int
	Path    string
	Request pipeline.Request
}

// Queue runs jobs on a fixed pool of workers and keeps every outcome.
type Queue struct {
	runner  Runner
	logger  *slog.Logger
	workers int
	timeout time.Duration
	parent  context.Context

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu      sync.Mutex
	closed  bool
	stop    chan struct{}
	senders sync.WaitGroup

	rowsMu   sync.Mutex
	rows     map[int]export.Row
	onResult func(export.Row)
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

// WithOnResult streams each outcome to fn instead of keeping it for Rows.
// fn may be called from several workers at once.
func WithOnResult(fn func(export.Row)) Option {
	return func(q *Queue) {
		q.onResult = fn
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// NewQueue starts the workers. Jobs run under ctx plus the per-job timeout.
func NewQueue(ctx context.Context, runner Runner, logger *slog.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		runner:  runner,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		parent:  ctx,
		ch:      make(chan Job, 256),
		stop:    make(chan struct{}),
		rows:    map[int]export.Row{},
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("batch.worker.started", "worker_id", workerID)
				for job := range q.ch {
					q.process(workerID, job)
				}
				q.logger.Debug("batch.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *Queue) process(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(q.parent, q.timeout)
	defer cancel()
	ctx, rid := common.EnsureRequestID(ctx)

	row := export.Row{Source: job.Path}
	res, err := q.runFile(ctx, job)
	if err != nil {
		row.Err = common.AsAppError(err).Message
		q.logger.Error("batch.job.failed", "worker_id", workerID, "req_id", rid, "path", job.Path, "error", err)
	} else {
		row.Result = res
		q.logger.Info("batch.job.ok", "worker_id", workerID, "req_id", rid, "path", job.Path, "pages", res.Pages)
	}

	if q.onResult != nil {
		q.onResult(row)
		return
	}
	q.rowsMu.Lock()
	q.rows[job.Index] = row
	q.rowsMu.Unlock()
}

func (q *Queue) runFile(ctx context.Context, job Job) (pipeline.Result, error) {
	data, err := os.ReadFile(job.Path)
	if err != nil {
		return pipeline.Result{}, common.InternalAppError(fmt.Errorf("read %s: %w", job.Path, err))
	}
	doc := extract.Document{Filename: filepath.Base(job.Path), Data: data}
	return q.runner.Run(ctx, doc, job.Request)
}

// Enqueue blocks when the buffer is full until a worker frees a slot, ctx
// ends, or Shutdown starts.
func (q *Queue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warn("batch.enqueue.closed", "path", job.Path)
		return ErrQueueClosed
	}
	q.senders.Add(1)
	q.mu.Unlock()
	defer q.senders.Done()

	select {
	case q.ch <- job:
		q.logger.Debug("batch.enqueue.ok", "path", job.Path)
		return nil
	default:
	}
	q.logger.Warn("batch.enqueue.backpressure", "path", job.Path)
	select {
	case q.ch <- job:
		return nil
	case <-q.stop:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish.
// Enqueue calls blocked on a full buffer return ErrQueueClosed.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.stop)
	q.mu.Unlock()

	// ch is closed only once no sender can still write to it.
	q.senders.Wait()
	close(q.ch)

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("batch.shutdown.interrupted")
		return ctx.Err()
	case <-done:
		q.logger.Info("batch.shutdown.drained")
		return nil
	}
}

// Rows returns the outcomes collected so far, ordered by job index.
func (q *Queue) Rows() []export.Row {
	q.rowsMu.Lock()
	defer q.rowsMu.Unlock()
	idx := make([]int, 0, len(q.rows))
	for i := range q.rows {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	out := make([]export.Row, 0, len(idx))
	for _, i := range idx {
		out = append(out, q.rows[i])
	}
	return out
}
