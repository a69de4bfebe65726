package counter

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/dtnitsch/wordbench/pkg/errors"
)

// Job is one unit of work run by a cluster worker.
type Job func(ctx context.Context) error

type task struct {
	ctx  context.Context
	job  Job
	done chan error
}

// Cluster is a fixed pool of worker goroutines shared by every distributed
// count of a run. It is created explicitly and must be released with Close.
type Cluster struct {
	workers   int
	tasks     chan task
	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	logger    *slog.Logger
}

// NewCluster starts workers goroutines. A non-positive count uses
// runtime.NumCPU.
func NewCluster(workers int, logger *slog.Logger) *Cluster {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cluster{
		workers: workers,
		tasks:   make(chan task),
		closed:  make(chan struct{}),
		logger:  logger.With("component", "cluster"),
	}
	for w := 1; w <= workers; w++ {
		c.wg.Add(1)
		go c.worker(w)
	}
	c.logger.Info("Cluster started", "workers", workers)
	return c
}

// worker runs tasks until the cluster is closed.
func (c *Cluster) worker(id int) {
	defer c.wg.Done()
	for {
		select {
		case <-c.closed:
			return
		case t := <-c.tasks:
			c.logger.Debug("Worker started job", "worker_id", id)
			t.done <- t.job(t.ctx)
		}
	}
}

// Workers returns the pool size.
func (c *Cluster) Workers() int {
	return c.workers
}

// Run executes every job on the pool and waits for all of them. The first
// failure cancels the context handed to the remaining jobs and is returned.
func (c *Cluster) Run(ctx context.Context, jobs []Job) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, job := range jobs {
		g.Go(func() error {
			return c.submit(gctx, job)
		})
	}
	return g.Wait()
}

func (c *Cluster) submit(ctx context.Context, job Job) error {
	done := make(chan error, 1)
	select {
	case <-c.closed:
		return apperrors.New(apperrors.ErrClosed, "cluster is closed")
	case <-ctx.Done():
		return ctx.Err()
	case c.tasks <- task{ctx: ctx, job: job, done: done}:
	}
	return <-done
}

// Close stops the workers after their current job. It is safe to call more
// than once.
func (c *Cluster) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.wg.Wait()
		c.logger.Info("Cluster stopped", "workers", c.workers)
	})
	return nil
}
