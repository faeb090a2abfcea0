// Package jobs runs wiki generation requests on a bounded worker pool so a
// caller (the CLI's serve command, a scheduled re-run) can queue work
// without blocking on a full pipeline run.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sevigo/wikigen/internal/core"
)

// dispatcher implements core.JobDispatcher and manages a pool of worker
// goroutines for processing generation requests.
type dispatcher struct {
	job        core.Job                     // Job implementation executed by each worker.
	jobQueue   chan *core.GenerationRequest // Queue of incoming generation requests.
	maxWorkers int                          // Number of concurrent workers.
	wg         sync.WaitGroup               // Tracks active workers for graceful shutdown.
	logger     *slog.Logger                 // Logger instance for the dispatcher.
}

// NewDispatcher initializes a dispatcher with a worker pool.
// If maxWorkers is 0 or negative, it defaults to 1.
func NewDispatcher(job core.Job, maxWorkers int, logger *slog.Logger) core.JobDispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	d := &dispatcher{
		job:        job,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan *core.GenerationRequest, 100),
		logger:     logger,
	}
	d.startWorkers()
	return d
}

// startWorkers launches maxWorkers goroutines to process jobs from the queue.
func (d *dispatcher) startWorkers() {
	for i := 0; i < d.maxWorkers; i++ {
		d.wg.Add(1)
		go func(workerID int) {
			defer d.wg.Done()
			d.logger.Info("starting generation worker", "id", workerID)
			for req := range d.jobQueue {
				d.logger.Info("worker processing generation request", "worker_id", workerID, "repo", req.RepoRoot)
				if err := d.job.Run(context.Background(), req); err != nil {
					d.logger.Error("generation job failed", "repo", req.RepoRoot, "error", err)
				}
			}
			d.logger.Info("shutting down generation worker", "id", workerID)
		}(i)
	}
}

// Dispatch queues a generation request for processing by a worker.
// Returns an error if the queue is full.
func (d *dispatcher) Dispatch(ctx context.Context, req *core.GenerationRequest) error {
	d.logger.InfoContext(ctx, "queuing generation job", "repo", req.RepoRoot)
	select {
	case d.jobQueue <- req:
		return nil
	default:
		return fmt.Errorf("job queue is full, cannot accept new generation request")
	}
}

// Stop gracefully shuts down the dispatcher, waiting for all workers to finish.
func (d *dispatcher) Stop() {
	d.logger.Info("stopping dispatcher and waiting for jobs to finish")
	close(d.jobQueue)
	d.wg.Wait()
	d.logger.Info("all generation jobs have finished")
}
