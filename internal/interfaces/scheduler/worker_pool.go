package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"pennyverse/internal/shared/logger"
)

const jobTimeout = 2 * time.Minute

var (
	jobTracer          = otel.Tracer("pennyverse/scheduler")
	jobMeter           = otel.Meter("pennyverse/scheduler")
	jobDuration, _     = jobMeter.Float64Histogram("scheduler.job.duration", metric.WithDescription("Job execution duration in seconds"), metric.WithUnit("s"))
	jobTotal, _        = jobMeter.Int64Counter("scheduler.job.total", metric.WithDescription("Total jobs executed by status"))
	jobQueueDropped, _ = jobMeter.Int64Counter("scheduler.job.queue_dropped", metric.WithDescription("Jobs dropped due to full queue"))
)

var ErrQueueFull = errors.New("job queue full")

// WorkerPool runs submitted jobs on a fixed number of goroutines.
type WorkerPool struct {
	workerCount int
	jobDelay    time.Duration
	jobs        chan Job
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool sizes the pool. jobDelay is a pause each worker takes
// between jobs; queueSize bounds the pending job buffer.
func NewWorkerPool(workerCount int, jobDelay time.Duration, queueSize int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: max(workerCount, 1),
		jobDelay:    jobDelay,
		jobs:        make(chan Job, max(queueSize, 1)),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (wp *WorkerPool) Start() {
	logger.Infof("Starting worker pool with %d workers", wp.workerCount)

	for i := 1; i <= wp.workerCount; i++ {
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

			if wp.jobDelay > 0 {
				select {
				case <-time.After(wp.jobDelay):
				case <-wp.ctx.Done():
					return
				}
			}
		}
	}
}

func (wp *WorkerPool) processJob(workerID int, job Job) {
	log := logger.WithField("worker", workerID).WithField("user_id", job.UserID())

	ctx, cancel := context.WithTimeout(wp.ctx, jobTimeout)
	defer cancel()

	ctx, span := jobTracer.Start(ctx, "job.execute",
		trace.WithAttributes(
			attribute.Int("worker.id", workerID),
			attribute.String("job.description", job.Description()),
			attribute.String("job.user_id", job.UserID()),
		),
	)
	defer span.End()

	start := time.Now()
	err := job.Execute(ctx)
	jobDuration.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		log.Errorf("%s failed: %v", job.Description(), err)
		return
	}

	jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "success")))
	log.Debugf("%s completed", job.Description())
}

// Submit queues job without blocking. It returns ErrQueueFull when the
// buffer is full and context.Canceled once shutdown has started.
func (wp *WorkerPool) Submit(job Job) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return context.Canceled
	}

	select {
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	case wp.jobs <- job:
		return nil
	default:
		jobQueueDropped.Add(context.Background(), 1)
		return fmt.Errorf("%w: dropping %s", ErrQueueFull, job.Description())
	}
}

// SubmitBatch queues every job it can and returns how many were accepted.
func (wp *WorkerPool) SubmitBatch(jobs []Job) int {
	submitted := 0
	for _, job := range jobs {
		if err := wp.Submit(job); err != nil {
			logger.Warnf("Failed to submit job for user %s: %v", job.UserID(), err)
			continue
		}
		submitted++
	}
	logger.Infof("Submitted %d/%d jobs to worker pool", submitted, len(jobs))
	return submitted
}

// Shutdown stops accepting jobs and waits up to timeout for queued ones to
// drain. Jobs still running after that see their context cancelled.
func (wp *WorkerPool) Shutdown(timeout time.Duration) {
	wp.mu.Lock()
	if !wp.closed {
		wp.closed = true
		close(wp.jobs)
	}
	wp.mu.Unlock()

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("Worker pool: all workers finished")
	case <-time.After(timeout):
		logger.Warn("Worker pool: timeout reached, cancelling running jobs")
	}
	wp.cancel()
}
