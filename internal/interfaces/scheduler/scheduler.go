package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"pennyverse/internal/shared/logger"
)

// JobProvider lists the jobs for one scheduled run.
type JobProvider func(ctx context.Context) ([]Job, error)

type Config struct {
	// Spec is a standard five-field cron expression or a descriptor such as @daily.
	Spec         string
	Location     *time.Location
	WorkerCount  int
	JobDelay     time.Duration
	QueueSize    int
	RunOnStartup bool
	JobProvider  JobProvider
}

// Scheduler fans the provider's jobs out to a worker pool on a cron schedule.
type Scheduler struct {
	cron         *cron.Cron
	entry        cron.EntryID
	pool         *WorkerPool
	provider     JobProvider
	runOnStartup bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfg Config) (*Scheduler, error) {
	if cfg.JobProvider == nil {
		return nil, fmt.Errorf("job provider is required")
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		pool:         NewWorkerPool(cfg.WorkerCount, cfg.JobDelay, cfg.QueueSize),
		provider:     cfg.JobProvider,
		runOnStartup: cfg.RunOnStartup,
		ctx:          ctx,
		cancel:       cancel,
	}

	entry, err := s.cron.AddFunc(cfg.Spec, func() { s.runJobs() })
	if err != nil {
		cancel()
		return nil, fmt.Errorf("invalid schedule %q: %w", cfg.Spec, err)
	}
	s.entry = entry

	return s, nil
}

func (s *Scheduler) Start() {
	s.pool.Start()

	if s.runOnStartup {
		s.TriggerNow()
	}

	s.cron.Start()
	logger.Infof("Scheduler started, next run at %s", s.NextRun().Format(time.RFC3339))
}

// TriggerNow runs one batch in the background, outside the schedule.
func (s *Scheduler) TriggerNow() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runJobs()
	}()
}

// NextRun reports the next scheduled activation. It is zero before Start.
func (s *Scheduler) NextRun() time.Time {
	return s.cron.Entry(s.entry).Next
}

func (s *Scheduler) runJobs() int {
	if s.ctx.Err() != nil {
		return 0
	}

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	jobs, err := s.provider(ctx)
	if err != nil {
		logger.Errorf("Scheduler: failed to fetch jobs: %v", err)
		return 0
	}
	if len(jobs) == 0 {
		logger.Debugf("Scheduler: no jobs to process")
		return 0
	}

	return s.pool.SubmitBatch(jobs)
}

// Shutdown stops the cron loop, waits for in-flight triggers, then drains
// the worker pool, each within timeout.
func (s *Scheduler) Shutdown(timeout time.Duration) {
	cronDone := s.cron.Stop()
	s.cancel()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		logger.Warn("Scheduler: timeout waiting for running triggers")
	}

	s.pool.Shutdown(timeout)
	logger.Info("Scheduler: shutdown complete")
}
