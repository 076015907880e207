// Package schedule refreshes caches on a cron schedule, keeping them warm
// without waiting for a reader to find them expired.
//
// Specs carry a seconds field: "*/30 * * * * *" runs every 30 seconds.
// Descriptors such as "@every 1m" work too.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/unkn0wn-root/refcache"
)

var ErrNilJob = errors.New("schedule: nil job")

// Job is one periodic unit of work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Options struct {
	Logger   refcache.Logger // nil => NopLogger
	Location *time.Location  // nil => time.Local
	// Timeout bounds the context of every run; 0 means no deadline.
	Timeout time.Duration
}

// Scheduler runs Jobs on cron specs. A run still in progress when its next
// tick arrives is skipped, and panics are recovered and logged.
type Scheduler struct {
	cron    *cron.Cron
	log     refcache.Logger
	timeout time.Duration

	mu    sync.Mutex
	names map[string]cron.EntryID
	// base is the parent of every run's context; Stop cancels it and Start
	// replaces a canceled one.
	base   context.Context
	cancel context.CancelFunc
}

func New(opts Options) *Scheduler {
	log := opts.Logger
	if log == nil {
		log = refcache.NopLogger{}
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	cl := cronLogger{l: log}

	base, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log:     log,
		timeout: opts.Timeout,
		base:    base,
		cancel:  cancel,
		names:   make(map[string]cron.EntryID),
	}
}

// Add schedules j. Names must be unique within a Scheduler.
func (s *Scheduler) Add(spec string, j Job) (cron.EntryID, error) {
	if j == nil {
		return 0, ErrNilJob
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.names[j.Name()]; dup {
		return 0, fmt.Errorf("schedule: job %q already added", j.Name())
	}
	id, err := s.cron.AddJob(spec, &runner{s: s, job: j})
	if err != nil {
		return 0, fmt.Errorf("schedule: add job %s with spec %q: %w", j.Name(), spec, err)
	}
	s.names[j.Name()] = id
	s.log.Info("job scheduled", refcache.Fields{"job": j.Name(), "spec": spec})
	return id, nil
}

// Remove unschedules the named job. A run in progress finishes.
func (s *Scheduler) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.names[name]
	if !ok {
		return false
	}
	s.cron.Remove(id)
	delete(s.names, name)
	return true
}

// Next reports when the named job runs next; zero if unknown or not started.
func (s *Scheduler) Next(name string) time.Time {
	s.mu.Lock()
	id, ok := s.names[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}

// Start begins scheduling. A stopped Scheduler can be started again.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.base.Err() != nil {
		s.base, s.cancel = context.WithCancel(context.Background())
	}
	s.mu.Unlock()
	s.cron.Start()
}

func (s *Scheduler) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base
}

func (s *Scheduler) cancelRuns() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	cancel()
}

// Stop halts scheduling and waits for running jobs. If ctx ends first, the
// contexts of running jobs are canceled and ctx.Err() is returned.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.cancelRuns()
		return nil
	case <-ctx.Done():
		s.cancelRuns()
		return ctx.Err()
	}
}

type runner struct {
	s   *Scheduler
	job Job
}

func (r *runner) Run() {
	ctx := r.s.runContext()
	if r.s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := r.job.Run(ctx); err != nil {
		r.s.log.Warn("job failed", refcache.Fields{"job": r.job.Name(), "err": err, "took": time.Since(start)})
		return
	}
	r.s.log.Debug("job done", refcache.Fields{"job": r.job.Name(), "took": time.Since(start)})
}
