// Package jobs runs background maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// sweepBatch caps how many interrupted deletions one run resumes.
const sweepBatch = 50

// DeletionResumer finishes menu deletions that were interrupted.
type DeletionResumer interface {
	ResumePendingDeletions(ctx context.Context, limit int) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	log     *logrus.Logger
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	runs   map[string]int
}

func NewScheduler(log *logrus.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:     log,
		timeout: 30 * time.Second,
		ctx:     ctx,
		cancel:  cancel,
		runs:    map[string]int{},
	}
}

// Add registers fn under name on the cron spec. Each run gets its own
// timeout and is skipped while the previous run is still going.
func (s *Scheduler) Add(spec, name string, fn func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() { s.run(name, fn) })
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}
	return nil
}

// AddDeletionSweep schedules the menu deletion sweep.
func (s *Scheduler) AddDeletionSweep(spec string, resumer DeletionResumer) error {
	return s.Add(spec, "menu-deletion-sweep", func(ctx context.Context) error {
		done, err := resumer.ResumePendingDeletions(ctx, sweepBatch)
		if done > 0 {
			s.log.WithField("resumed", done).Info("resumed interrupted menu deletions")
		}
		return err
	})
}

func (s *Scheduler) run(name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)

	s.mu.Lock()
	s.runs[name]++
	s.mu.Unlock()

	entry := s.log.WithFields(logrus.Fields{"job": name, "duration": time.Since(start).String()})
	if err != nil {
		entry.WithError(err).Warn("job failed")
		return
	}
	entry.Debug("job finished")
}

// Runs reports how many times the named job has run.
func (s *Scheduler) Runs(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[name]
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}
