package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Pruner drops expired entries and reports how many were removed.
type Pruner interface {
	Prune() int
	Len() int
}

// Scheduler periodically sweeps idle page sessions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     Pruner
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(store Pruner, interval time.Duration, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		store:     store,
		interval:  interval,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start schedules the sweep job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.sweep)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) sweep() {
	removed := s.store.Prune()
	s.logger.Info("session sweep completed", "removed", removed, "live", s.store.Len())
}
