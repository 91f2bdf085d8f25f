// Package scheduler drives the optional cron-based refresh mode, re-running
// the fetch on a schedule with the end date pinned to now.
package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps a cron runner around a fetch job.
type Scheduler struct {
	Cron *cron.Cron
	Job  func()
}

// NewScheduler creates a scheduler for the given job.
func NewScheduler(job func()) *Scheduler {
	return &Scheduler{
		Cron: cron.New(cron.WithSeconds()),
		Job:  job,
	}
}

// Register adds the refresh task at the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.Job); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}
