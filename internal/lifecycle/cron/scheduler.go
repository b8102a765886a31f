package cronjob

import (
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the withering sweep on a fixed cron schedule.
type Scheduler struct {
	spec  string
	sweep func()
	c     *cron.Cron
}

func NewScheduler(spec string, sweep func()) *Scheduler {
	return &Scheduler{spec: spec, sweep: sweep}
}

// Start initializes the cron task.
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(s.spec, s.sweep)
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Printf("Cron scheduler started (withering sweep at %q)", s.spec)
	c.Start()
	s.c = c
}

// Stop halts the scheduler; a sweep already running finishes.
func (s *Scheduler) Stop() {
	if s.c != nil {
		s.c.Stop()
	}
}
