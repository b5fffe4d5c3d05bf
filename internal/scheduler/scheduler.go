// Package scheduler wires up the cron trigger for the daily condo sync run.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/okfngroup/hr-selfservice/internal/condo"
	"github.com/okfngroup/hr-selfservice/internal/config"
)

// Scheduler wraps robfig/cron and owns nothing but triggering the job.
type Scheduler struct {
	cron *cron.Cron
	job  *condo.Job
	spec string
}

// New creates a Scheduler firing on the configured cron spec in the
// configured time zone. Runs never overlap: a tick that arrives while the
// previous run is still going is skipped.
func New(cfg config.SchedulerConfig, job *condo.Job) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", cfg.Timezone, err)
	}

	logger := cron.PrintfLogger(logrus.StandardLogger())
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(logger)),
	)

	return &Scheduler{
		cron: c,
		job:  job,
		spec: cfg.CronSpec,
	}, nil
}

// Start registers the sync job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.job.Run(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	logrus.Infof("[scheduler] cron started — spec: %s", s.spec)
	return nil
}

// Stop gracefully shuts down the scheduler, waiting for a running job.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logrus.Infof("[scheduler] cron stopped")
}
