package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the engine's cycles periodically.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger
}

// NewScheduler creates a Scheduler running import submission, status
// refresh, and artifact fetch at their respective intervals.
func NewScheduler(
	eng *Engine,
	importInterval time.Duration,
	statusInterval time.Duration,
	artifactInterval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
	}

	if _, err := c.AddFunc("@every "+importInterval.String(), s.runImportSubmission); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc("@every "+statusInterval.String(), s.runImportStatusRefresh); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc("@every "+artifactInterval.String(), s.runArtifactFetch); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runImportSubmission() {
	ctx := context.Background()
	s.log.Info("scheduled import submission starting")
	if err := s.engine.RunImportSubmission(ctx); err != nil {
		s.log.Error("scheduled import submission failed", "error", err)
	}
}

func (s *Scheduler) runImportStatusRefresh() {
	ctx := context.Background()
	s.log.Info("scheduled import status refresh starting")
	if err := s.engine.RunImportStatusRefresh(ctx); err != nil {
		s.log.Error("scheduled import status refresh failed", "error", err)
	}
}

func (s *Scheduler) runArtifactFetch() {
	ctx := context.Background()
	s.log.Info("scheduled artifact fetch starting")
	if err := s.engine.RunArtifactFetch(ctx); err != nil {
		s.log.Error("scheduled artifact fetch failed", "error", err)
	}
}
