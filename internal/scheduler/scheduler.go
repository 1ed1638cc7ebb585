// Package scheduler drives recurring scrape runs off a cron spec.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type Task func(ctx context.Context) error

// Scheduler wraps robfig/cron around a single scrape task. Ticks that
// land while a run is still in flight are skipped, never queued.
type Scheduler struct {
	cron    *cron.Cron
	spec    string
	task    Task
	log     zerolog.Logger
	running atomic.Bool
}

func New(spec string, task Task, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		spec: spec,
		task: task,
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.tick(ctx) }); err != nil {
		return fmt.Errorf("cron spec %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("scheduler started")
	return nil
}

// Stop halts the cron loop; a tick already in flight finishes on its own.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn().Msg("previous run still in flight, skipping tick")
		return
	}
	defer s.running.Store(false)

	if err := s.task(ctx); err != nil {
		s.log.Error().Err(err).Msg("scheduled run failed")
	}
}
