// Package scheduler wires up the cron job that periodically sweeps a rescore
// for every known candidate, keeping match sets fresh as posting mirrors
// change between explicit rescores.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/som23ya/workwale-core/pkg/logger"
)

// Sweeper queues a rescore for every known candidate.
type Sweeper interface {
	SweepRescore(ctx context.Context) error
}

// Scheduler wraps robfig/cron and manages the sweep loop.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	spec    string
	log     logger.Logger
}

// New creates a Scheduler firing on the given cron spec, e.g. "@every 6h".
func New(sweeper Sweeper, spec string) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		sweeper: sweeper,
		spec:    spec,
		log:     logger.Named("scheduler"),
	}
}

// Start registers the job and starts the scheduler. It also runs one sweep
// immediately so match sets are populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info(ctx, "cron started", logger.String("spec", s.spec))

	go s.runSweep(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info(context.Background(), "cron stopped")
}

func (s *Scheduler) runSweep(ctx context.Context) {
	s.log.Debug(ctx, "sweep cycle started")
	if err := s.sweeper.SweepRescore(ctx); err != nil {
		s.log.Error(ctx, "sweep failed", logger.Error(err))
		return
	}
	s.log.Debug(ctx, "sweep cycle complete")
}
