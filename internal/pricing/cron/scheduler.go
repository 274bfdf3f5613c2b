package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/artifact"
)

// Trainer is satisfied by *service.TrainingService.
type Trainer interface {
	Train(ctx context.Context) (*artifact.Bundle, error)
}

// specParser accepts both 5-field and 6-field (leading seconds) specs as well
// as descriptors such as @daily or @every 6h.
var specParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type Scheduler struct {
	c       *cron.Cron
	trainer Trainer
	spec    string
	timeout time.Duration
}

// NewScheduler validates spec and registers the retraining job. A run that
// is still going when the next tick fires makes that tick a no-op.
func NewScheduler(trainer Trainer, spec string, timeout time.Duration) (*Scheduler, error) {
	s := &Scheduler{trainer: trainer, spec: spec, timeout: timeout}
	s.c = cron.New(
		cron.WithParser(specParser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := s.c.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid TRAIN_SCHEDULE %q: %w", spec, err)
	}
	return s, nil
}

// Start initializes cron tasks
func (s *Scheduler) Start() {
	log.Info().Str("schedule", s.spec).Msg("retraining scheduler started")
	s.c.Start()
}

// Stop prevents new runs and returns a context that is done once the
// running job, if any, has finished.
func (s *Scheduler) Stop() context.Context {
	return s.c.Stop()
}

// RunOnce performs one scheduled training run and logs its outcome.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	bundle, err := s.trainer.Train(ctx)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("scheduled training failed")
		return
	}
	log.Info().
		Str("run_id", bundle.RunID).
		Dur("elapsed", time.Since(start)).
		Msg("scheduled training completed")
}
