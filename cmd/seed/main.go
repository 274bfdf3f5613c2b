// Command seed fills the configured record store with synthetic projects and
// can optionally train a model on the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/GoSim-25-26J-441/price-bati-backend/config"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/logging"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/artifact"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/service"
)

func main() {
	n := flag.Int("n", service.DefaultSeedCount, "number of records to insert")
	train := flag.Bool("train", false, "train a model after seeding")
	flag.Parse()

	if err := run(*n, *train); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(n int, train bool) error {
	if n < 0 {
		return fmt.Errorf("-n must be non-negative, got %d", n)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.App.LogLevel, Format: "console"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer records.Close()

	inserted, err := service.NewSeedService(records, nil).Seed(ctx, n)
	log.Info().Int("inserted", inserted).Int("requested", n).Msg("seeding finished")
	if err != nil {
		return err
	}

	if !train {
		return nil
	}

	trainCfg := service.DefaultTrainingConfig()
	trainCfg.Epochs = cfg.Model.Epochs
	trainCfg.Seed = cfg.Model.Seed
	bundle, err := service.NewTrainingService(records, artifact.NewStore(cfg.Model.Path), trainCfg).Train(ctx)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	log.Info().Str("run_id", bundle.RunID).Str("path", cfg.Model.Path).Msg("model saved")
	return nil
}
