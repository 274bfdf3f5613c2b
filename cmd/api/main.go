package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GoSim-25-26J-441/price-bati-backend/config"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/logging"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/artifact"
	cronjob "github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/cron"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/service"
)

const serviceName = "price-bati-backend"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{Level: cfg.App.LogLevel, Format: cfg.App.LogFormat})
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer records.Close()

	bundles := artifact.NewStore(cfg.Model.Path)

	trainCfg := service.DefaultTrainingConfig()
	trainCfg.Epochs = cfg.Model.Epochs
	trainCfg.Seed = cfg.Model.Seed
	trainer := service.NewTrainingService(records, bundles, trainCfg)
	seeder := service.NewSeedService(records, nil)

	if cfg.Model.TrainSchedule != "" {
		sched, err := cronjob.NewScheduler(trainer, cfg.Model.TrainSchedule, 30*time.Minute)
		if err != nil {
			return err
		}
		sched.Start()
		defer func() { <-sched.Stop().Done() }()
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:        serviceName,
		Version:            cfg.App.Version,
		CORSOrigins:        cfg.Server.CORSOrigins,
		Store:              records,
		Bundles:            bundles,
		Trainer:            trainer,
		Seeder:             seeder,
		SeedMax:            cfg.Model.SeedMax,
		TrainRatePerMinute: cfg.Model.TrainRatePerMinute,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("store", cfg.Store.Backend).
			Str("model_path", cfg.Model.Path).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
