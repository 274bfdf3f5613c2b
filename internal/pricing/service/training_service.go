package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GoSim-25-26J-441/price-bati-backend/internal/logging"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/metrics"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/artifact"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/nn"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/preprocess"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/projects/domain"
)

// MinTrainingRecords is the smallest collection that still leaves one record
// on each side of the train/validation split.
const MinTrainingRecords = 2

var ErrNotEnoughRecords = errors.New("not enough records to train")

// RecordFetcher is the read side of the record store used by training.
type RecordFetcher interface {
	FetchAll(ctx context.Context) ([]domain.ProjectRecord, error)
}

// BundleSaver is satisfied by *artifact.Store.
type BundleSaver interface {
	Save(b *artifact.Bundle) error
}

type TrainingConfig struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
	TestRatio    float64
	Seed         int64
}

func DefaultTrainingConfig() TrainingConfig {
	d := nn.DefaultTrainOptions()
	return TrainingConfig{
		Epochs:       d.Epochs,
		BatchSize:    d.BatchSize,
		LearningRate: d.LearningRate,
		TestRatio:    0.2,
		Seed:         42,
	}
}

// TrainingService runs the fetch → preprocess → fit → save pipeline.
type TrainingService struct {
	records RecordFetcher
	bundles BundleSaver
	cfg     TrainingConfig

	// runs are serialized; the last completed run owns the artifact
	mu sync.Mutex
}

func NewTrainingService(records RecordFetcher, bundles BundleSaver, cfg TrainingConfig) *TrainingService {
	return &TrainingService{records: records, bundles: bundles, cfg: cfg}
}

// Train fits a new model on the whole collection and replaces the saved
// bundle. Nothing is written unless every step succeeds.
func (s *TrainingService) Train(ctx context.Context) (bundle *artifact.Bundle, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := logging.NewLogger(ctx, "training")
	runID := uuid.New().String()
	start := time.Now()

	defer func() {
		if err != nil {
			metrics.TrainingRunsTotal.WithLabelValues(metrics.OutcomeError).Inc()
			logger.Error("train", err).Str("run_id", runID).Msg("training failed")
			return
		}
		metrics.TrainingRunsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
		metrics.TrainingDuration.Observe(time.Since(start).Seconds())
	}()

	records, err := s.records.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	if len(records) < MinTrainingRecords {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughRecords, len(records), MinTrainingRecords)
	}

	logger.Info("train").Str("run_id", runID).Int("records", len(records)).Msg("training started")

	X, y, state, err := preprocess.FitTransform(records)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}

	trainSet, valSet := nn.SplitTrainTest(X, y, s.cfg.TestRatio, s.cfg.Seed)
	net := nn.Build(state.FeatureDim(), rand.New(rand.NewSource(s.cfg.Seed)))

	history, err := nn.Train(ctx, net, trainSet, valSet, nn.TrainOptions{
		Epochs:       s.cfg.Epochs,
		BatchSize:    s.cfg.BatchSize,
		LearningRate: s.cfg.LearningRate,
		OnEpoch: func(m nn.EpochMetrics) {
			logger.Debug("train").
				Str("run_id", runID).
				Int("epoch", m.Epoch).
				Float64("loss", m.Loss).
				Float64("mae", m.MAE).
				Float64("val_loss", m.ValLoss).
				Float64("val_mae", m.ValMAE).
				Msg("epoch")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	final := history.Last()
	bundle = &artifact.Bundle{
		Version:      artifact.FormatVersion,
		RunID:        runID,
		CreatedAt:    time.Now().UTC(),
		Preprocessor: *state,
		Layers:       net.Export(),
		Training: artifact.TrainingInfo{
			Records:      len(records),
			TrainSamples: trainSet.Len(),
			ValSamples:   valSet.Len(),
			Epochs:       len(history),
			Final:        final,
		},
		History: history,
	}

	if err := s.bundles.Save(bundle); err != nil {
		return nil, fmt.Errorf("save model: %w", err)
	}

	metrics.TrainingLastLoss.WithLabelValues("train").Set(final.Loss)
	metrics.TrainingLastLoss.WithLabelValues("validation").Set(final.ValLoss)

	logger.Info("train").
		Str("run_id", runID).
		Int("epochs", len(history)).
		Float64("loss", final.Loss).
		Float64("val_loss", final.ValLoss).
		Dur("elapsed", time.Since(start)).
		Msg("training completed")

	return bundle, nil
}
