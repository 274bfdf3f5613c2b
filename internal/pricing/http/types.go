package http

import (
	"context"
	"time"

	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/artifact"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/nn"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/predictor"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/preprocess"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/projects/domain"
)

// TrainedMessage is the body of a successful /train.
const TrainedMessage = "Model trained successfully!"

type RecordReader interface {
	FetchAll(ctx context.Context) ([]domain.ProjectRecord, error)
	FetchOne(ctx context.Context, id string) (*domain.ProjectRecord, error)
}

type Seeder interface {
	Seed(ctx context.Context, n int) (int, error)
}

type Trainer interface {
	Train(ctx context.Context) (*artifact.Bundle, error)
}

type Estimator interface {
	Estimate(ctx context.Context, surface float64, projectType string) (predictor.Estimate, error)
}

type BundleLoader interface {
	Load() (*artifact.Bundle, error)
}

type SeedResponse struct {
	Status        string `json:"status"`
	InsertedCount int    `json:"inserted_count"`
}

type EstimateResponse struct {
	PredictedCost float64 `json:"predicted_cost"`
	RunID         string  `json:"run_id"`
}

// ModelInfo describes the saved bundle without its weights.
type ModelInfo struct {
	RunID      string                    `json:"run_id"`
	Version    int                       `json:"version"`
	CreatedAt  time.Time                 `json:"created_at"`
	Categories []string                  `json:"categories"`
	Scaler     preprocess.StandardScaler `json:"scaler"`
	Training   artifact.TrainingInfo     `json:"training"`
	History    nn.History                `json:"history,omitempty"`
}

func modelInfo(b *artifact.Bundle) ModelInfo {
	return ModelInfo{
		RunID:      b.RunID,
		Version:    b.Version,
		CreatedAt:  b.CreatedAt,
		Categories: b.Preprocessor.Encoder.Categories,
		Scaler:     b.Preprocessor.Scaler,
		Training:   b.Training,
		History:    b.History,
	}
}
