// Package predictor turns a (surface, type) pair into a cost estimate using
// the most recently saved model bundle.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/price-bati-backend/internal/logging"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/metrics"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/artifact"
)

var (
	ErrPrediction      = errors.New("prediction error")
	ErrMalformedOutput = errors.New("malformed model output")
)

// BundleLoader is satisfied by *artifact.Store.
type BundleLoader interface {
	Load() (*artifact.Bundle, error)
}

type Estimate struct {
	Cost  float64
	RunID string
}

type Predictor struct {
	bundles BundleLoader
}

func New(bundles BundleLoader) *Predictor {
	return &Predictor{bundles: bundles}
}

// Predict returns the estimated cost. It reloads the bundle on every call.
func (p *Predictor) Predict(ctx context.Context, surface float64, projectType string) (float64, error) {
	est, err := p.Estimate(ctx, surface, projectType)
	if err != nil {
		return 0, err
	}
	return est.Cost, nil
}

// Estimate is Predict plus the id of the training run that served it. Every
// failure is wrapped in ErrPrediction with the cause kept for errors.Is.
func (p *Predictor) Estimate(ctx context.Context, surface float64, projectType string) (est Estimate, err error) {
	logger := logging.NewLogger(ctx, "predictor")
	defer func() {
		if err != nil {
			metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
			logger.Error("predict", err).Float64("surface_m2", surface).Str("type_projet", projectType).Msg("prediction failed")
			err = fmt.Errorf("%w: %w", ErrPrediction, err)
			return
		}
		metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	}()

	if err := ctx.Err(); err != nil {
		return Estimate{}, err
	}

	bundle, err := p.bundles.Load()
	if err != nil {
		return Estimate{}, err
	}

	net, err := bundle.Network()
	if err != nil {
		return Estimate{}, fmt.Errorf("%w: %v", artifact.ErrArtifactCorrupt, err)
	}

	x, err := bundle.Preprocessor.TransformOne(surface, projectType)
	if err != nil {
		return Estimate{}, err
	}

	y, err := net.PredictOne(x)
	if err != nil {
		return Estimate{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return Estimate{}, fmt.Errorf("%w: non-finite value %v", ErrMalformedOutput, y)
	}

	logger.Debug("predict").
		Str("run_id", bundle.RunID).
		Float64("surface_m2", surface).
		Str("type_projet", projectType).
		Float64("predicted_cost", y).
		Msg("predicted cost")

	return Estimate{Cost: y, RunID: bundle.RunID}, nil
}
