package preprocess

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers a column on its mean and divides by the population
// standard deviation. A constant column keeps Scale 1.
type StandardScaler struct {
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

func FitStandardScaler(x []float64) StandardScaler {
	mean, variance := stat.PopMeanVariance(x, nil)
	scale := math.Sqrt(variance)
	if scale == 0 || math.IsNaN(scale) {
		scale = 1
	}
	return StandardScaler{Mean: mean, Scale: scale}
}

func (s StandardScaler) Transform(v float64) float64 {
	return (v - s.Mean) / s.Scale
}

func (s StandardScaler) validate() error {
	if math.IsNaN(s.Mean) || math.IsInf(s.Mean, 0) {
		return fmt.Errorf("scaler mean is not finite")
	}
	if !(s.Scale > 0) || math.IsInf(s.Scale, 0) {
		return fmt.Errorf("scaler scale must be positive and finite, got %v", s.Scale)
	}
	return nil
}
