// Package preprocess turns project records into numeric feature vectors:
// the standard-scaled surface followed by the one-hot encoded project type.
package preprocess

import (
	"errors"
	"fmt"

	"github.com/GoSim-25-26J-441/price-bati-backend/internal/projects/domain"
)

var (
	ErrUnknownCategory = errors.New("unknown project type")
	ErrEmptyDataset    = errors.New("no records to fit")
)

// State is the fitted preprocessor. It is only meaningful together with the
// model trained in the same run.
type State struct {
	Encoder OneHotEncoder  `json:"encoder"`
	Scaler  StandardScaler `json:"scaler"`
}

// FeatureDim is the length of every vector produced by this state.
func (s *State) FeatureDim() int { return 1 + s.Encoder.Width() }

// FitTransform fits the vocabulary and the scaler on records and returns the
// training feature matrix (row per record) and the cost targets.
func FitTransform(records []domain.ProjectRecord) ([][]float64, []float64, *State, error) {
	if len(records) == 0 {
		return nil, nil, nil, ErrEmptyDataset
	}

	types := make([]string, len(records))
	surfaces := make([]float64, len(records))
	for i, r := range records {
		types[i] = r.Type
		surfaces[i] = r.SurfaceM2
	}

	st := &State{
		Encoder: FitOneHot(types),
		Scaler:  FitStandardScaler(surfaces),
	}

	X, err := st.Transform(records)
	if err != nil {
		return nil, nil, nil, err
	}

	y := make([]float64, len(records))
	for i, r := range records {
		y[i] = r.TotalCost
	}
	return X, y, st, nil
}

// Transform applies the fitted state to a batch of records.
func (s *State) Transform(records []domain.ProjectRecord) ([][]float64, error) {
	out := make([][]float64, len(records))
	for i, r := range records {
		v, err := s.TransformOne(r.SurfaceM2, r.Type)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", r.ID, err)
		}
		out[i] = v
	}
	return out, nil
}

// TransformOne builds the feature vector for a single input.
func (s *State) TransformOne(surface float64, projectType string) ([]float64, error) {
	v := make([]float64, s.FeatureDim())
	v[0] = s.Scaler.Transform(surface)
	if err := s.Encoder.EncodeInto(v[1:], projectType); err != nil {
		return nil, err
	}
	return v, nil
}

// Validate checks a state decoded from disk.
func (s *State) Validate() error {
	if err := s.Encoder.validate(); err != nil {
		return err
	}
	return s.Scaler.validate()
}
