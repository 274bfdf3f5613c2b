// Package artifact persists the trained model together with the
// preprocessor state that produced its inputs, as one versioned file.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/nn"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/preprocess"
)

// FormatVersion is bumped whenever the on-disk layout changes.
const FormatVersion = 1

var (
	ErrArtifactMissing = errors.New("model artifact not found")
	ErrArtifactCorrupt = errors.New("model artifact corrupt")
)

type TrainingInfo struct {
	Records      int             `json:"records"`
	TrainSamples int             `json:"train_samples"`
	ValSamples   int             `json:"val_samples"`
	Epochs       int             `json:"epochs"`
	Final        nn.EpochMetrics `json:"final"`
}

// Bundle is everything prediction needs from one training run.
type Bundle struct {
	Version      int              `json:"version"`
	RunID        string           `json:"run_id"`
	CreatedAt    time.Time        `json:"created_at"`
	Preprocessor preprocess.State `json:"preprocessor"`
	Layers       []nn.LayerParams `json:"layers"`
	Training     TrainingInfo     `json:"training"`
	History      nn.History       `json:"history,omitempty"`
}

// Network rebuilds the model from the stored layers.
func (b *Bundle) Network() (*nn.Network, error) {
	return nn.FromParams(b.Layers)
}

// Validate checks internal consistency: version, preprocessor state and that
// the first layer accepts exactly the features the preprocessor produces.
func (b *Bundle) Validate() error {
	if b.Version != FormatVersion {
		return fmt.Errorf("unsupported bundle version %d", b.Version)
	}
	if b.RunID == "" {
		return fmt.Errorf("bundle has no run id")
	}
	if err := b.Preprocessor.Validate(); err != nil {
		return fmt.Errorf("preprocessor: %w", err)
	}
	if len(b.Layers) == 0 {
		return fmt.Errorf("bundle has no layers")
	}
	if in, want := b.Layers[0].In, b.Preprocessor.FeatureDim(); in != want {
		return fmt.Errorf("model expects %d features, preprocessor produces %d", in, want)
	}
	if _, err := b.Network(); err != nil {
		return err
	}
	return nil
}

// Store reads and writes the bundle file at Path.
type Store struct {
	Path string
}

func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Save writes the bundle atomically: a temp file in the same directory is
// renamed over the previous artifact. Concurrent saves are last-writer-wins.
func (s *Store) Save(b *Bundle) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid bundle: %w", err)
	}

	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}

// Load reads and validates the bundle. It never returns a nil bundle with a
// nil error.
func (s *Store) Load() (*Bundle, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w at %s", ErrArtifactMissing, s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}
	return &b, nil
}
