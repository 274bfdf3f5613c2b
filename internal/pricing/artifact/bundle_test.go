package artifact

import (
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/nn"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/preprocess"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/projects/domain"
)

func newTestBundle(t *testing.T) *Bundle {
	t.Helper()
	_, _, st, err := preprocess.FitTransform([]domain.ProjectRecord{
		{ID: "a", Type: "Neuf", SurfaceM2: 100, TotalCost: 1000},
		{ID: "b", Type: "Renovation", SurfaceM2: 300, TotalCost: 3000},
	})
	require.NoError(t, err)

	net := nn.Build(st.FeatureDim(), rand.New(rand.NewSource(1)))
	return &Bundle{
		Version:      FormatVersion,
		RunID:        uuid.New().String(),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
		Preprocessor: *st,
		Layers:       net.Export(),
		Training:     TrainingInfo{Records: 2, TrainSamples: 1, ValSamples: 1, Epochs: 1},
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "model.json"))
	b := newTestBundle(t)

	require.NoError(t, s.Save(b))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, b.RunID, got.RunID)
	assert.True(t, b.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, b.Preprocessor, got.Preprocessor)
	assert.Equal(t, b.Layers, got.Layers)

	orig, err := b.Network()
	require.NoError(t, err)
	restored, err := got.Network()
	require.NoError(t, err)

	x, err := b.Preprocessor.TransformOne(150, "Neuf")
	require.NoError(t, err)
	want, _ := orig.PredictOne(x)
	have, _ := restored.PredictOne(x)
	assert.Equal(t, want, have)
}

func TestStore_LoadMissing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	b, err := s.Load()
	assert.Nil(t, b)
	assert.ErrorIs(t, err, ErrArtifactMissing)
}

func TestStore_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()

	t.Run("garbage", func(t *testing.T) {
		p := filepath.Join(dir, "garbage.json")
		require.NoError(t, os.WriteFile(p, []byte("{not json"), 0o644))
		b, err := NewStore(p).Load()
		assert.Nil(t, b)
		assert.ErrorIs(t, err, ErrArtifactCorrupt)
	})

	t.Run("truncated", func(t *testing.T) {
		p := filepath.Join(dir, "model.json")
		s := NewStore(p)
		require.NoError(t, s.Save(newTestBundle(t)))

		data, err := os.ReadFile(p)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(p, data[:len(data)/2], 0o644))

		_, err = s.Load()
		assert.ErrorIs(t, err, ErrArtifactCorrupt)
	})

	t.Run("mismatched feature space", func(t *testing.T) {
		p := filepath.Join(dir, "mismatch.json")
		b := newTestBundle(t)
		b.Layers = nn.Build(7, rand.New(rand.NewSource(2))).Export()

		_, err := b.Network()
		require.NoError(t, err)
		assert.Error(t, NewStore(p).Save(b))
	})
}

func TestBundle_Validate(t *testing.T) {
	b := newTestBundle(t)
	require.NoError(t, b.Validate())

	old := *b
	old.Version = 0
	assert.Error(t, old.Validate())

	noRun := *b
	noRun.RunID = ""
	assert.Error(t, noRun.Validate())
}

func TestStore_ConcurrentSavesLeaveCompleteBundle(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "model.json"))

	bundles := make([]*Bundle, 8)
	ids := make(map[string]bool)
	for i := range bundles {
		bundles[i] = newTestBundle(t)
		ids[bundles[i].RunID] = true
	}

	var wg sync.WaitGroup
	for _, b := range bundles {
		wg.Add(1)
		go func(b *Bundle) {
			defer wg.Done()
			assert.NoError(t, s.Save(b))
		}(b)
	}
	wg.Wait()

	got, err := s.Load()
	require.NoError(t, err)
	assert.True(t, ids[got.RunID], "final bundle must be one of the written runs")

	entries, err := os.ReadDir(filepath.Dir(s.Path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}
