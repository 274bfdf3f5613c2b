package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GoSim-25-26J-441/price-bati-backend/internal/logging"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/metrics"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/projects/domain"
)

// Ranges of the synthetic records. Cost is drawn independently of surface
// and type.
const (
	MinSurfaceM2 = 20.0
	MaxSurfaceM2 = 500.0
	MinCost      = 5000.0
	MaxCost      = 500000.0

	DefaultSeedCount = 1000
)

// RecordInserter is the write side of the record store used by seeding.
type RecordInserter interface {
	Insert(ctx context.Context, rec domain.ProjectRecord) error
}

type SeedService struct {
	records RecordInserter

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSeedService(records RecordInserter, rng *rand.Rand) *SeedService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SeedService{records: records, rng: rng}
}

// Seed inserts n random records one by one and stops at the first write
// error. The returned count is the number written before that error; those
// records stay in the store.
func (s *SeedService) Seed(ctx context.Context, n int) (int, error) {
	logger := logging.NewLogger(ctx, "seed")

	inserted := 0
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return inserted, err
		}

		rec := s.randomRecord()
		if err := s.records.Insert(ctx, rec); err != nil {
			logger.Error("seed", err).Int("inserted", inserted).Int("requested", n).Msg("seeding stopped")
			return inserted, fmt.Errorf("insert record %d of %d: %w", i+1, n, err)
		}
		inserted++
		metrics.SeededRecordsTotal.Inc()
	}

	logger.Info("seed").Int("inserted", inserted).Msg("seeding completed")
	return inserted, nil
}

func (s *SeedService) randomRecord() domain.ProjectRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.ProjectRecord{
		ID:        uuid.New().String(),
		Type:      domain.ProjectTypes[s.rng.Intn(len(domain.ProjectTypes))],
		SurfaceM2: round2(MinSurfaceM2 + s.rng.Float64()*(MaxSurfaceM2-MinSurfaceM2)),
		TotalCost: round2(MinCost + s.rng.Float64()*(MaxCost-MinCost)),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
