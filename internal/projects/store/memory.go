package store

import (
	"context"
	"sort"
	"sync"

	"github.com/GoSim-25-26J-441/price-bati-backend/internal/projects/domain"
)

// MemoryStore keeps records in a process-local map.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]domain.ProjectRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]domain.ProjectRecord)}
}

func (m *MemoryStore) FetchAll(ctx context.Context) ([]domain.ProjectRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.ProjectRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) FetchOne(ctx context.Context, id string) (*domain.ProjectRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return &r, nil
}

func (m *MemoryStore) Insert(ctx context.Context, rec domain.ProjectRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.records[rec.ID] = rec
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (m *MemoryStore) Close() error { return nil }
