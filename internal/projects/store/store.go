// Package store holds the record store adapters for the projects collection.
package store

import (
	"context"
	"errors"

	"github.com/GoSim-25-26J-441/price-bati-backend/internal/projects/domain"
)

// DefaultCollection is the collection (or key prefix, or table) holding project records.
const DefaultCollection = "projects"

// ErrStoreUnavailable is returned when the backing connection cannot be established.
var ErrStoreUnavailable = errors.New("record store unavailable")

// Store reads and writes project records in a keyed collection.
// FetchOne returns domain.ErrProjectNotFound when the id is absent.
type Store interface {
	FetchAll(ctx context.Context) ([]domain.ProjectRecord, error)
	FetchOne(ctx context.Context, id string) (*domain.ProjectRecord, error)
	Insert(ctx context.Context, rec domain.ProjectRecord) error
	Ping(ctx context.Context) error
	Close() error
}
