package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/price-bati-backend/internal/projects/domain"
)

// RedisStore keeps each record as a JSON value under {collection}:doc:{id} and
// indexes ids in the set {collection}:ids.
type RedisStore struct {
	client     *redis.Client
	collection string
}

// NewRedisStore wraps an existing client. The caller keeps ownership of
// the client unless Close is called.
func NewRedisStore(client *redis.Client, collection string) *RedisStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &RedisStore{client: client, collection: collection}
}

// OpenRedis dials addr and verifies the connection.
func OpenRedis(ctx context.Context, opts *redis.Options, collection string) (*RedisStore, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis ping: %v", ErrStoreUnavailable, err)
	}
	return NewRedisStore(client, collection), nil
}

func (s *RedisStore) FetchAll(ctx context.Context) ([]domain.ProjectRecord, error) {
	ids, err := s.client.SMembers(ctx, s.idsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list project ids: %w", err)
	}
	if len(ids) == 0 {
		return []domain.ProjectRecord{}, nil
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}

	out := make([]domain.ProjectRecord, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// indexed id whose document has gone away
			continue
		}
		var rec domain.ProjectRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal project %s: %w", ids[i], err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *RedisStore) FetchOne(ctx context.Context, id string) (*domain.ProjectRecord, error) {
	data, err := s.client.Get(ctx, s.recordKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	var rec domain.ProjectRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project data: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore) Insert(ctx context.Context, rec domain.ProjectRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.recordKey(rec.ID), data, 0)
		pipe.SAdd(ctx, s.idsKey(), rec.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) recordKey(id string) string {
	return fmt.Sprintf("%s:doc:%s", s.collection, id)
}

func (s *RedisStore) idsKey() string {
	return s.collection + ":ids"
}
